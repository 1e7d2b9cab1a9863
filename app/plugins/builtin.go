package plugins

import (
	"context"
	"fmt"

	"github.com/kilianp07/rakeplan/config"
	"github.com/kilianp07/rakeplan/core/strategy"
)

func init() {
	RegisterPredictor("static", func(_ context.Context, cfg config.StrategyConfig, _ HistorySource) (strategy.Predictor, error) {
		p := strategy.NewStatic()
		if cfg.Weights != nil {
			p.Weights = *cfg.Weights
		}
		return p, nil
	})
	RegisterPredictor("csv", func(_ context.Context, cfg config.StrategyConfig, _ HistorySource) (strategy.Predictor, error) {
		rows, err := strategy.LoadHistoricalFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		return strategy.NewHistorical(rows, cfg.K)
	})
	RegisterPredictor("postgres", func(ctx context.Context, cfg config.StrategyConfig, src HistorySource) (strategy.Predictor, error) {
		if src == nil {
			return nil, fmt.Errorf("fleet store keeps no strategy history")
		}
		rows, err := src.Historical(ctx)
		if err != nil {
			return nil, err
		}
		return strategy.NewHistorical(rows, cfg.K)
	})
}
