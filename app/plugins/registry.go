// Package plugins maps configuration names to weight predictor builders.
package plugins

import (
	"context"
	"fmt"
	"sort"

	"github.com/kilianp07/rakeplan/config"
	"github.com/kilianp07/rakeplan/core/strategy"
)

// HistorySource supplies historical strategy rows, typically the database
// behind the fleet store.
type HistorySource interface {
	Historical(ctx context.Context) ([]strategy.HistoricalRow, error)
}

// PredictorFactory builds a weight predictor. src is nil when the fleet
// store keeps no history.
type PredictorFactory func(ctx context.Context, cfg config.StrategyConfig, src HistorySource) (strategy.Predictor, error)

var Predictors = map[string]PredictorFactory{}

func RegisterPredictor(name string, f PredictorFactory) { Predictors[name] = f }

// NewPredictor builds the predictor selected by cfg.Source.
func NewPredictor(ctx context.Context, cfg config.StrategyConfig, src HistorySource) (strategy.Predictor, error) {
	f, ok := Predictors[cfg.Source]
	if !ok {
		return nil, fmt.Errorf("%w: unknown strategy source %s (known: %v)", config.ErrConfiguration, cfg.Source, names())
	}
	p, err := f(ctx, cfg, src)
	if err != nil {
		return nil, fmt.Errorf("%w: strategy %s: %v", config.ErrConfiguration, cfg.Source, err)
	}
	return p, nil
}

func names() []string {
	out := make([]string, 0, len(Predictors))
	for n := range Predictors {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
