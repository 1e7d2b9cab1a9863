package config

import (
	"fmt"

	"github.com/kilianp07/rakeplan/core/strategy"
)

// StrategyConfig selects the weight predictor.
type StrategyConfig struct {
	// Source is "static", "csv" (historical table file) or "postgres"
	// (historical_strategy_data table of the store database).
	Source string `json:"source"`
	Path   string `json:"path"`
	// K is the number of neighbours blended by the historical predictor.
	K int `json:"k"`
	// Weights replaces the static defaults.
	Weights *strategy.Weights `json:"weights"`
}

func (c *StrategyConfig) SetDefaults() {
	if c.Source == "" {
		c.Source = "static"
	}
	if c.K == 0 {
		c.K = 3
	}
}

func (c StrategyConfig) Validate() error {
	switch c.Source {
	case "static", "postgres":
	case "csv":
		if c.Path == "" {
			return fmt.Errorf("path is required for csv source")
		}
	default:
		return fmt.Errorf("unknown source %s", c.Source)
	}
	if c.K < 0 {
		return fmt.Errorf("k must be positive")
	}
	if c.Weights != nil {
		return c.Weights.Validate()
	}
	return nil
}
