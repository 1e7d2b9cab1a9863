package optimizer

import (
	"fmt"
	"time"
)

// Config defines solver selection and cost constants.
type Config struct {
	// Solver is "exact" or "lp".
	Solver string `json:"solver"`
	// MaxStates bounds the number of search transitions per solve.
	MaxStates int64 `json:"max_states"`
	// TimeBudgetMS bounds the wall time of a solve in milliseconds.
	TimeBudgetMS int `json:"time_budget_ms"`
	// HardMinService turns the minimum service quota into a hard floor.
	HardMinService bool `json:"hard_min_service"`

	ShortfallPenalty  int64   `json:"service_shortfall_penalty"`
	SlotPenalty       int64   `json:"maintenance_slot_penalty"`
	BaseShuntCost     int64   `json:"base_shunt_cost"`
	NominalDailyHours float64 `json:"nominal_daily_hours"`
}

// SetDefaults applies the reference constants.
func (c *Config) SetDefaults() {
	if c.Solver == "" {
		c.Solver = "exact"
	}
	if c.MaxStates == 0 {
		c.MaxStates = 5_000_000
	}
	if c.TimeBudgetMS == 0 {
		c.TimeBudgetMS = 10_000
	}
	if c.ShortfallPenalty == 0 {
		c.ShortfallPenalty = 5_000_000
	}
	if c.SlotPenalty == 0 {
		c.SlotPenalty = 1_000_000
	}
	if c.BaseShuntCost == 0 {
		c.BaseShuntCost = 400
	}
	if c.NominalDailyHours == 0 {
		c.NominalDailyHours = 16
	}
}

// Validate checks the solver name and budgets.
func (c Config) Validate() error {
	if c.Solver != "exact" && c.Solver != "lp" {
		return fmt.Errorf("unknown solver %s", c.Solver)
	}
	if c.MaxStates <= 0 || c.TimeBudgetMS <= 0 {
		return fmt.Errorf("solver budgets must be positive")
	}
	if c.ShortfallPenalty < 0 || c.SlotPenalty < 0 || c.BaseShuntCost < 0 {
		return fmt.Errorf("penalties must be non-negative")
	}
	if c.NominalDailyHours <= 0 {
		return fmt.Errorf("nominal_daily_hours must be positive")
	}
	return nil
}

// TimeBudget returns the per-solve deadline.
func (c Config) TimeBudget() time.Duration {
	return time.Duration(c.TimeBudgetMS) * time.Millisecond
}

// Params returns the cost constants used to build a Problem.
func (c Config) Params() Params {
	return Params{
		ShortfallPenalty:  c.ShortfallPenalty,
		SlotPenalty:       c.SlotPenalty,
		BaseShuntCost:     c.BaseShuntCost,
		NominalDailyHours: c.NominalDailyHours,
		HardMinService:    c.HardMinService,
	}
}

// New returns the solver selected by cfg.
func New(cfg Config) (Solver, error) {
	exact := &ExactSolver{MaxStates: cfg.MaxStates, TimeBudget: cfg.TimeBudget()}
	switch cfg.Solver {
	case "", "exact":
		return exact, nil
	case "lp":
		return &LPSolver{Fallback: exact, TimeBudget: cfg.TimeBudget()}, nil
	default:
		return nil, fmt.Errorf("unknown solver %s", cfg.Solver)
	}
}
