package simulation

import (
	"errors"
	"fmt"
)

// ErrConfiguration indicates a missing or malformed input detected before
// or while running a day.
var ErrConfiguration = errors.New("invalid configuration")

// Kind classifies a fatal run failure.
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindInfeasible    Kind = "infeasible"
	KindBudget        Kind = "budget"
	KindSolver        Kind = "solver"
	KindPersistence   Kind = "persistence"
	KindLog           Kind = "log"
	KindCancelled     Kind = "cancelled"
)

// RunError reports the day a run halted on and the last day whose state
// was persisted.
type RunError struct {
	Day              int
	LastCompletedDay int
	Kind             Kind
	Err              error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("day %d: %s failure (last completed day %d): %v", e.Day, e.Kind, e.LastCompletedDay, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }
