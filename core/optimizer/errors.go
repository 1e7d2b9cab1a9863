package optimizer

import "errors"

var (
	// ErrInfeasible indicates the hard constraints admit no assignment.
	ErrInfeasible = errors.New("assignment infeasible")
	// ErrBudgetExceeded indicates the solver ran out of work or time budget
	// before proving optimality. Retrying with a larger budget may succeed.
	ErrBudgetExceeded = errors.New("solver budget exceeded")
)
