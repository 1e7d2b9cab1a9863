package optimizer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/kilianp07/rakeplan/core/model"
)

// ExactSolver finds a provably optimal plan with a dynamic programme over
// (vehicle, service count, maintenance count). The objective only couples
// vehicles through the two counts, so the state space is small for fleets
// of tens of vehicles.
type ExactSolver struct {
	// MaxStates bounds the number of transitions explored; 0 means unbounded.
	MaxStates int64
	// TimeBudget bounds the wall time; 0 means no deadline beyond ctx.
	TimeBudget time.Duration
}

const unreachable = math.MaxInt64

// Solve implements Solver.
func (s *ExactSolver) Solve(ctx context.Context, p Problem) (Plan, error) {
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	if p.Modifier.MaxService < 0 {
		return Plan{}, fmt.Errorf("%w: max_service %d", ErrInfeasible, p.Modifier.MaxService)
	}
	if s.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.TimeBudget)
		defer cancel()
	}
	costs := p.Costs()
	n := len(costs)
	maxS := p.Modifier.MaxService
	if maxS > n {
		maxS = n
	}
	width := n + 1
	idx := func(a, b int) int { return a*width + b }

	dp := newLayer((maxS + 1) * width)
	dp[idx(0, 0)] = 0
	// choice[i][state] records the duty of vehicle i on the best path into state.
	choice := make([][]int8, n)
	var explored int64
	for i, c := range costs {
		if err := ctx.Err(); err != nil {
			return Plan{}, budgetErr(err, explored)
		}
		next := newLayer(len(dp))
		choice[i] = make([]int8, len(dp))
		for a := 0; a <= maxS && a <= i; a++ {
			for b := 0; b+a <= i; b++ {
				cur := dp[idx(a, b)]
				if cur == unreachable {
					continue
				}
				for _, d := range model.Duties {
					if !c.Allowed[d] {
						continue
					}
					na, nb := a, b
					switch d {
					case model.DutyService:
						na++
					case model.DutyMaintenance:
						nb++
					}
					if na > maxS {
						continue
					}
					explored++
					if s.MaxStates > 0 && explored > s.MaxStates {
						return Plan{}, fmt.Errorf("%w: %d transitions explored", ErrBudgetExceeded, explored)
					}
					v := cur + c.Cost(d)
					if k := idx(na, nb); v < next[k] {
						next[k] = v
						choice[i][k] = int8(d)
					}
				}
			}
		}
		dp = next
	}

	best, bestA, bestB := int64(unreachable), -1, -1
	for a := 0; a <= maxS; a++ {
		if !p.countsAllowed(a) {
			continue
		}
		for b := 0; a+b <= n; b++ {
			v := dp[idx(a, b)]
			if v == unreachable {
				continue
			}
			total := v + p.Shortfall(a) + p.SlotDeviation(b)
			if total < best {
				best, bestA, bestB = total, a, b
			}
		}
	}
	if bestA < 0 {
		return Plan{}, fmt.Errorf("%w: no partition satisfies the hard constraints", ErrInfeasible)
	}

	duties := make(map[string]model.Duty, n)
	a, b := bestA, bestB
	for i := n - 1; i >= 0; i-- {
		d := model.Duty(choice[i][idx(a, b)])
		duties[costs[i].ID] = d
		switch d {
		case model.DutyService:
			a--
		case model.DutyMaintenance:
			b--
		}
	}
	return p.finish(duties, "exact", explored)
}

func newLayer(size int) []int64 {
	l := make([]int64, size)
	for i := range l {
		l[i] = unreachable
	}
	return l
}

func budgetErr(err error, explored int64) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: deadline reached after %d transitions", ErrBudgetExceeded, explored)
	}
	return err
}
