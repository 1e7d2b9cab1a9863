package optimizer

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/kilianp07/rakeplan/core/model"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// LPSolver relaxes the assignment into a linear program in standard form and
// solves it with the simplex method. The constraint matrix is totally
// unimodular, so an optimal vertex is integral; anything else, as well as any
// numerical failure, is handed to Fallback.
type LPSolver struct {
	Fallback   Solver
	TimeBudget time.Duration
}

const integralityTol = 1e-6

// solveLP minimises c·x subject to A·x = b, x >= 0.
func solveLP(c []float64, A mat.Matrix, b []float64) ([]float64, error) {
	_, x, err := lp.Simplex(c, A, b, 1e-9, nil)
	return x, err
}

// lpSolve points to the function used to solve the LP. It can be overridden in
// tests to simulate solver failures.
var lpSolve = solveLP

// column is an assignment variable x(vehicle, duty).
type column struct {
	vehicle int
	duty    model.Duty
}

// Solve implements Solver.
func (s *LPSolver) Solve(ctx context.Context, p Problem) (Plan, error) {
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	plan, err := s.solve(ctx, p)
	if err == nil {
		return plan, nil
	}
	if ctx.Err() != nil {
		return Plan{}, budgetErr(ctx.Err(), 1)
	}
	if s.Fallback == nil {
		return Plan{}, err
	}
	return s.Fallback.Solve(ctx, p)
}

func (s *LPSolver) solve(ctx context.Context, p Problem) (Plan, error) {
	if s.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.TimeBudget)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return Plan{}, err
	}
	if p.Modifier.MaxService < 0 {
		return Plan{}, fmt.Errorf("negative max_service")
	}
	costs := p.Costs()
	n := len(costs)
	if n == 0 {
		return p.finish(map[string]model.Duty{}, "lp", 0)
	}

	var cols []column
	for i, vc := range costs {
		for _, d := range model.Duties {
			if vc.Allowed[d] {
				cols = append(cols, column{vehicle: i, duty: d})
			}
		}
	}
	// Auxiliary columns: shortfall, min surplus, max slack, slot over, slot under.
	withShortfall := !p.Params.HardMinService
	aux := 4
	if withShortfall {
		aux++
	}
	nv := len(cols) + aux
	rows := n + 3
	rowMin, rowMax, rowSlot := n, n+1, n+2

	c := make([]float64, nv)
	A := mat.NewDense(rows, nv, nil)
	b := make([]float64, rows)
	for j, col := range cols {
		c[j] = float64(costs[col.vehicle].Cost(col.duty))
		A.Set(col.vehicle, j, 1)
		switch col.duty {
		case model.DutyService:
			A.Set(rowMin, j, 1)
			A.Set(rowMax, j, 1)
		case model.DutyMaintenance:
			A.Set(rowSlot, j, 1)
		}
	}
	for i := 0; i < n; i++ {
		b[i] = 1
	}
	j := len(cols)
	if withShortfall {
		c[j] = float64(p.Params.ShortfallPenalty)
		A.Set(rowMin, j, 1)
		j++
	}
	A.Set(rowMin, j, -1)
	A.Set(rowMax, j+1, 1)
	c[j+2] = float64(p.Params.SlotPenalty)
	A.Set(rowSlot, j+2, -1)
	c[j+3] = float64(p.Params.SlotPenalty)
	A.Set(rowSlot, j+3, 1)
	b[rowMin] = float64(p.Modifier.MinService)
	b[rowMax] = float64(p.Modifier.MaxService)
	b[rowSlot] = float64(p.Modifier.MaintenanceSlots)

	x, err := lpSolve(c, A, b)
	if err != nil {
		return Plan{}, fmt.Errorf("simplex: %w", err)
	}
	if len(x) != nv {
		return Plan{}, fmt.Errorf("simplex returned %d values, want %d", len(x), nv)
	}
	duties := make(map[string]model.Duty, n)
	for j, col := range cols {
		v := x[j]
		if math.Abs(v-math.Round(v)) > integralityTol {
			return Plan{}, fmt.Errorf("fractional solution %.6f for %s", v, costs[col.vehicle].ID)
		}
		if math.Round(v) == 1 {
			id := costs[col.vehicle].ID
			if _, dup := duties[id]; dup {
				return Plan{}, fmt.Errorf("vehicle %s assigned twice", id)
			}
			duties[id] = col.duty
		}
	}
	return p.finish(duties, "lp", 1)
}
