package optimizer

import (
	"fmt"
	"sort"

	"github.com/kilianp07/rakeplan/core/model"
)

// Breakdown itemises the objective of a plan.
type Breakdown struct {
	Shortfall     int64 `json:"shortfall"`
	SlotDeviation int64 `json:"slot_deviation"`
	Fatigue       int64 `json:"fatigue"`
	Mileage       int64 `json:"mileage"`
	Shunt         int64 `json:"shunt"`
	Weather       int64 `json:"weather"`
	Maintenance   int64 `json:"maintenance"`
	Branding      int64 `json:"branding"`
}

// Total returns the objective value.
func (b Breakdown) Total() int64 {
	return b.Shortfall + b.SlotDeviation + b.Fatigue + b.Mileage + b.Shunt + b.Weather + b.Maintenance + b.Branding
}

// Operational returns the objective without the quota penalties.
func (b Breakdown) Operational() int64 {
	return b.Total() - b.Shortfall - b.SlotDeviation
}

// Plan is a solved daily assignment.
type Plan struct {
	Duties    map[string]model.Duty `json:"duties"`
	Objective int64                 `json:"objective"`
	Breakdown Breakdown             `json:"breakdown"`
	Solver    string                `json:"solver"`
	// Explored counts the search transitions or LP solves performed.
	Explored int64 `json:"explored"`
}

// Count returns the number of vehicles assigned d.
func (p Plan) Count(d model.Duty) int {
	n := 0
	for _, v := range p.Duties {
		if v == d {
			n++
		}
	}
	return n
}

// IDs returns the sorted ids of vehicles assigned d.
func (p Plan) IDs(d model.Duty) []string {
	var ids []string
	for id, v := range p.Duties {
		if v == d {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Evaluate checks duties against every hard constraint of p and returns
// the objective breakdown.
func (p Problem) Evaluate(duties map[string]model.Duty) (Breakdown, error) {
	var b Breakdown
	costs := p.Costs()
	if len(duties) != len(costs) {
		return b, fmt.Errorf("plan covers %d vehicles, fleet has %d", len(duties), len(costs))
	}
	var service, maint int
	for _, c := range costs {
		d, ok := duties[c.ID]
		if !ok {
			return b, fmt.Errorf("vehicle %s unassigned", c.ID)
		}
		if d < model.DutyService || d > model.DutyStandby {
			return b, fmt.Errorf("vehicle %s has invalid duty %d", c.ID, int(d))
		}
		if !c.Allowed[d] {
			return b, fmt.Errorf("vehicle %s may not be assigned %s", c.ID, d)
		}
		switch d {
		case model.DutyService:
			service++
			b.Fatigue += c.Service.Fatigue
			b.Mileage += c.Service.Mileage
			b.Shunt += c.Service.Shunt
			b.Weather += c.Service.Weather
		case model.DutyMaintenance:
			maint++
			b.Maintenance += c.Maintenance
			b.Branding += c.BrandingIdle
		default:
			b.Branding += c.BrandingIdle
		}
	}
	if !p.countsAllowed(service) {
		return b, fmt.Errorf("%d vehicles in service outside [%d,%d]", service, p.Modifier.MinService, p.Modifier.MaxService)
	}
	b.Shortfall = p.Shortfall(service)
	b.SlotDeviation = p.SlotDeviation(maint)
	return b, nil
}

// finish validates duties and wraps them in a Plan.
func (p Problem) finish(duties map[string]model.Duty, solver string, explored int64) (Plan, error) {
	b, err := p.Evaluate(duties)
	if err != nil {
		return Plan{}, fmt.Errorf("%s produced an invalid plan: %w", solver, err)
	}
	return Plan{Duties: duties, Objective: b.Total(), Breakdown: b, Solver: solver, Explored: explored}, nil
}
