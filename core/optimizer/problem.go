package optimizer

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/kilianp07/rakeplan/core/model"
	"github.com/kilianp07/rakeplan/core/strategy"
)

// Params holds the fixed cost constants of the objective.
type Params struct {
	ShortfallPenalty  int64
	SlotPenalty       int64
	BaseShuntCost     int64
	NominalDailyHours float64
	HardMinService    bool
}

// DefaultParams returns the reference cost constants.
func DefaultParams() Params {
	var c Config
	c.SetDefaults()
	return c.Params()
}

// Problem is one day's assignment problem. Vehicles must carry the derived
// health and compliance fields of the day.
type Problem struct {
	Vehicles    []model.VehicleRecord
	Scenario    model.ScenarioTag
	Modifier    model.ScenarioModifier
	Weights     strategy.Weights
	Day         int
	MonthLength int
	Params      Params
}

// Solver solves a Problem.
type Solver interface {
	Solve(ctx context.Context, p Problem) (Plan, error)
}

// ServiceTerms splits the cost of running a vehicle in revenue service.
type ServiceTerms struct {
	Fatigue int64 `json:"fatigue"`
	Mileage int64 `json:"mileage"`
	Shunt   int64 `json:"shunt"`
	Weather int64 `json:"weather"`
}

// Total returns the sum of all service terms.
func (s ServiceTerms) Total() int64 { return s.Fatigue + s.Mileage + s.Shunt + s.Weather }

// VehicleCost is the per-duty cost row and eligibility of one vehicle.
type VehicleCost struct {
	ID      string
	Allowed [3]bool
	Service ServiceTerms
	// Maintenance is charged when the vehicle is sent to the depot.
	Maintenance int64
	// BrandingIdle is charged whenever the vehicle is not in service.
	BrandingIdle int64
}

// Cost returns the objective contribution of assigning d.
func (v VehicleCost) Cost(d model.Duty) int64 {
	switch d {
	case model.DutyService:
		return v.Service.Total()
	case model.DutyMaintenance:
		return v.Maintenance + v.BrandingIdle
	default:
		return v.BrandingIdle
	}
}

// Forced reports whether maintenance is the only allowed duty.
func (v VehicleCost) Forced() bool {
	return v.Allowed[model.DutyMaintenance] && !v.Allowed[model.DutyService] && !v.Allowed[model.DutyStandby]
}

// Validate checks the problem inputs. Scenario quotas are checked by the
// solvers since a negative cap is an infeasibility, not an input error.
func (p Problem) Validate() error {
	if p.MonthLength <= 0 {
		return fmt.Errorf("month length must be positive")
	}
	if p.Day < 1 || p.Day > p.MonthLength {
		return fmt.Errorf("day %d outside month of %d days", p.Day, p.MonthLength)
	}
	if err := p.Weights.Validate(); err != nil {
		return err
	}
	if p.Params.NominalDailyHours <= 0 {
		return fmt.Errorf("nominal daily hours must be positive")
	}
	seen := make(map[string]struct{}, len(p.Vehicles))
	for _, v := range p.Vehicles {
		if _, dup := seen[v.ID]; dup {
			return fmt.Errorf("duplicate vehicle %s", v.ID)
		}
		seen[v.ID] = struct{}{}
	}
	return nil
}

// IdealKM is the cumulative mileage a vehicle should have reached by the
// end of today.
func (p Problem) IdealKM() float64 {
	return p.Weights.TargetMileage / float64(p.MonthLength) * float64(p.Day)
}

// DaysRemaining counts today as remaining, so it is never zero.
func (p Problem) DaysRemaining() int {
	return p.MonthLength - p.Day + 1
}

// Costs returns the cost rows ordered by vehicle id.
func (p Problem) Costs() []VehicleCost {
	ideal := p.IdealKM()
	urgency := float64(p.Day) / float64(p.MonthLength)
	weather := int64(0)
	if p.Scenario.IsAdverseWeather() {
		weather = int64(p.Modifier.Weather())
	}
	out := make([]VehicleCost, 0, len(p.Vehicles))
	for _, v := range p.Vehicles {
		c := VehicleCost{ID: v.ID}
		forced := v.HealthScore < p.Weights.MaintThreshold || v.ManualForceMaintenance || v.IsCertExpired
		noService := v.IsCertExpired || v.JobCardPriority == model.PriorityCritical
		c.Allowed[model.DutyMaintenance] = true
		c.Allowed[model.DutyService] = !forced && !noService
		c.Allowed[model.DutyStandby] = !forced

		days := float64(v.ConsecutiveServiceDays)
		c.Service.Fatigue = int64(days * days * p.Weights.FatigueFactor)
		c.Service.Mileage = int64(math.Abs(float64(v.CurrentKM)-ideal) * p.Weights.CostPerKM * urgency)
		c.Service.Shunt = int64(v.StablingShuntMoves) * p.Params.BaseShuntCost
		if v.BrakeModel == model.LegacyBrakeModel {
			c.Service.Weather = weather
		}
		c.Maintenance = int64(v.HealthScore)
		if needed := v.HoursNeeded(); needed > 0 {
			rate := needed / float64(p.DaysRemaining())
			c.BrandingIdle = int64(p.Weights.BrandingPenalty * rate / p.Params.NominalDailyHours)
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Shortfall returns the penalty for running fewer than the minimum service.
func (p Problem) Shortfall(service int) int64 {
	if d := p.Modifier.MinService - service; d > 0 {
		return int64(d) * p.Params.ShortfallPenalty
	}
	return 0
}

// SlotDeviation returns the penalty for missing the maintenance slot quota.
func (p Problem) SlotDeviation(maintenance int) int64 {
	d := maintenance - p.Modifier.MaintenanceSlots
	if d < 0 {
		d = -d
	}
	return int64(d) * p.Params.SlotPenalty
}

// countsAllowed reports whether a (service, maintenance) count pair meets
// the count constraints.
func (p Problem) countsAllowed(service int) bool {
	if service > p.Modifier.MaxService {
		return false
	}
	if p.Params.HardMinService && service < p.Modifier.MinService {
		return false
	}
	return true
}
