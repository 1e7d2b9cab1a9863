package metrics

import (
	"time"

	"github.com/kilianp07/rakeplan/core/model"
)

// DaySummary describes one completed simulation day.
type DaySummary struct {
	Day           int
	Date          time.Time
	Scenario      model.ScenarioTag
	FleetSize     int
	Service       int
	Maintenance   int
	Standby       int
	Objective     int64
	Operational   int64
	Shortfall     int64
	SlotDeviation int64
	AverageHealth float64
	Solver        string
	SolveDuration time.Duration
	Renewals      int
	Warnings      int
}

// Sink records day summaries for observability purposes.
type Sink interface {
	RecordDay(s DaySummary) error
}

// VehicleState is the end of day state of one vehicle.
type VehicleState struct {
	Day          int
	Date         time.Time
	VehicleID    string
	Duty         model.Duty
	HealthScore  float64
	CurrentKM    int
	CurrentHours float64
	Consecutive  int
}

// VehicleStateRecorder records per-vehicle snapshots.
type VehicleStateRecorder interface {
	RecordVehicleStates(states []VehicleState) error
}

// RunFailure describes a run halted by a fatal error.
type RunFailure struct {
	Day  int
	Kind string
	Time time.Time
}

// RunFailureRecorder records fatal run failures.
type RunFailureRecorder interface {
	RecordRunFailure(f RunFailure) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordDay(DaySummary) error               { return nil }
func (NopSink) RecordVehicleStates([]VehicleState) error { return nil }
func (NopSink) RecordRunFailure(RunFailure) error        { return nil }
