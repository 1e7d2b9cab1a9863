// Package simulation runs the month: one optimize and transition cycle per
// day, persisting and logging the fleet after every day.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kilianp07/rakeplan/core/fleet"
	"github.com/kilianp07/rakeplan/core/health"
	"github.com/kilianp07/rakeplan/core/logger"
	"github.com/kilianp07/rakeplan/core/metrics"
	"github.com/kilianp07/rakeplan/core/model"
	coremon "github.com/kilianp07/rakeplan/core/monitoring"
	"github.com/kilianp07/rakeplan/core/optimizer"
	"github.com/kilianp07/rakeplan/core/publish"
	"github.com/kilianp07/rakeplan/core/rosterlog"
	"github.com/kilianp07/rakeplan/core/strategy"
	"github.com/kilianp07/rakeplan/core/transition"
)

// DefaultStartDate is the first day of the reference month.
var DefaultStartDate = time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)

// Driver sequences the simulated days. Store, Predictor, Solver and Log are
// required; the remaining collaborators default to no-ops.
type Driver struct {
	Store     fleet.Store
	Predictor strategy.Predictor
	Solver    optimizer.Solver
	Log       rosterlog.Store
	Sink      metrics.Sink
	Publisher publish.Publisher
	Logger    logger.Logger

	Calendar  ScenarioCalendar
	Overrides OverrideCalendar
	Modifiers map[model.ScenarioTag]model.ScenarioModifier

	Params     transition.Params
	CostParams optimizer.Params

	// StartDate is the calendar date of day 1.
	StartDate   time.Time
	MonthLength int
	// StartDay resumes a month at a later day; 0 means day 1.
	StartDay int
}

// DayResult summarises one completed day.
type DayResult struct {
	Day         int
	Date        time.Time
	Scenario    model.ScenarioTag
	Service     []string
	Maintenance []string
	Standby     []string
	Objective   int64
	Breakdown   optimizer.Breakdown
	Solver      string
	Renewals    []transition.Event
	Warnings    []health.Warning
}

// Report is the outcome of a run, complete or not.
type Report struct {
	FirstDay         int
	LastCompletedDay int
	Days             []DayResult
}

// Validate checks that the driver can run before any day executes.
func (d *Driver) Validate() error {
	if d.Store == nil || d.Predictor == nil || d.Solver == nil || d.Log == nil {
		return fmt.Errorf("%w: store, predictor, solver and log are required", ErrConfiguration)
	}
	if d.MonthLength <= 0 {
		return fmt.Errorf("%w: month length must be positive", ErrConfiguration)
	}
	if d.firstDay() > d.MonthLength {
		return fmt.Errorf("%w: start day %d beyond month of %d days", ErrConfiguration, d.firstDay(), d.MonthLength)
	}
	if err := d.Params.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	for tag, m := range d.Modifiers {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("%w: scenario %s: %v", ErrConfiguration, tag, err)
		}
	}
	if err := d.Calendar.Validate(d.MonthLength, d.Modifiers); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if err := d.Overrides.Validate(d.MonthLength); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return nil
}

func (d *Driver) firstDay() int {
	if d.StartDay <= 0 {
		return 1
	}
	return d.StartDay
}

func (d *Driver) defaults() {
	if d.Sink == nil {
		d.Sink = metrics.NopSink{}
	}
	if d.Publisher == nil {
		d.Publisher = publish.NopPublisher{}
	}
	if d.Logger == nil {
		d.Logger = nopLogger{}
	}
	if d.Modifiers == nil {
		d.Modifiers = model.DefaultModifiers()
	}
	if d.StartDate.IsZero() {
		d.StartDate = DefaultStartDate
	}
	if d.Params == (transition.Params{}) {
		d.Params = transition.DefaultParams()
	}
	if d.CostParams == (optimizer.Params{}) {
		d.CostParams = optimizer.DefaultParams()
	}
}

// Run executes the days from StartDay to MonthLength. It stops at the first
// fatal error and returns a *RunError describing it together with the report
// of the days completed so far. Cancellation is honoured between days.
func (d *Driver) Run(ctx context.Context) (Report, error) {
	d.defaults()
	first := d.firstDay()
	rep := Report{FirstDay: first, LastCompletedDay: first - 1}
	if err := d.Validate(); err != nil {
		return rep, d.fail(&RunError{Day: first, LastCompletedDay: rep.LastCompletedDay, Kind: KindConfiguration, Err: err})
	}
	d.Logger.Infof("simulating days %d to %d starting %s", first, d.MonthLength, model.FormatDate(d.StartDate))
	for day := first; day <= d.MonthLength; day++ {
		if err := ctx.Err(); err != nil {
			return rep, d.fail(&RunError{Day: day, LastCompletedDay: rep.LastCompletedDay, Kind: KindCancelled, Err: err})
		}
		res, kind, err := d.runDay(ctx, day)
		if err != nil {
			if kind == KindLog {
				// the fleet state for day is already saved
				rep.Days = append(rep.Days, res)
				rep.LastCompletedDay = day
			}
			return rep, d.fail(&RunError{Day: day, LastCompletedDay: rep.LastCompletedDay, Kind: kind, Err: err})
		}
		rep.Days = append(rep.Days, res)
		rep.LastCompletedDay = day
	}
	d.Logger.Infof("simulation complete through day %d", rep.LastCompletedDay)
	return rep, nil
}

func (d *Driver) runDay(ctx context.Context, day int) (DayResult, Kind, error) {
	today := d.StartDate.AddDate(0, 0, day-1)
	tag := d.Calendar.Tag(day)
	res := DayResult{Day: day, Date: today, Scenario: tag}

	records, err := d.Store.Load(ctx)
	if err != nil {
		return res, KindPersistence, err
	}
	if len(records) == 0 {
		return res, KindConfiguration, fmt.Errorf("%w: fleet is empty", ErrConfiguration)
	}
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return res, KindConfiguration, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
	}
	mod, ok := d.Modifiers[tag]
	if !ok {
		return res, KindConfiguration, fmt.Errorf("%w: no modifier for scenario %s", ErrConfiguration, tag)
	}

	derived, warns := health.Apply(records, today, d.Overrides.For(day))
	for _, w := range warns {
		d.Logger.Warnf("day %d: %s", day, w)
	}
	res.Warnings = warns
	avg := health.AverageHealth(derived)

	weights, err := d.Predictor.Predict(ctx, strategy.Conditions{
		FleetSize:          len(derived),
		TargetServiceCount: mod.MinService,
		AverageFleetHealth: avg,
		IsAdverseWeather:   tag.IsAdverseWeather(),
		IsSurgeDemand:      tag.IsSurgeDemand(),
	})
	if err == nil {
		err = weights.Validate()
	}
	if err != nil {
		return res, KindConfiguration, fmt.Errorf("%w: strategy weights: %v", ErrConfiguration, err)
	}

	start := time.Now()
	plan, err := d.Solver.Solve(ctx, optimizer.Problem{
		Vehicles:    derived,
		Scenario:    tag,
		Modifier:    mod,
		Weights:     weights,
		Day:         day,
		MonthLength: d.MonthLength,
		Params:      d.CostParams,
	})
	elapsed := time.Since(start)
	if err != nil {
		return res, solveKind(ctx, err), err
	}

	next, events, err := transition.Apply(derived, plan.Duties, today, d.Params)
	if err != nil {
		return res, KindSolver, fmt.Errorf("apply plan: %w", err)
	}
	if err := d.Store.Save(ctx, next); err != nil {
		return res, KindPersistence, err
	}
	for _, ev := range events {
		d.Logger.Infof("day %d: %s certificate renewed until %s", day, ev.VehicleID, model.FormatDate(ev.Current))
	}

	res.Service = plan.IDs(model.DutyService)
	res.Maintenance = plan.IDs(model.DutyMaintenance)
	res.Standby = plan.IDs(model.DutyStandby)
	res.Objective = plan.Objective
	res.Breakdown = plan.Breakdown
	res.Solver = plan.Solver
	res.Renewals = events

	logRecs := make([]rosterlog.Record, len(next))
	for i, r := range next {
		logRecs[i] = rosterlog.NewRecord(day, today, tag, plan.Duties[r.ID], r)
	}
	if err := d.Log.Append(ctx, logRecs); err != nil {
		return res, KindLog, err
	}

	d.Logger.Infof("day %d (%s, %s): service=%d maintenance=%d standby=%d objective=%d",
		day, model.FormatDate(today), tag, len(res.Service), len(res.Maintenance), len(res.Standby), plan.Objective)
	d.Logger.Debugw("objective breakdown", map[string]any{
		"day":            day,
		"solver":         plan.Solver,
		"shortfall":      plan.Breakdown.Shortfall,
		"slot_deviation": plan.Breakdown.SlotDeviation,
		"fatigue":        plan.Breakdown.Fatigue,
		"mileage":        plan.Breakdown.Mileage,
		"shunt":          plan.Breakdown.Shunt,
		"weather":        plan.Breakdown.Weather,
		"maintenance":    plan.Breakdown.Maintenance,
		"branding":       plan.Breakdown.Branding,
		"solve_ms":       elapsed.Milliseconds(),
	})
	if plan.Breakdown.Shortfall > 0 {
		d.Logger.Warnf("day %d: service below minimum of %d", day, mod.MinService)
	}

	d.record(res, next, plan, avg, elapsed)
	d.announce(ctx, res)
	return res, "", nil
}

func solveKind(ctx context.Context, err error) Kind {
	switch {
	case errors.Is(err, optimizer.ErrInfeasible):
		return KindInfeasible
	case errors.Is(err, optimizer.ErrBudgetExceeded):
		return KindBudget
	case ctx.Err() != nil:
		return KindCancelled
	default:
		return KindSolver
	}
}

func (d *Driver) record(res DayResult, next []model.VehicleRecord, plan optimizer.Plan, avg float64, elapsed time.Duration) {
	sum := metrics.DaySummary{
		Day:           res.Day,
		Date:          res.Date,
		Scenario:      res.Scenario,
		FleetSize:     len(next),
		Service:       len(res.Service),
		Maintenance:   len(res.Maintenance),
		Standby:       len(res.Standby),
		Objective:     plan.Objective,
		Operational:   plan.Breakdown.Operational(),
		Shortfall:     plan.Breakdown.Shortfall,
		SlotDeviation: plan.Breakdown.SlotDeviation,
		AverageHealth: avg,
		Solver:        plan.Solver,
		SolveDuration: elapsed,
		Renewals:      len(res.Renewals),
		Warnings:      len(res.Warnings),
	}
	if err := d.Sink.RecordDay(sum); err != nil {
		d.Logger.Warnf("day %d: record metrics: %v", res.Day, err)
	}
	rec, ok := d.Sink.(metrics.VehicleStateRecorder)
	if !ok {
		return
	}
	states := make([]metrics.VehicleState, len(next))
	for i, r := range next {
		states[i] = metrics.VehicleState{
			Day:          res.Day,
			Date:         res.Date,
			VehicleID:    r.ID,
			Duty:         plan.Duties[r.ID],
			HealthScore:  r.HealthScore,
			CurrentKM:    r.CurrentKM,
			CurrentHours: r.CurrentHours,
			Consecutive:  r.ConsecutiveServiceDays,
		}
	}
	if err := rec.RecordVehicleStates(states); err != nil {
		d.Logger.Warnf("day %d: record vehicle states: %v", res.Day, err)
	}
}

func (d *Driver) announce(ctx context.Context, res DayResult) {
	msg := publish.PlanMessage{
		Day:         res.Day,
		Date:        model.FormatDate(res.Date),
		Scenario:    string(res.Scenario),
		Service:     res.Service,
		Maintenance: res.Maintenance,
		Standby:     res.Standby,
		Objective:   res.Objective,
		Solver:      res.Solver,
	}
	if err := d.Publisher.PublishPlan(ctx, msg); err != nil {
		d.Logger.Warnf("day %d: publish plan: %v", res.Day, err)
	}
}

func (d *Driver) fail(e *RunError) error {
	d.Logger.Errorf("%v", e)
	coremon.CaptureException(e, map[string]string{
		"module":             "simulation",
		"kind":               string(e.Kind),
		"day":                strconv.Itoa(e.Day),
		"last_completed_day": strconv.Itoa(e.LastCompletedDay),
	})
	if rec, ok := d.Sink.(metrics.RunFailureRecorder); ok {
		if err := rec.RecordRunFailure(metrics.RunFailure{Day: e.Day, Kind: string(e.Kind), Time: time.Now()}); err != nil {
			d.Logger.Warnf("record run failure: %v", err)
		}
	}
	return e
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
