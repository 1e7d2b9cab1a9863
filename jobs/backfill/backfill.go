// Package backfill replays a roster log into a metrics sink, for instance to
// load a finished month into InfluxDB after the fact.
package backfill

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kilianp07/rakeplan/core/metrics"
	"github.com/kilianp07/rakeplan/core/model"
	"github.com/kilianp07/rakeplan/core/rosterlog"
)

// Backfill groups the logged rows by day and records one day summary and the
// vehicle states of each day. It returns the number of days replayed.
// Objective and solver timings are not part of the log and stay zero.
func Backfill(ctx context.Context, store rosterlog.Store, sink metrics.Sink) (int, error) {
	recs, err := store.Query(ctx, rosterlog.Query{})
	if err != nil {
		return 0, err
	}
	byDay := make(map[int][]rosterlog.Record)
	for _, r := range recs {
		byDay[r.Day] = append(byDay[r.Day], r)
	}
	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)

	states, _ := sink.(metrics.VehicleStateRecorder)
	var errs []error
	for _, day := range days {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		rows := byDay[day]
		sum, vs, err := summarize(day, rows)
		if err != nil {
			return 0, err
		}
		if err := sink.RecordDay(sum); err != nil {
			errs = append(errs, fmt.Errorf("day %d: %w", day, err))
		}
		if states != nil {
			if err := states.RecordVehicleStates(vs); err != nil {
				errs = append(errs, fmt.Errorf("day %d states: %w", day, err))
			}
		}
	}
	return len(days), errors.Join(errs...)
}

func summarize(day int, rows []rosterlog.Record) (metrics.DaySummary, []metrics.VehicleState, error) {
	date, err := model.ParseDate(rows[0].Date)
	if err != nil {
		return metrics.DaySummary{}, nil, fmt.Errorf("day %d: %w", day, err)
	}
	sum := metrics.DaySummary{
		Day:       day,
		Date:      date,
		Scenario:  rows[0].Scenario,
		FleetSize: len(rows),
		Solver:    "backfill",
	}
	vs := make([]metrics.VehicleState, 0, len(rows))
	health := 0.0
	for _, r := range rows {
		switch r.Duty {
		case model.DutyService:
			sum.Service++
		case model.DutyMaintenance:
			sum.Maintenance++
		case model.DutyStandby:
			sum.Standby++
		}
		health += r.HealthScore
		vs = append(vs, metrics.VehicleState{
			Day:          day,
			Date:         date,
			VehicleID:    r.VehicleID,
			Duty:         r.Duty,
			HealthScore:  r.HealthScore,
			CurrentKM:    r.CurrentKM,
			CurrentHours: r.CurrentHours,
			Consecutive:  r.ConsecutiveServiceDays,
		})
	}
	sum.AverageHealth = health / float64(len(rows))
	return sum, vs, nil
}
