package scenarios

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/rakeplan/core/optimizer"
	"github.com/kilianp07/rakeplan/core/rosterlog"
	"github.com/kilianp07/rakeplan/core/simulation"
	"github.com/kilianp07/rakeplan/core/strategy"
	"github.com/kilianp07/rakeplan/infra/logger"
	"github.com/kilianp07/rakeplan/infra/metrics"
	"github.com/kilianp07/rakeplan/infra/store"
)

func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	records, err := sc.Fleet()
	if err != nil {
		t.Fatalf("fleet: %v", err)
	}
	logs, err := rosterlog.NewJSONLStore(filepath.Join(t.TempDir(), "roster.jsonl"))
	if err != nil {
		t.Fatalf("roster log: %v", err)
	}

	ocfg := optimizer.Config{HardMinService: sc.HardMinService}
	ocfg.SetDefaults()
	solver, err := optimizer.New(ocfg)
	if err != nil {
		t.Fatalf("solver: %v", err)
	}

	d := &simulation.Driver{
		Store:       store.NewMemory(records),
		Predictor:   strategy.NewStatic(),
		Solver:      solver,
		Log:         logs,
		Sink:        sink,
		Logger:      logger.NopLogger{},
		Calendar:    sc.Calendar,
		Overrides:   sc.Overrides,
		CostParams:  ocfg.Params(),
		MonthLength: sc.MonthLength,
	}

	rep, err := d.Run(context.Background())
	exp := sc.Expected
	if exp.ErrorKind == "" && err != nil {
		t.Fatalf("scenario %s: unexpected error: %v", sc.Name, err)
	}
	if exp.ErrorKind != "" {
		var runErr *simulation.RunError
		if !errors.As(err, &runErr) {
			t.Fatalf("scenario %s: expected %s failure, got %v", sc.Name, exp.ErrorKind, err)
		}
		if string(runErr.Kind) != exp.ErrorKind {
			t.Errorf("scenario %s: expected %s failure, got %s", sc.Name, exp.ErrorKind, runErr.Kind)
		}
	}
	if rep.LastCompletedDay != exp.CompletedDays {
		t.Errorf("scenario %s: expected %d completed days, got %d", sc.Name, exp.CompletedDays, rep.LastCompletedDay)
	}
	if exp.CompletedDays > 0 {
		if got := lastCompletedGauge(t, reg); got != float64(exp.CompletedDays) {
			t.Errorf("scenario %s: last completed day gauge %v", sc.Name, got)
		}
	}

	banned := make(map[string]bool, len(exp.NeverInService))
	for _, id := range exp.NeverInService {
		banned[id] = true
	}
	for _, day := range rep.Days {
		if exp.ServicePerDay > 0 && len(day.Service) != exp.ServicePerDay {
			t.Errorf("scenario %s day %d: expected %d in service, got %d", sc.Name, day.Day, exp.ServicePerDay, len(day.Service))
		}
		for _, id := range day.Service {
			if banned[id] {
				t.Errorf("scenario %s day %d: %s must not be in service", sc.Name, day.Day, id)
			}
		}
		for _, id := range exp.Maintenance[day.Day] {
			if !contains(day.Maintenance, id) {
				t.Errorf("scenario %s day %d: expected %s in maintenance, got %v", sc.Name, day.Day, id, day.Maintenance)
			}
		}
	}
}

func lastCompletedGauge(t *testing.T, reg *prometheus.Registry) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() == "rakeplan_last_completed_day" && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	return 0
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
