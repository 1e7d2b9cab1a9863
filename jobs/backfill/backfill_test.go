package backfill

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rakeplan/core/metrics"
	"github.com/kilianp07/rakeplan/core/model"
	"github.com/kilianp07/rakeplan/core/rosterlog"
)

type captureSink struct {
	days   []metrics.DaySummary
	states int
	fail   bool
}

func (c *captureSink) RecordDay(s metrics.DaySummary) error {
	if c.fail {
		return errors.New("sink down")
	}
	c.days = append(c.days, s)
	return nil
}

func (c *captureSink) RecordVehicleStates(s []metrics.VehicleState) error {
	c.states += len(s)
	return nil
}

func seed(t *testing.T) rosterlog.Store {
	t.Helper()
	s, err := rosterlog.NewJSONLStore(filepath.Join(t.TempDir(), "log.jsonl"))
	require.NoError(t, err)
	date := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	var recs []rosterlog.Record
	for day := 2; day >= 1; day-- {
		d := date.AddDate(0, 0, day-1)
		recs = append(recs,
			rosterlog.NewRecord(day, d, model.ScenarioNormal, model.DutyService, model.VehicleRecord{ID: "Rake-01", HealthScore: 90}),
			rosterlog.NewRecord(day, d, model.ScenarioNormal, model.DutyMaintenance, model.VehicleRecord{ID: "Rake-02", HealthScore: 70}),
			rosterlog.NewRecord(day, d, model.ScenarioNormal, model.DutyStandby, model.VehicleRecord{ID: "Rake-03", HealthScore: 80}),
		)
	}
	require.NoError(t, s.Append(context.Background(), recs))
	return s
}

func TestBackfill(t *testing.T) {
	store := seed(t)
	sink := &captureSink{}
	n, err := Backfill(context.Background(), store, sink)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, sink.days, 2)
	assert.Equal(t, 1, sink.days[0].Day)
	assert.Equal(t, 1, sink.days[0].Service)
	assert.Equal(t, 1, sink.days[0].Maintenance)
	assert.Equal(t, 1, sink.days[0].Standby)
	assert.InDelta(t, 80.0, sink.days[0].AverageHealth, 1e-9)
	assert.Equal(t, time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC), sink.days[1].Date)
	assert.Equal(t, 6, sink.states)
}

func TestBackfillSinkError(t *testing.T) {
	store := seed(t)
	n, err := Backfill(context.Background(), store, &captureSink{fail: true})
	assert.Error(t, err)
	assert.Equal(t, 2, n)
}

func TestBackfillCancelled(t *testing.T) {
	store := seed(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Backfill(ctx, store, metrics.NopSink{})
	assert.ErrorIs(t, err, context.Canceled)
}
