package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rakeplan/core/model"
)

var today = time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)

func fresh(id string) model.VehicleRecord {
	return model.VehicleRecord{
		ID: id, JobCardStatus: model.JobCardClosed, JobCardPriority: model.PriorityNone,
		CertExpiry: today.AddDate(0, 3, 0), HealthScore: 100,
	}
}

func ptr(f float64) *float64 { return &f }

func TestDeriveScore(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*model.VehicleRecord)
		ov   *model.ManualOverride
		want float64
	}{
		{"fresh", func(*model.VehicleRecord) {}, nil, 100},
		{"mileage", func(v *model.VehicleRecord) { v.CurrentKM = 1000; v.BogieLastServiceKM = 200 }, nil, 96},
		{"fatigue", func(v *model.VehicleRecord) { v.ConsecutiveServiceDays = 3 }, nil, 97},
		{"open low", func(v *model.VehicleRecord) { v.JobCardStatus = model.JobCardOpen; v.JobCardPriority = model.PriorityLow }, nil, 90},
		{"open medium", func(v *model.VehicleRecord) { v.JobCardStatus = model.JobCardOpen; v.JobCardPriority = model.PriorityMedium }, nil, 80},
		{"open critical", func(v *model.VehicleRecord) { v.JobCardStatus = model.JobCardOpen; v.JobCardPriority = model.PriorityCritical }, nil, 50},
		{"closed critical", func(v *model.VehicleRecord) { v.JobCardPriority = model.PriorityCritical }, nil, 100},
		{"override penalty", func(*model.VehicleRecord) {}, &model.ManualOverride{HealthPenalty: ptr(40)}, 60},
		{"floor", func(v *model.VehicleRecord) { v.CurrentKM = 30000 }, &model.ManualOverride{HealthPenalty: ptr(10)}, 0},
		{"ceiling", func(*model.VehicleRecord) {}, &model.ManualOverride{HealthPenalty: ptr(-25)}, 100},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v := fresh("r")
			c.mut(&v)
			d := Derive(v, today, c.ov)
			assert.InDelta(t, c.want, d.HealthScore, 1e-9)
		})
	}
}

func TestDeriveCompliance(t *testing.T) {
	v := fresh("r")
	v.CertExpiry = today
	assert.False(t, Derive(v, today, nil).IsCertExpired, "expiry on the day itself is still valid")
	v.CertExpiry = today.AddDate(0, 0, -1)
	assert.True(t, Derive(v, today, nil).IsCertExpired)

	d := Derive(fresh("r"), today, &model.ManualOverride{ForceMaintenance: true, Reason: "Driver report"})
	assert.True(t, d.ManualForceMaintenance)
	assert.Equal(t, 100.0, d.HealthScore)
}

func TestApplyDoesNotMutate(t *testing.T) {
	in := []model.VehicleRecord{fresh("a"), fresh("b")}
	in[1].CurrentKM = 2000
	out, warns := Apply(in, today, map[string]model.ManualOverride{"a": {ForceMaintenance: true}})
	require.Len(t, out, 2)
	assert.Empty(t, warns)
	assert.True(t, out[0].ManualForceMaintenance)
	assert.False(t, in[0].ManualForceMaintenance)
	assert.Equal(t, 90.0, out[1].HealthScore)
	assert.Equal(t, 100.0, in[1].HealthScore)
}

func TestApplyWarnings(t *testing.T) {
	v := fresh("a")
	v.BrandingSLAActive = true
	_, warns := Apply([]model.VehicleRecord{v}, today, map[string]model.ManualOverride{"ghost": {ForceMaintenance: true}})
	require.Len(t, warns, 2)
}

func TestAverageHealth(t *testing.T) {
	assert.Zero(t, AverageHealth(nil))
	recs := []model.VehicleRecord{{HealthScore: 100}, {HealthScore: 50}}
	assert.InDelta(t, 75, AverageHealth(recs), 1e-9)
}
