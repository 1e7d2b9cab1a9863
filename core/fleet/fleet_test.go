package fleet

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rakeplan/core/model"
)

func TestRowRoundTrip(t *testing.T) {
	rec := model.VehicleRecord{
		ID: "Rake-01", HealthScore: 87.5, CurrentKM: 1400, CurrentHours: 48,
		JobCardStatus: model.JobCardOpen, JobCardPriority: model.PriorityLow,
		CertExpiry:        time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC),
		BrandingSLAActive: true, TargetHours: 300,
		LastCleanedDate:    time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC),
		StablingShuntMoves: 2, BrakeModel: model.LegacyBrakeModel, BogieLastServiceKM: 1000,
		ConsecutiveServiceDays: 3, TotalServiceDays: 7, TotalMaintenanceDays: 1,
	}
	row := make(map[string]string, len(Columns))
	for i, v := range EncodeRow(rec) {
		row[Columns[i]] = v
	}
	got, err := DecodeRow(row)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestDecodeRowDefaults(t *testing.T) {
	got, err := DecodeRow(map[string]string{
		"train_id":            "Rake-02",
		"cert_telecom_expiry": "2025-09-30 00:00:00",
		"branding_sla_active": "True",
		"current_km":          "200.0",
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.HealthScore)
	assert.Equal(t, 200, got.CurrentKM)
	assert.True(t, got.BrandingSLAActive)
	assert.Equal(t, model.JobCardClosed, got.JobCardStatus)
	assert.Equal(t, model.PriorityNone, got.JobCardPriority)
	assert.Equal(t, time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC), got.CertExpiry)
}

func TestDecodeRowErrors(t *testing.T) {
	_, err := DecodeRow(map[string]string{"cert_telecom_expiry": "2025-09-30"})
	assert.Error(t, err)
	_, err = DecodeRow(map[string]string{"train_id": "X"})
	assert.ErrorContains(t, err, "cert_telecom_expiry")
	_, err = DecodeRow(map[string]string{"train_id": "X", "cert_telecom_expiry": "soon"})
	assert.ErrorContains(t, err, "invalid date")
	_, err = DecodeRow(map[string]string{"train_id": "X", "cert_telecom_expiry": "2025-09-30", "current_km": "lots"})
	assert.ErrorContains(t, err, "current_km")
}

func TestWrapAndUnique(t *testing.T) {
	assert.NoError(t, Wrap("save", nil))
	err := Wrap("save", errors.New("disk full"))
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorContains(t, err, "disk full")

	assert.NoError(t, CheckUnique([]model.VehicleRecord{{ID: "a"}, {ID: "b"}}))
	assert.Error(t, CheckUnique([]model.VehicleRecord{{ID: "a"}, {ID: "a"}}))
	assert.Error(t, CheckUnique([]model.VehicleRecord{{}}))
}

func TestSorted(t *testing.T) {
	in := []model.VehicleRecord{{ID: "c"}, {ID: "a"}, {ID: "b"}}
	out := Sorted(in)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "c", in[0].ID)
}
