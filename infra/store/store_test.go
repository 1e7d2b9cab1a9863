package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rakeplan/core/fleet"
	"github.com/kilianp07/rakeplan/core/model"
)

func sample() []model.VehicleRecord {
	return []model.VehicleRecord{
		{
			ID: "Rake-02", HealthScore: 72.5, CurrentKM: 3400, CurrentHours: 0,
			JobCardStatus: model.JobCardOpen, JobCardPriority: model.PriorityMedium,
			CertExpiry:      time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC),
			LastCleanedDate: time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC),
			StablingShuntMoves: 1, BrakeModel: model.LegacyBrakeModel, BogieLastServiceKM: 2000,
			ConsecutiveServiceDays: 2, TotalServiceDays: 9, TotalMaintenanceDays: 1,
		},
		{
			ID: "Rake-01", HealthScore: 100, CurrentKM: 200, CurrentHours: 16,
			JobCardStatus: model.JobCardClosed, JobCardPriority: model.PriorityNone,
			CertExpiry:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			BrandingSLAActive: true, TargetHours: 320, BrakeModel: "Disc_v2",
		},
	}
}

// roundTrip saves the sample and expects the same records back, sorted by id.
func roundTrip(t *testing.T, s fleet.Store) {
	t.Helper()
	ctx := context.Background()
	in := sample()
	require.NoError(t, s.Save(ctx, in))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, fleet.Sorted(in), got)

	in[0].CurrentKM += 200
	require.NoError(t, s.Save(ctx, in))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3600, got[1].CurrentKM)
}

func TestMemoryStore(t *testing.T) {
	m := NewMemory(nil)
	roundTrip(t, m)
	assert.Equal(t, 2, m.Saves())

	m.SaveErr = errors.New("boom")
	assert.ErrorIs(t, m.Save(context.Background(), sample()), fleet.ErrPersistence)
	assert.Equal(t, 2, m.Saves())
}

func TestCSVStore(t *testing.T) {
	s, err := NewCSVStore(filepath.Join(t.TempDir(), "fleet_status.csv"))
	require.NoError(t, err)
	roundTrip(t, s)
}

func TestCSVStoreReadsReferenceLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet_data.csv")
	data := "train_id,cert_telecom_expiry,branding_sla_active,target_hours,last_cleaned_date,stabling_shunt_moves,brake_model,bogie_last_service_km\n" +
		"Rake-01,2025-09-20,True,300.0,2025-08-29,2,HydroMech_v1,0\n" +
		"Rake-02,2025-08-15,False,,2025-08-30,0,Disc_v2,0\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	s, err := NewCSVStore(path)
	require.NoError(t, err)
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].BrandingSLAActive)
	assert.Equal(t, 300.0, got[0].TargetHours)
	assert.Equal(t, 100.0, got[1].HealthScore)
	assert.Equal(t, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), got[1].CertExpiry)
}

func TestCSVStoreLoadsMalformedRowsForValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet_data.csv")
	data := "train_id,current_km,job_card_status,job_card_priority,cert_telecom_expiry,bogie_last_service_km\n" +
		"Rake-01,1200,OPEN,Critical,2026-01-01,0\n" +
		"Rake-02,0,CLOSED,NONE,2026-01-01,5000\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	s, err := NewCSVStore(path)
	require.NoError(t, err)
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.ErrorContains(t, got[0].Validate(), "priority")
	assert.ErrorContains(t, got[1].Validate(), "bogie")
}

func TestCSVStoreErrors(t *testing.T) {
	_, err := NewCSVStore("")
	assert.Error(t, err)

	s, err := NewCSVStore(filepath.Join(t.TempDir(), "missing.csv"))
	require.NoError(t, err)
	_, err = s.Load(context.Background())
	assert.ErrorIs(t, err, fleet.ErrPersistence)

	err = s.Save(context.Background(), []model.VehicleRecord{{ID: "a"}, {ID: "a"}})
	assert.ErrorIs(t, err, fleet.ErrPersistence)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "fleet.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	roundTrip(t, s)
}

func TestSQLiteStoreOpenFailure(t *testing.T) {
	_, err := NewSQLiteStore(filepath.Join(t.TempDir(), "missing", "dir", "fleet.db"))
	assert.ErrorIs(t, err, fleet.ErrPersistence)
}

func TestSQLiteSaveIsAtomic(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "fleet.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, sample()))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, s.Save(cancelled, []model.VehicleRecord{{ID: "Rake-09"}}))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestConfig(t *testing.T) {
	var c Config
	c.SetDefaults()
	assert.Equal(t, "csv", c.Backend)
	assert.Equal(t, "fleet_status.csv", c.Path)
	assert.NoError(t, c.Validate())

	assert.Error(t, Config{Backend: "postgres"}.Validate())
	assert.Error(t, Config{Backend: "mongo"}.Validate())

	s, err := Open(context.Background(), Config{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)
}
