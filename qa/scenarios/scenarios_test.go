package scenarios

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kilianp07/rakeplan/core/model"
)

func TestScenario(t *testing.T) {
	files, err := filepath.Glob("*.yaml")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no scenario files found")
	}
	for _, f := range files {
		sc, err := Load(f)
		if err != nil {
			t.Fatalf("load %s: %v", f, err)
		}
		t.Run(sc.Name, func(t *testing.T) {
			RunScenario(t, sc)
		})
	}
}

func TestVehicleDefDefaults(t *testing.T) {
	rec, err := VehicleDef{ID: "Rake-01"}.ToModel()
	if err != nil {
		t.Fatalf("to model: %v", err)
	}
	if rec.JobCardStatus != model.JobCardClosed || rec.JobCardPriority != model.PriorityNone {
		t.Fatalf("unexpected job card %s/%s", rec.JobCardStatus, rec.JobCardPriority)
	}
	if rec.HealthScore != 100 || rec.BrakeModel != "Disc_v2" {
		t.Fatalf("unexpected defaults %+v", rec)
	}
	if _, err := (VehicleDef{ID: "Rake-02", CertExpiry: "15/08/2025"}).ToModel(); err == nil {
		t.Fatal("expected date parse error")
	}
}

func TestFleetGenerate(t *testing.T) {
	sc := &Scenario{Generate: 3, Vehicles: []VehicleDef{{ID: "Rake-X"}}}
	recs, err := sc.Fleet()
	if err != nil {
		t.Fatalf("fleet: %v", err)
	}
	if len(recs) != 4 || recs[0].ID != "Rake-X" || recs[3].ID != "Gen-03" {
		t.Fatalf("unexpected fleet %v", recs)
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := Load("no-file.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte(":"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Fatal("expected unmarshal error")
	}
	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("name: empty\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(empty); err == nil {
		t.Fatal("expected month_length error")
	}
}
