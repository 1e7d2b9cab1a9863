package rosterlog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/kilianp07/rakeplan/core/model"
)

// csvColumns follows the monthly_simulation_log.csv layout.
var csvColumns = []string{
	"simulation_day", "date", "scenario", "train_id", "status", "health_score",
	"current_km", "current_hours", "consecutive_service_days",
	"total_service_days_month", "total_maintenance_days_month",
	"branding_sla_active", "target_hours",
}

// CSVStore appends the log to a CSV file, writing the header on creation.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

func NewCSVStore(path string) (*CSVStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if st.Size() == 0 {
		w := csv.NewWriter(f)
		if err := w.Write(csvColumns); err != nil {
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
	}
	return &CSVStore{path: path}, nil
}

func (s *CSVStore) Append(ctx context.Context, recs []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	for _, r := range recs {
		if err := w.Write(encodeCSV(r)); err != nil {
			_ = f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func encodeCSV(r Record) []string {
	return []string{
		strconv.Itoa(r.Day), r.Date, string(r.Scenario), r.VehicleID, r.Duty.String(),
		strconv.FormatFloat(r.HealthScore, 'f', -1, 64),
		strconv.Itoa(r.CurrentKM),
		strconv.FormatFloat(r.CurrentHours, 'f', -1, 64),
		strconv.Itoa(r.ConsecutiveServiceDays),
		strconv.Itoa(r.TotalServiceDays),
		strconv.Itoa(r.TotalMaintenanceDays),
		strconv.FormatBool(r.BrandingSLAActive),
		strconv.FormatFloat(r.TargetHours, 'f', -1, 64),
	}
}

func decodeCSV(row []string) (Record, error) {
	if len(row) != len(csvColumns) {
		return Record{}, fmt.Errorf("expected %d columns, got %d", len(csvColumns), len(row))
	}
	var (
		r    Record
		errs []error
	)
	atoi := func(s string) int {
		v, err := strconv.Atoi(s)
		errs = append(errs, err)
		return v
	}
	atof := func(s string) float64 {
		v, err := strconv.ParseFloat(s, 64)
		errs = append(errs, err)
		return v
	}
	r.Day = atoi(row[0])
	r.Date = row[1]
	r.Scenario = model.ScenarioTag(row[2])
	r.VehicleID = row[3]
	d, err := model.ParseDuty(row[4])
	errs = append(errs, err)
	r.Duty = d
	r.HealthScore = atof(row[5])
	r.CurrentKM = atoi(row[6])
	r.CurrentHours = atof(row[7])
	r.ConsecutiveServiceDays = atoi(row[8])
	r.TotalServiceDays = atoi(row[9])
	r.TotalMaintenanceDays = atoi(row[10])
	b, err := strconv.ParseBool(row[11])
	errs = append(errs, err)
	r.BrandingSLAActive = b
	r.TargetHours = atof(row[12])
	for _, e := range errs {
		if e != nil {
			return Record{}, e
		}
	}
	return r, nil
}

func (s *CSVStore) Query(ctx context.Context, q Query) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	cr := csv.NewReader(f)
	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	var res []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		r, err := decodeCSV(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if q.Match(r) {
			res = append(res, r)
		}
	}
	return res, nil
}

func (s *CSVStore) Close() error { return nil }
