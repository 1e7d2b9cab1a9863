// Package rosterlog is the append-only daily log: one row per vehicle per
// simulated day, consumed by reporting and the query API.
package rosterlog

import (
	"context"
	"errors"
	"time"

	"github.com/kilianp07/rakeplan/core/model"
)

// ErrLog wraps every failure to write or read the daily log.
var ErrLog = errors.New("roster log failed")

// Record captures the end-of-day state of one vehicle.
type Record struct {
	Day                    int               `json:"day"`
	Date                   string            `json:"date"`
	Scenario               model.ScenarioTag `json:"scenario"`
	VehicleID              string            `json:"vehicle_id"`
	Duty                   model.Duty        `json:"duty"`
	HealthScore            float64           `json:"health_score"`
	CurrentKM              int               `json:"current_km"`
	CurrentHours           float64           `json:"current_hours"`
	ConsecutiveServiceDays int               `json:"consecutive_service_days"`
	TotalServiceDays       int               `json:"total_service_days"`
	TotalMaintenanceDays   int               `json:"total_maintenance_days"`
	BrandingSLAActive      bool              `json:"branding_sla_active"`
	TargetHours            float64           `json:"target_hours"`
}

// NewRecord builds the log row of rec after day under duty d.
func NewRecord(day int, date time.Time, tag model.ScenarioTag, d model.Duty, rec model.VehicleRecord) Record {
	return Record{
		Day:                    day,
		Date:                   model.FormatDate(date),
		Scenario:               tag,
		VehicleID:              rec.ID,
		Duty:                   d,
		HealthScore:            rec.HealthScore,
		CurrentKM:              rec.CurrentKM,
		CurrentHours:           rec.CurrentHours,
		ConsecutiveServiceDays: rec.ConsecutiveServiceDays,
		TotalServiceDays:       rec.TotalServiceDays,
		TotalMaintenanceDays:   rec.TotalMaintenanceDays,
		BrandingSLAActive:      rec.BrandingSLAActive,
		TargetHours:            rec.TargetHours,
	}
}

// Query defines filters for retrieving records. Zero values match all.
type Query struct {
	Day       int
	FromDay   int
	ToDay     int
	VehicleID string
	Duty      *model.Duty
}

// Match reports whether r satisfies q.
func (q Query) Match(r Record) bool {
	if q.Day != 0 && r.Day != q.Day {
		return false
	}
	if q.FromDay != 0 && r.Day < q.FromDay {
		return false
	}
	if q.ToDay != 0 && r.Day > q.ToDay {
		return false
	}
	if q.VehicleID != "" && r.VehicleID != q.VehicleID {
		return false
	}
	if q.Duty != nil && r.Duty != *q.Duty {
		return false
	}
	return true
}

// Store persists Records and supports querying. Append writes a whole day.
type Store interface {
	Append(ctx context.Context, recs []Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
