package model

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used by fleet records and logs.
const DateLayout = "2006-01-02"

// JobCardStatus reports whether a maintenance work order is pending.
type JobCardStatus string

const (
	JobCardOpen   JobCardStatus = "OPEN"
	JobCardClosed JobCardStatus = "CLOSED"
)

// Priority is the severity of an open job card.
type Priority string

const (
	PriorityNone     Priority = "NONE"
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityCritical Priority = "CRITICAL"
)

// LegacyBrakeModel is the brake model exposed to the adverse-weather penalty.
const LegacyBrakeModel = "HydroMech_v1"

// VehicleRecord is the persisted state of one fleet unit (a rake).
type VehicleRecord struct {
	ID                 string
	CurrentKM          int
	CurrentHours       float64
	JobCardStatus      JobCardStatus
	JobCardPriority    Priority
	BogieLastServiceKM int
	CertExpiry         time.Time // telecom certificate; non-compliant once passed
	BrandingSLAActive  bool
	TargetHours        float64 // only meaningful when BrandingSLAActive
	LastCleanedDate    time.Time
	StablingShuntMoves int
	BrakeModel         string

	ConsecutiveServiceDays int
	TotalServiceDays       int
	TotalMaintenanceDays   int

	// HealthScore is recomputed every day but kept in the persisted schema.
	HealthScore float64

	// Day-local flags, never persisted.
	IsCertExpired          bool
	ManualForceMaintenance bool
}

// Validate checks the persisted invariants of the record.
func (v VehicleRecord) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("vehicle id is required")
	}
	if v.CurrentKM < 0 || v.CurrentHours < 0 {
		return fmt.Errorf("vehicle %s: negative usage", v.ID)
	}
	if v.BogieLastServiceKM > v.CurrentKM {
		return fmt.Errorf("vehicle %s: bogie service km %d beyond current km %d", v.ID, v.BogieLastServiceKM, v.CurrentKM)
	}
	if v.HealthScore < 0 || v.HealthScore > 100 {
		return fmt.Errorf("vehicle %s: health %.2f out of range", v.ID, v.HealthScore)
	}
	switch v.JobCardStatus {
	case JobCardOpen, JobCardClosed:
	default:
		return fmt.Errorf("vehicle %s: unknown job card status %q", v.ID, v.JobCardStatus)
	}
	switch v.JobCardPriority {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityCritical:
	default:
		return fmt.Errorf("vehicle %s: unknown job card priority %q", v.ID, v.JobCardPriority)
	}
	return nil
}

// KMSinceService returns the distance covered since the last bogie service.
func (v VehicleRecord) KMSinceService() int {
	return v.CurrentKM - v.BogieLastServiceKM
}

// HoursNeeded returns the branding hours still owed this month, or 0 when
// there is no active contract or it is already satisfied.
func (v VehicleRecord) HoursNeeded() float64 {
	if !v.BrandingSLAActive {
		return 0
	}
	h := v.TargetHours - v.CurrentHours
	if h < 0 {
		return 0
	}
	return h
}

// InitializeMonth resets the monthly state of the base fleet data. Certificate,
// branding, shunting and brake data are carried over untouched.
func InitializeMonth(base []VehicleRecord) []VehicleRecord {
	out := make([]VehicleRecord, len(base))
	for i, v := range base {
		v.HealthScore = 100
		v.CurrentKM = 0
		v.CurrentHours = 0
		v.JobCardStatus = JobCardClosed
		v.JobCardPriority = PriorityNone
		v.BogieLastServiceKM = 0
		v.ConsecutiveServiceDays = 0
		v.TotalServiceDays = 0
		v.TotalMaintenanceDays = 0
		v.IsCertExpired = false
		v.ManualForceMaintenance = false
		out[i] = v
	}
	return out
}

// Clone returns a copy of the record set.
func Clone(records []VehicleRecord) []VehicleRecord {
	out := make([]VehicleRecord, len(records))
	copy(out, records)
	return out
}

// ParseDate parses a calendar date in DateLayout, returning the zero time for
// an empty string.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, s)
}

// FormatDate renders a date in DateLayout; the zero time renders empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
