// Package transition advances the fleet state by one day according to the
// solved duty plan.
package transition

import (
	"fmt"
	"time"

	"github.com/kilianp07/rakeplan/core/model"
)

// Params holds the per-day usage constants.
type Params struct {
	DailyKM                 int     `json:"daily_km_per_vehicle"`
	DailyHours              float64 `json:"daily_hours_per_vehicle"`
	CertificateValidityDays int     `json:"certificate_validity_days"`
}

// DefaultParams returns the reference usage constants.
func DefaultParams() Params {
	return Params{DailyKM: 200, DailyHours: 16, CertificateValidityDays: 365}
}

// Validate checks that every constant is positive.
func (p Params) Validate() error {
	if p.DailyKM <= 0 || p.DailyHours <= 0 || p.CertificateValidityDays <= 0 {
		return fmt.Errorf("transition constants must be positive")
	}
	return nil
}

// EventKind classifies a notable state change.
type EventKind string

const EventCertificateRenewed EventKind = "certificate_renewed"

// Event reports a notable change made while applying a plan.
type Event struct {
	Kind      EventKind
	VehicleID string
	Previous  time.Time
	Current   time.Time
}

// Apply returns the records after one day of operation under plan. The
// input slice is left untouched so a failed day leaves no partial state.
func Apply(records []model.VehicleRecord, plan map[string]model.Duty, today time.Time, p Params) ([]model.VehicleRecord, []Event, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	if len(plan) != len(records) {
		return nil, nil, fmt.Errorf("plan covers %d vehicles, fleet has %d", len(plan), len(records))
	}
	out := model.Clone(records)
	var events []Event
	for i := range out {
		v := &out[i]
		d, ok := plan[v.ID]
		if !ok {
			return nil, nil, fmt.Errorf("vehicle %s has no duty", v.ID)
		}
		switch d {
		case model.DutyService:
			v.ConsecutiveServiceDays++
			v.CurrentKM += p.DailyKM
			if v.BrandingSLAActive {
				v.CurrentHours += p.DailyHours
			}
			v.TotalServiceDays++
		case model.DutyMaintenance:
			v.ConsecutiveServiceDays = 0
			v.HealthScore = 100
			v.BogieLastServiceKM = v.CurrentKM
			if v.CertExpiry.Before(today) {
				prev := v.CertExpiry
				v.CertExpiry = today.AddDate(0, 0, p.CertificateValidityDays)
				v.IsCertExpired = false
				events = append(events, Event{Kind: EventCertificateRenewed, VehicleID: v.ID, Previous: prev, Current: v.CertExpiry})
			}
			v.TotalMaintenanceDays++
		case model.DutyStandby:
			v.ConsecutiveServiceDays = 0
		default:
			return nil, nil, fmt.Errorf("vehicle %s has invalid duty %d", v.ID, int(d))
		}
	}
	return out, events, nil
}
