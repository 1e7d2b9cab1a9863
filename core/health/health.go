// Package health derives the daily health score and compliance flags of each
// vehicle from its persisted state and the operator overrides of the day.
package health

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/rakeplan/core/model"
)

// KMPerHealthPoint is the distance since bogie service that costs one point.
const KMPerHealthPoint = 200.0

var priorityPenalty = map[model.Priority]float64{
	model.PriorityLow:      10,
	model.PriorityMedium:   20,
	model.PriorityCritical: 50,
}

// Derived holds the day-local fields computed for one vehicle.
type Derived struct {
	HealthScore            float64
	IsCertExpired          bool
	ManualForceMaintenance bool
	KMSinceService         int
}

// Warning is a non-fatal data integrity finding.
type Warning struct {
	VehicleID string
	Message   string
}

func (w Warning) String() string { return fmt.Sprintf("%s: %s", w.VehicleID, w.Message) }

// Derive computes the derived fields for rec on today. It never mutates rec.
func Derive(rec model.VehicleRecord, today time.Time, ov *model.ManualOverride) Derived {
	d := Derived{
		IsCertExpired:  rec.CertExpiry.Before(today),
		KMSinceService: rec.KMSinceService(),
	}
	score := 100 - float64(d.KMSinceService)/KMPerHealthPoint - float64(rec.ConsecutiveServiceDays)
	if rec.JobCardStatus == model.JobCardOpen {
		score -= priorityPenalty[rec.JobCardPriority]
	}
	if ov != nil {
		if ov.HealthPenalty != nil {
			score -= *ov.HealthPenalty
		}
		d.ManualForceMaintenance = ov.ForceMaintenance
	}
	d.HealthScore = clamp(score)
	return d
}

// Apply returns a copy of records with the derived fields of today populated,
// plus any data integrity warnings found along the way.
func Apply(records []model.VehicleRecord, today time.Time, overrides map[string]model.ManualOverride) ([]model.VehicleRecord, []Warning) {
	out := model.Clone(records)
	var warns []Warning
	for i := range out {
		var ov *model.ManualOverride
		if o, ok := overrides[out[i].ID]; ok {
			ov = &o
		}
		d := Derive(out[i], today, ov)
		out[i].HealthScore = d.HealthScore
		out[i].IsCertExpired = d.IsCertExpired
		out[i].ManualForceMaintenance = d.ManualForceMaintenance
		if out[i].BrandingSLAActive && out[i].TargetHours <= 0 {
			warns = append(warns, Warning{VehicleID: out[i].ID, Message: "branding contract active without target hours, treated as satisfied"})
		}
	}
	for id := range overrides {
		if !contains(out, id) {
			warns = append(warns, Warning{VehicleID: id, Message: "override for unknown vehicle ignored"})
		}
	}
	return out, warns
}

// AverageHealth returns the mean health score of the fleet, 0 when empty.
func AverageHealth(records []model.VehicleRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	scores := make([]float64, len(records))
	for i, r := range records {
		scores[i] = r.HealthScore
	}
	return stat.Mean(scores, nil)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func contains(records []model.VehicleRecord, id string) bool {
	for _, r := range records {
		if r.ID == id {
			return true
		}
	}
	return false
}
