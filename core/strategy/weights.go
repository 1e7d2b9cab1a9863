package strategy

import (
	"context"
	"fmt"
	"math"
)

// Conditions summarises the fleet on the morning of a simulated day.
type Conditions struct {
	FleetSize          int     `json:"fleet_size"`
	TargetServiceCount int     `json:"target_service_count"`
	AverageFleetHealth float64 `json:"average_fleet_health"`
	IsAdverseWeather   bool    `json:"is_adverse_weather"`
	IsSurgeDemand      bool    `json:"is_surge_demand"`
}

// Weights are the cost-tuning parameters for one day.
type Weights struct {
	CostPerKM       float64 `json:"cost_per_km" yaml:"cost_per_km"`
	FatigueFactor   float64 `json:"fatigue_factor" yaml:"fatigue_factor"`
	BrandingPenalty float64 `json:"branding_penalty" yaml:"branding_penalty"`
	TargetMileage   float64 `json:"target_mileage" yaml:"target_mileage"`
	MaintThreshold  float64 `json:"maint_threshold" yaml:"maint_threshold"`
}

// DefaultWeights are used when no predictor output is available.
func DefaultWeights() Weights {
	return Weights{CostPerKM: 5, FatigueFactor: 500, BrandingPenalty: 50000, TargetMileage: 1400, MaintThreshold: 50}
}

// Validate rejects non-finite or negative weights.
func (w Weights) Validate() error {
	vals := map[string]float64{
		"cost_per_km":      w.CostPerKM,
		"fatigue_factor":   w.FatigueFactor,
		"branding_penalty": w.BrandingPenalty,
		"target_mileage":   w.TargetMileage,
		"maint_threshold":  w.MaintThreshold,
	}
	for k, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("weight %s invalid: %v", k, v)
		}
	}
	return nil
}

// Predictor returns the weights to use given today's conditions.
type Predictor interface {
	Predict(ctx context.Context, c Conditions) (Weights, error)
}

// Static always returns the same weights.
type Static struct {
	Weights Weights
}

// NewStatic returns a Static predictor using DefaultWeights.
func NewStatic() Static { return Static{Weights: DefaultWeights()} }

// Predict implements Predictor.
func (s Static) Predict(_ context.Context, _ Conditions) (Weights, error) {
	return s.Weights, nil
}
