package model

import "fmt"

// ScenarioTag names a daily operating regime.
type ScenarioTag string

const (
	ScenarioNormal        ScenarioTag = "NORMAL"
	ScenarioHeavyMonsoon  ScenarioTag = "HEAVY_MONSOON"
	ScenarioFestivalSurge ScenarioTag = "FESTIVAL_SURGE"
)

// IsAdverseWeather reports whether the regime exposes legacy brakes to the
// weather penalty.
func (t ScenarioTag) IsAdverseWeather() bool { return t == ScenarioHeavyMonsoon }

// IsSurgeDemand reports whether the regime is a demand surge.
func (t ScenarioTag) IsSurgeDemand() bool { return t == ScenarioFestivalSurge }

// ParseScenarioTag validates a tag against the closed set.
func ParseScenarioTag(s string) (ScenarioTag, error) {
	switch t := ScenarioTag(s); t {
	case ScenarioNormal, ScenarioHeavyMonsoon, ScenarioFestivalSurge:
		return t, nil
	default:
		return "", fmt.Errorf("unknown scenario %q", s)
	}
}

// ScenarioModifier holds the service and maintenance quotas of a regime.
type ScenarioModifier struct {
	MinService       int  `json:"min_service" yaml:"min_service"`
	MaxService       int  `json:"max_service" yaml:"max_service"`
	MaintenanceSlots int  `json:"maintenance_slots" yaml:"maintenance_slots"`
	WeatherPenalty   *int `json:"weather_penalty,omitempty" yaml:"weather_penalty,omitempty"`
}

// Validate rejects negative quotas and inverted service bounds.
func (m ScenarioModifier) Validate() error {
	if m.MinService < 0 || m.MaxService < 0 || m.MaintenanceSlots < 0 {
		return fmt.Errorf("scenario quotas must be non-negative")
	}
	if m.MinService > m.MaxService {
		return fmt.Errorf("min_service %d exceeds max_service %d", m.MinService, m.MaxService)
	}
	if m.WeatherPenalty != nil && *m.WeatherPenalty < 0 {
		return fmt.Errorf("weather_penalty must be non-negative")
	}
	return nil
}

// Weather returns the weather penalty or 0 when the regime defines none.
func (m ScenarioModifier) Weather() int {
	if m.WeatherPenalty == nil {
		return 0
	}
	return *m.WeatherPenalty
}

// DefaultModifiers returns the built-in quota table.
func DefaultModifiers() map[ScenarioTag]ScenarioModifier {
	monsoon := 15000
	return map[ScenarioTag]ScenarioModifier{
		ScenarioNormal:        {MinService: 6, MaxService: 6, MaintenanceSlots: 2},
		ScenarioHeavyMonsoon:  {MinService: 6, MaxService: 6, MaintenanceSlots: 2, WeatherPenalty: &monsoon},
		ScenarioFestivalSurge: {MinService: 7, MaxService: 8, MaintenanceSlots: 1},
	}
}

// ManualOverride is an operator exception for one vehicle on one day.
type ManualOverride struct {
	HealthPenalty    *float64 `json:"health_penalty,omitempty" yaml:"health_penalty,omitempty"`
	ForceMaintenance bool     `json:"force_maintenance,omitempty" yaml:"force_maintenance,omitempty"`
	Reason           string   `json:"reason,omitempty" yaml:"reason,omitempty"`
}
