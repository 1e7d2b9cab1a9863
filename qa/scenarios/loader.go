package scenarios

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/rakeplan/core/model"
	"github.com/kilianp07/rakeplan/core/simulation"
)

type VehicleDef struct {
	ID          string  `yaml:"id"`
	KM          int     `yaml:"km"`
	Hours       float64 `yaml:"hours"`
	JobCard     string  `yaml:"job_card"`
	Priority    string  `yaml:"priority"`
	CertExpiry  string  `yaml:"cert_expiry"`
	Health      float64 `yaml:"health"`
	BrakeModel  string  `yaml:"brake_model"`
	Branding    bool    `yaml:"branding"`
	TargetHours float64 `yaml:"target_hours"`
}

// ToModel converts the definition, filling a healthy closed-card rake for
// omitted fields.
func (v VehicleDef) ToModel() (model.VehicleRecord, error) {
	rec := model.VehicleRecord{
		ID:                v.ID,
		CurrentKM:         v.KM,
		CurrentHours:      v.Hours,
		JobCardStatus:     model.JobCardStatus(v.JobCard),
		JobCardPriority:   model.Priority(v.Priority),
		HealthScore:       v.Health,
		BrakeModel:        v.BrakeModel,
		BrandingSLAActive: v.Branding,
		TargetHours:       v.TargetHours,
		CertExpiry:        defaultExpiry,
	}
	if rec.JobCardStatus == "" {
		rec.JobCardStatus = model.JobCardClosed
	}
	if rec.JobCardPriority == "" {
		rec.JobCardPriority = model.PriorityNone
	}
	if rec.HealthScore == 0 {
		rec.HealthScore = 100
	}
	if rec.BrakeModel == "" {
		rec.BrakeModel = "Disc_v2"
	}
	if v.CertExpiry != "" {
		t, err := model.ParseDate(v.CertExpiry)
		if err != nil {
			return rec, fmt.Errorf("vehicle %s: %w", v.ID, err)
		}
		rec.CertExpiry = t
	}
	return rec, rec.Validate()
}

var defaultExpiry = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

type Expected struct {
	CompletedDays  int              `yaml:"completed_days"`
	ErrorKind      string           `yaml:"error_kind,omitempty"`
	ServicePerDay  int              `yaml:"service_per_day,omitempty"`
	Maintenance    map[int][]string `yaml:"maintenance,omitempty"`
	NeverInService []string         `yaml:"never_in_service,omitempty"`
}

type Scenario struct {
	Name           string                      `yaml:"name"`
	Description    string                      `yaml:"description,omitempty"`
	MonthLength    int                         `yaml:"month_length"`
	HardMinService bool                        `yaml:"hard_min_service,omitempty"`
	Generate       int                         `yaml:"generate,omitempty"`
	Vehicles       []VehicleDef                `yaml:"vehicles,omitempty"`
	Calendar       simulation.ScenarioCalendar `yaml:"calendar,omitempty"`
	Overrides      simulation.OverrideCalendar `yaml:"overrides,omitempty"`
	Expected       Expected                    `yaml:"expected"`
}

// Fleet returns the explicit vehicles followed by Generate healthy rakes.
func (s *Scenario) Fleet() ([]model.VehicleRecord, error) {
	out := make([]model.VehicleRecord, 0, len(s.Vehicles)+s.Generate)
	for _, v := range s.Vehicles {
		rec, err := v.ToModel()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	for i := 0; i < s.Generate; i++ {
		rec, err := VehicleDef{ID: fmt.Sprintf("Gen-%02d", i+1)}.ToModel()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.MonthLength <= 0 {
		return nil, fmt.Errorf("scenario %s: month_length must be positive", sc.Name)
	}
	return &sc, nil
}
