package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/rakeplan/core/model"
	"github.com/kilianp07/rakeplan/core/simulation"
	"github.com/kilianp07/rakeplan/core/transition"
)

// SimulationConfig describes the simulated month.
type SimulationConfig struct {
	// StartDate is the calendar date of day 1 (YYYY-MM-DD).
	StartDate   string `json:"start_date"`
	MonthLength int    `json:"month_length"`
	// StartDay resumes a month; 0 starts at day 1.
	StartDay int `json:"start_day"`
	// CalendarFile and OverridesFile replace the built-in calendars.
	CalendarFile  string            `json:"calendar_file"`
	OverridesFile string            `json:"overrides_file"`
	Transition    transition.Params `json:"transition"`
	// Modifiers overrides the quota table per scenario tag.
	Modifiers map[string]model.ScenarioModifier `json:"modifiers"`
}

// SetDefaults applies the reference month.
func (c *SimulationConfig) SetDefaults() {
	if c.StartDate == "" {
		c.StartDate = model.FormatDate(simulation.DefaultStartDate)
	}
	if c.MonthLength == 0 {
		c.MonthLength = 30
	}
	def := transition.DefaultParams()
	if c.Transition.DailyKM == 0 {
		c.Transition.DailyKM = def.DailyKM
	}
	if c.Transition.DailyHours == 0 {
		c.Transition.DailyHours = def.DailyHours
	}
	if c.Transition.CertificateValidityDays == 0 {
		c.Transition.CertificateValidityDays = def.CertificateValidityDays
	}
}

// Validate checks dates, bounds and modifier tags.
func (c SimulationConfig) Validate() error {
	if _, err := c.Date(); err != nil {
		return fmt.Errorf("start_date: %v", err)
	}
	if c.MonthLength <= 0 {
		return fmt.Errorf("month_length must be positive")
	}
	if c.StartDay < 0 || c.StartDay > c.MonthLength {
		return fmt.Errorf("start_day %d outside 1..%d", c.StartDay, c.MonthLength)
	}
	if err := c.Transition.Validate(); err != nil {
		return err
	}
	for tag, m := range c.Modifiers {
		if _, err := model.ParseScenarioTag(tag); err != nil {
			return fmt.Errorf("modifiers: %v", err)
		}
		if err := m.Validate(); err != nil {
			return fmt.Errorf("modifiers %s: %v", tag, err)
		}
	}
	return nil
}

// Date returns the parsed start date.
func (c SimulationConfig) Date() (time.Time, error) {
	return time.Parse(model.DateLayout, c.StartDate)
}

// ScenarioModifiers returns the default quota table with the configured
// entries replacing the defaults.
func (c SimulationConfig) ScenarioModifiers() map[model.ScenarioTag]model.ScenarioModifier {
	mods := model.DefaultModifiers()
	for tag, m := range c.Modifiers {
		mods[model.ScenarioTag(tag)] = m
	}
	return mods
}

// Calendar loads CalendarFile or returns the default calendar.
func (c SimulationConfig) Calendar() (simulation.ScenarioCalendar, error) {
	if c.CalendarFile == "" {
		return simulation.DefaultCalendar(c.MonthLength), nil
	}
	return simulation.LoadCalendar(c.CalendarFile)
}

// Overrides loads OverridesFile or returns the default overrides.
func (c SimulationConfig) Overrides() (simulation.OverrideCalendar, error) {
	if c.OverridesFile == "" {
		ov := simulation.DefaultOverrides()
		for d := range ov {
			if d > c.MonthLength {
				delete(ov, d)
			}
		}
		return ov, nil
	}
	return simulation.LoadOverrides(c.OverridesFile)
}
