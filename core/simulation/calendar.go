package simulation

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/rakeplan/core/model"
)

// ScenarioCalendar maps a day index to its scenario tag. Days without an
// entry run under NORMAL.
type ScenarioCalendar map[int]model.ScenarioTag

// DefaultCalendar returns the reference month: a festival surge on days 7,
// 8 and 22 and heavy monsoon on days 13 and 14. Entries beyond monthLength
// are dropped.
func DefaultCalendar(monthLength int) ScenarioCalendar {
	ref := ScenarioCalendar{
		7:  model.ScenarioFestivalSurge,
		8:  model.ScenarioFestivalSurge,
		13: model.ScenarioHeavyMonsoon,
		14: model.ScenarioHeavyMonsoon,
		22: model.ScenarioFestivalSurge,
	}
	for d := range ref {
		if d > monthLength {
			delete(ref, d)
		}
	}
	return ref
}

// Tag returns the scenario of day.
func (c ScenarioCalendar) Tag(day int) model.ScenarioTag {
	if t, ok := c[day]; ok {
		return t
	}
	return model.ScenarioNormal
}

// Validate checks day bounds and that every tag has a modifier.
func (c ScenarioCalendar) Validate(monthLength int, mods map[model.ScenarioTag]model.ScenarioModifier) error {
	if _, ok := mods[model.ScenarioNormal]; !ok {
		return fmt.Errorf("no modifier for default scenario %s", model.ScenarioNormal)
	}
	for _, d := range sortedDays(c) {
		if d < 1 || d > monthLength {
			return fmt.Errorf("calendar day %d outside 1..%d", d, monthLength)
		}
		if _, err := model.ParseScenarioTag(string(c[d])); err != nil {
			return fmt.Errorf("calendar day %d: %w", d, err)
		}
		if _, ok := mods[c[d]]; !ok {
			return fmt.Errorf("calendar day %d: no modifier for %s", d, c[d])
		}
	}
	return nil
}

// OverrideCalendar maps a day index to the operator overrides of that day,
// keyed by vehicle id.
type OverrideCalendar map[int]map[string]model.ManualOverride

// DefaultOverrides returns the reference overrides: a 40 point penalty on
// Rake-12 on day 5 and forced maintenance of Rake-19 on day 15.
func DefaultOverrides() OverrideCalendar {
	penalty := 40.0
	return OverrideCalendar{
		5:  {"Rake-12": {HealthPenalty: &penalty, Reason: "Visual inspection"}},
		15: {"Rake-19": {ForceMaintenance: true, Reason: "Driver report"}},
	}
}

// For returns the overrides of day, nil when there are none.
func (o OverrideCalendar) For(day int) map[string]model.ManualOverride {
	return o[day]
}

// Validate checks day bounds and penalty signs.
func (o OverrideCalendar) Validate(monthLength int) error {
	for _, d := range sortedDays(o) {
		if d < 1 || d > monthLength {
			return fmt.Errorf("override day %d outside 1..%d", d, monthLength)
		}
		for id, ov := range o[d] {
			if id == "" {
				return fmt.Errorf("override day %d: empty vehicle id", d)
			}
			if ov.HealthPenalty != nil && *ov.HealthPenalty < 0 {
				return fmt.Errorf("override day %d vehicle %s: negative health penalty", d, id)
			}
		}
	}
	return nil
}

// LoadCalendar reads a YAML mapping of day to scenario tag.
func LoadCalendar(path string) (ScenarioCalendar, error) {
	var raw map[int]string
	if err := readYAML(path, &raw); err != nil {
		return nil, err
	}
	cal := make(ScenarioCalendar, len(raw))
	for d, s := range raw {
		tag, err := model.ParseScenarioTag(s)
		if err != nil {
			return nil, fmt.Errorf("%w: calendar day %d: %v", ErrConfiguration, d, err)
		}
		cal[d] = tag
	}
	return cal, nil
}

// LoadOverrides reads a YAML mapping of day to vehicle overrides.
func LoadOverrides(path string) (OverrideCalendar, error) {
	var cal OverrideCalendar
	if err := readYAML(path, &cal); err != nil {
		return nil, err
	}
	return cal, nil
}

func readYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConfiguration, path, err)
	}
	return nil
}

func sortedDays[V any](m map[int]V) []int {
	days := make([]int, 0, len(m))
	for d := range m {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}
