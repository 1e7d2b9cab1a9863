// Package export writes the daily duty plans of a run for downstream
// rostering tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/rakeplan/core/model"
	"github.com/kilianp07/rakeplan/core/simulation"
)

// PlanEntry is one vehicle duty on one day.
type PlanEntry struct {
	Day       int    `json:"day"`
	Date      string `json:"date"`
	Scenario  string `json:"scenario"`
	VehicleID string `json:"vehicle_id"`
	Duty      string `json:"duty"`
}

// Entries flattens the days of a run, ordered by day then duty then id.
func Entries(days []simulation.DayResult) []PlanEntry {
	var out []PlanEntry
	for _, d := range days {
		groups := [...][]string{d.Service, d.Maintenance, d.Standby}
		for i, ids := range groups {
			for _, id := range ids {
				out = append(out, PlanEntry{
					Day:       d.Day,
					Date:      model.FormatDate(d.Date),
					Scenario:  string(d.Scenario),
					VehicleID: id,
					Duty:      model.Duties[i].String(),
				})
			}
		}
	}
	return out
}

// WriteJSON writes the plan entries to w in JSON format.
func WriteJSON(w io.Writer, entries []PlanEntry) error {
	enc := json.NewEncoder(w)
	return enc.Encode(entries)
}

// WriteCSV writes the plan entries to w in CSV format.
func WriteCSV(w io.Writer, entries []PlanEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"simulation_day", "date", "scenario", "train_id", "status"}); err != nil {
		return err
	}
	for _, e := range entries {
		rec := []string{strconv.Itoa(e.Day), e.Date, e.Scenario, e.VehicleID, e.Duty}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
