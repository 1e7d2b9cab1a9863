package rosterlog

import (
	"context"
	"fmt"
	"sort"
)

// Summary condenses a completed or partial run.
type Summary struct {
	LastDay int
	// Final holds the fleet on LastDay ordered by vehicle id.
	Final []Record
	// Duties counts the duty assignments per vehicle over the whole log.
	Duties map[string]map[string]int
}

// FinalStatus returns the fleet as logged on the last recorded day.
func FinalStatus(ctx context.Context, s Store) (Summary, error) {
	all, err := s.Query(ctx, Query{})
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %v", ErrLog, err)
	}
	sum := Summary{Duties: make(map[string]map[string]int)}
	for _, r := range all {
		if r.Day > sum.LastDay {
			sum.LastDay = r.Day
		}
		if sum.Duties[r.VehicleID] == nil {
			sum.Duties[r.VehicleID] = make(map[string]int)
		}
		sum.Duties[r.VehicleID][r.Duty.String()]++
	}
	for _, r := range all {
		if r.Day == sum.LastDay {
			sum.Final = append(sum.Final, r)
		}
	}
	sort.Slice(sum.Final, func(i, j int) bool { return sum.Final[i].VehicleID < sum.Final[j].VehicleID })
	return sum, nil
}

// Journey returns the day by day log of one vehicle.
func Journey(ctx context.Context, s Store, vehicleID string) ([]Record, error) {
	recs, err := s.Query(ctx, Query{VehicleID: vehicleID})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLog, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("vehicle %s not found in the log", vehicleID)
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Day < recs[j].Day })
	return recs, nil
}
