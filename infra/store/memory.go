package store

import (
	"context"
	"sync"

	"github.com/kilianp07/rakeplan/core/fleet"
	"github.com/kilianp07/rakeplan/core/model"
)

// Memory keeps the record set in process. Saves counts successful saves.
type Memory struct {
	mu      sync.Mutex
	records []model.VehicleRecord
	saves   int

	// SaveErr, when set, makes every Save fail.
	SaveErr error
}

// NewMemory returns a store seeded with records.
func NewMemory(records []model.VehicleRecord) *Memory {
	return &Memory{records: fleet.Sorted(records)}
}

func (m *Memory) Load(ctx context.Context) ([]model.VehicleRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fleet.Wrap("load", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.Clone(m.records), nil
}

func (m *Memory) Save(ctx context.Context, records []model.VehicleRecord) error {
	if err := ctx.Err(); err != nil {
		return fleet.Wrap("save", err)
	}
	if m.SaveErr != nil {
		return fleet.Wrap("save", m.SaveErr)
	}
	if err := fleet.CheckUnique(records); err != nil {
		return fleet.Wrap("save", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = fleet.Sorted(records)
	m.saves++
	return nil
}

// Saves returns the number of successful saves.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
