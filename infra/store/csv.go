package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kilianp07/rakeplan/core/fleet"
	"github.com/kilianp07/rakeplan/core/model"
)

// CSVStore persists the fleet as a single CSV file. Saves write a temporary
// file and rename it over the original so a failed save leaves the previous
// day intact.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

func NewCSVStore(path string) (*CSVStore, error) {
	if path == "" {
		return nil, fmt.Errorf("csv store path is required")
	}
	return &CSVStore{path: path}, nil
}

func (s *CSVStore) Load(ctx context.Context) ([]model.VehicleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fleet.Wrap("load", err)
	}
	defer func() { _ = f.Close() }()
	recs, err := decodeCSV(f)
	if err != nil {
		return nil, fleet.Wrap("load "+s.path, err)
	}
	return recs, nil
}

func decodeCSV(r io.Reader) ([]model.VehicleRecord, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	var out []model.VehicleRecord
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		m := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(row) {
				m[h] = row[i]
			}
		}
		rec, err := fleet.DecodeRow(m)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	if err := fleet.CheckUnique(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CSVStore) Save(ctx context.Context, records []model.VehicleRecord) error {
	if err := ctx.Err(); err != nil {
		return fleet.Wrap("save", err)
	}
	if err := fleet.CheckUnique(records); err != nil {
		return fleet.Wrap("save", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fleet.Wrap("save", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fleet.Wrap("save", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	w := csv.NewWriter(tmp)
	if err := w.Write(fleet.Columns); err != nil {
		_ = tmp.Close()
		return fleet.Wrap("save", err)
	}
	for _, r := range fleet.Sorted(records) {
		if err := w.Write(fleet.EncodeRow(r)); err != nil {
			_ = tmp.Close()
			return fleet.Wrap("save", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		return fleet.Wrap("save", err)
	}
	if err := tmp.Close(); err != nil {
		return fleet.Wrap("save", err)
	}
	return fleet.Wrap("save", os.Rename(tmp.Name(), s.path))
}
