package store

import (
	"context"
	"fmt"

	"github.com/kilianp07/rakeplan/core/fleet"
)

// Config selects and configures the fleet backend.
type Config struct {
	// Backend is one of csv, sqlite, postgres or memory.
	Backend string `json:"backend"`
	Path    string `json:"path"`
	DSN     string `json:"dsn"`
}

// SetDefaults applies the reference CSV layout.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "csv"
	}
	if c.Path == "" && c.Backend == "csv" {
		c.Path = "fleet_status.csv"
	}
	if c.Path == "" && c.Backend == "sqlite" {
		c.Path = "fleet.db"
	}
}

// Validate ensures the selected backend has what it needs.
func (c Config) Validate() error {
	switch c.Backend {
	case "csv", "sqlite":
		if c.Path == "" {
			return fmt.Errorf("store.path is required for %s", c.Backend)
		}
	case "postgres":
		if c.DSN == "" {
			return fmt.Errorf("store.dsn is required for postgres")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown store backend %s", c.Backend)
	}
	return nil
}

// Open returns the configured store.
func Open(ctx context.Context, c Config) (fleet.Store, error) {
	switch c.Backend {
	case "csv":
		return NewCSVStore(c.Path)
	case "sqlite":
		return NewSQLiteStore(c.Path)
	case "postgres":
		return NewPostgresStore(ctx, c.DSN)
	case "memory":
		return NewMemory(nil), nil
	default:
		return nil, fmt.Errorf("unknown store backend %s", c.Backend)
	}
}
