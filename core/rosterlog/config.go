package rosterlog

import "fmt"

// Config selects the log backend.
type Config struct {
	// Backend is one of jsonl, rotating, sqlite or csv.
	Backend    string `json:"backend"`
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// SetDefaults applies the reference CSV log.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "csv"
	}
	if c.Path == "" {
		switch c.Backend {
		case "sqlite":
			c.Path = "roster_log.db"
		case "csv":
			c.Path = "monthly_simulation_log.csv"
		default:
			c.Path = "roster_log.jsonl"
		}
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 3
	}
	if c.MaxAgeDays == 0 {
		c.MaxAgeDays = 31
	}
}

// Validate checks the backend name.
func (c Config) Validate() error {
	switch c.Backend {
	case "jsonl", "rotating", "sqlite", "csv":
	default:
		return fmt.Errorf("unknown roster log backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("roster_log.path is required")
	}
	return nil
}

// Open returns the configured store.
func Open(c Config) (Store, error) {
	switch c.Backend {
	case "jsonl":
		return NewJSONLStore(c.Path)
	case "rotating":
		return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	case "sqlite":
		return NewSQLiteStore(c.Path)
	case "csv":
		return NewCSVStore(c.Path)
	default:
		return nil, fmt.Errorf("unknown roster log backend %s", c.Backend)
	}
}
