package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/rakeplan/core/fleet"
	"github.com/kilianp07/rakeplan/core/model"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS fleet_status (
    train_id TEXT PRIMARY KEY,
    health_score REAL,
    current_km INTEGER,
    current_hours REAL,
    job_card_status TEXT,
    job_card_priority TEXT,
    cert_telecom_expiry TEXT,
    branding_sla_active BOOLEAN,
    target_hours REAL,
    last_cleaned_date TEXT,
    stabling_shunt_moves INTEGER,
    brake_model TEXT,
    bogie_last_service_km INTEGER,
    consecutive_service_days INTEGER,
    total_service_days_month INTEGER,
    total_maintenance_days_month INTEGER
);`

// SQLiteStore persists the fleet in a SQLite database.
type SQLiteStore struct {
	sqlTable
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fleet.Wrap("open sqlite", err)
	}
	s := &SQLiteStore{sqlTable{db: db, d: dialect{
		schema:      sqliteSchema,
		placeholder: func(int) string { return "?" },
		dateArg: func(t time.Time) any {
			if t.IsZero() {
				return nil
			}
			return model.FormatDate(t)
		},
	}}}
	if err := s.ensureSchema(context.Background()); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fleet.Wrap("sqlite schema", fmt.Errorf("close db: %v (schema err: %w)", cerr, err))
		}
		return nil, fleet.Wrap("sqlite schema", err)
	}
	return s, nil
}
