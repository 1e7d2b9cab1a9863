package rosterlog

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/rakeplan/core/model"
)

// SQLiteStore persists logs to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS roster_log (
        day INTEGER NOT NULL,
        date TEXT,
        scenario TEXT,
        vehicle_id TEXT NOT NULL,
        duty TEXT NOT NULL,
        health_score REAL,
        current_km INTEGER,
        current_hours REAL,
        consecutive_service_days INTEGER,
        total_service_days INTEGER,
        total_maintenance_days INTEGER,
        branding_sla_active BOOLEAN,
        target_hours REAL,
        PRIMARY KEY(day, vehicle_id)
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Append writes one day in a single transaction.
func (s *SQLiteStore) Append(ctx context.Context, recs []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO roster_log (day, date, scenario, vehicle_id, duty,
        health_score, current_km, current_hours, consecutive_service_days, total_service_days,
        total_maintenance_days, branding_sla_active, target_hours)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()
	for _, r := range recs {
		if _, err := stmt.ExecContext(ctx, r.Day, r.Date, string(r.Scenario), r.VehicleID, r.Duty.String(),
			r.HealthScore, r.CurrentKM, r.CurrentHours, r.ConsecutiveServiceDays, r.TotalServiceDays,
			r.TotalMaintenanceDays, r.BrandingSLAActive, r.TargetHours); err != nil {
			return fmt.Errorf("insert %s day %d: %w", r.VehicleID, r.Day, err)
		}
	}
	return tx.Commit()
}

// Query returns records matching q ordered by day and vehicle.
func (s *SQLiteStore) Query(ctx context.Context, q Query) ([]Record, error) {
	var args []any
	query := `SELECT day, date, scenario, vehicle_id, duty, health_score, current_km, current_hours,
        consecutive_service_days, total_service_days, total_maintenance_days, branding_sla_active, target_hours
        FROM roster_log WHERE 1=1`
	if q.Day != 0 {
		query += ` AND day = ?`
		args = append(args, q.Day)
	}
	if q.FromDay != 0 {
		query += ` AND day >= ?`
		args = append(args, q.FromDay)
	}
	if q.ToDay != 0 {
		query += ` AND day <= ?`
		args = append(args, q.ToDay)
	}
	if q.VehicleID != "" {
		query += ` AND vehicle_id = ?`
		args = append(args, q.VehicleID)
	}
	if q.Duty != nil {
		query += ` AND duty = ?`
		args = append(args, q.Duty.String())
	}
	query += ` ORDER BY day, vehicle_id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []Record
	for rows.Next() {
		var r Record
		var scenario, duty string
		if err := rows.Scan(&r.Day, &r.Date, &scenario, &r.VehicleID, &duty, &r.HealthScore, &r.CurrentKM,
			&r.CurrentHours, &r.ConsecutiveServiceDays, &r.TotalServiceDays, &r.TotalMaintenanceDays,
			&r.BrandingSLAActive, &r.TargetHours); err != nil {
			return nil, err
		}
		r.Scenario = model.ScenarioTag(scenario)
		if r.Duty, err = model.ParseDuty(duty); err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
