package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kilianp07/rakeplan/core/fleet"
	"github.com/kilianp07/rakeplan/core/strategy"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS fleet_status (
    train_id VARCHAR(10) PRIMARY KEY,
    health_score REAL,
    current_km INTEGER,
    current_hours REAL,
    job_card_status VARCHAR(50),
    job_card_priority VARCHAR(50),
    cert_telecom_expiry DATE,
    branding_sla_active BOOLEAN,
    target_hours REAL,
    last_cleaned_date DATE,
    stabling_shunt_moves INTEGER,
    brake_model VARCHAR(50),
    bogie_last_service_km INTEGER,
    consecutive_service_days INTEGER,
    total_service_days_month INTEGER,
    total_maintenance_days_month INTEGER
);
CREATE TABLE IF NOT EXISTS historical_strategy_data (
    id SERIAL PRIMARY KEY,
    total_fleet_size INTEGER,
    target_service_trains INTEGER,
    avg_fleet_health REAL,
    is_monsoon INTEGER,
    is_surge INTEGER,
    historical_cost_per_km REAL,
    historical_fatigue_factor REAL,
    historical_branding_penalty REAL,
    historical_target_mileage REAL,
    historical_maint_threshold REAL,
    success_score INTEGER
);`

// PostgresStore persists the fleet in PostgreSQL through the pgx driver.
type PostgresStore struct {
	sqlTable
}

// NewPostgresStore connects to dsn, checks connectivity and ensures schema.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fleet.Wrap("open postgres", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fleet.Wrap("ping postgres", err)
	}
	s := &PostgresStore{sqlTable{db: db, d: dialect{
		schema:      postgresSchema,
		placeholder: func(i int) string { return fmt.Sprintf("$%d", i) },
		dateArg: func(t time.Time) any {
			if t.IsZero() {
				return nil
			}
			return t
		},
	}}}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fleet.Wrap("postgres schema", err)
	}
	return s, nil
}

// Historical reads the historical strategy table.
func (s *PostgresStore) Historical(ctx context.Context) ([]strategy.HistoricalRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT total_fleet_size, target_service_trains, avg_fleet_health,
        is_monsoon, is_surge, historical_cost_per_km, historical_fatigue_factor,
        historical_branding_penalty, historical_target_mileage, historical_maint_threshold, success_score
        FROM historical_strategy_data ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []strategy.HistoricalRow
	for rows.Next() {
		var r strategy.HistoricalRow
		var monsoon, surge int
		var success float64
		if err := rows.Scan(&r.Conditions.FleetSize, &r.Conditions.TargetServiceCount, &r.Conditions.AverageFleetHealth,
			&monsoon, &surge, &r.Weights.CostPerKM, &r.Weights.FatigueFactor, &r.Weights.BrandingPenalty,
			&r.Weights.TargetMileage, &r.Weights.MaintThreshold, &success); err != nil {
			return nil, err
		}
		r.Conditions.IsAdverseWeather = monsoon != 0
		r.Conditions.IsSurgeDemand = surge != 0
		r.SuccessScore = success
		out = append(out, r)
	}
	return out, rows.Err()
}
