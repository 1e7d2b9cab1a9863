package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/kilianp07/rakeplan/core/fleet"
	"github.com/kilianp07/rakeplan/core/model"
)

// dialect captures the differences between the SQL backends.
type dialect struct {
	schema      string
	placeholder func(i int) string
	// dateArg converts a date to a driver argument; the zero date is NULL.
	dateArg func(t time.Time) any
}

// sqlTable implements fleet.Store over a fleet_status table.
type sqlTable struct {
	db *sql.DB
	d  dialect
}

func (t *sqlTable) ensureSchema(ctx context.Context) error {
	_, err := t.db.ExecContext(ctx, t.d.schema)
	return err
}

func (t *sqlTable) Load(ctx context.Context) ([]model.VehicleRecord, error) {
	q := `SELECT ` + strings.Join(fleet.Columns, ", ") + ` FROM fleet_status ORDER BY train_id`
	rows, err := t.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fleet.Wrap("load", err)
	}
	defer func() { _ = rows.Close() }()
	var out []model.VehicleRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fleet.Wrap("load", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fleet.Wrap("load", err)
	}
	return out, nil
}

func scanRecord(rows *sql.Rows) (model.VehicleRecord, error) {
	var (
		id                                    string
		health, hours, target                 sql.NullFloat64
		km, shunts, bogie, consec, svc, maint sql.NullInt64
		status, prio, brake                   sql.NullString
		branding                              sql.NullBool
		certRaw, cleanedRaw                   any
	)
	if err := rows.Scan(&id, &health, &km, &hours, &status, &prio, &certRaw, &branding,
		&target, &cleanedRaw, &shunts, &brake, &bogie, &consec, &svc, &maint); err != nil {
		return model.VehicleRecord{}, err
	}
	cert, err := asDate(certRaw)
	if err != nil {
		return model.VehicleRecord{}, fmt.Errorf("vehicle %s cert_telecom_expiry: %w", id, err)
	}
	cleaned, err := asDate(cleanedRaw)
	if err != nil {
		return model.VehicleRecord{}, fmt.Errorf("vehicle %s last_cleaned_date: %w", id, err)
	}
	rec := model.VehicleRecord{
		ID:                     id,
		HealthScore:            100,
		CurrentKM:              int(km.Int64),
		CurrentHours:           hours.Float64,
		JobCardStatus:          model.JobCardClosed,
		JobCardPriority:        model.PriorityNone,
		CertExpiry:             cert,
		BrandingSLAActive:      branding.Bool,
		TargetHours:            target.Float64,
		LastCleanedDate:        cleaned,
		StablingShuntMoves:     int(shunts.Int64),
		BrakeModel:             brake.String,
		BogieLastServiceKM:     int(bogie.Int64),
		ConsecutiveServiceDays: int(consec.Int64),
		TotalServiceDays:       int(svc.Int64),
		TotalMaintenanceDays:   int(maint.Int64),
	}
	if health.Valid {
		rec.HealthScore = health.Float64
	}
	if status.Valid && status.String != "" {
		rec.JobCardStatus = model.JobCardStatus(status.String)
	}
	if prio.Valid && prio.String != "" {
		rec.JobCardPriority = model.Priority(prio.String)
	}
	return rec, nil
}

func asDate(v any) (time.Time, error) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return time.Date(x.Year(), x.Month(), x.Day(), 0, 0, 0, 0, time.UTC), nil
	case string:
		return model.ParseDate(x)
	case []byte:
		return model.ParseDate(string(x))
	default:
		return time.Time{}, fmt.Errorf("unsupported date value %T", v)
	}
}

// Save replaces the table content in one transaction.
func (t *sqlTable) Save(ctx context.Context, records []model.VehicleRecord) error {
	if err := fleet.CheckUnique(records); err != nil {
		return fleet.Wrap("save", err)
	}
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fleet.Wrap("save", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM fleet_status`); err != nil {
		return fleet.Wrap("save", err)
	}
	ph := make([]string, len(fleet.Columns))
	for i := range ph {
		ph[i] = t.d.placeholder(i + 1)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO fleet_status (`+strings.Join(fleet.Columns, ", ")+
		`) VALUES (`+strings.Join(ph, ", ")+`)`)
	if err != nil {
		return fleet.Wrap("save", err)
	}
	defer func() { _ = stmt.Close() }()
	for _, r := range fleet.Sorted(records) {
		_, err := stmt.ExecContext(ctx, r.ID, r.HealthScore, r.CurrentKM, r.CurrentHours,
			string(r.JobCardStatus), string(r.JobCardPriority), t.d.dateArg(r.CertExpiry),
			r.BrandingSLAActive, r.TargetHours, t.d.dateArg(r.LastCleanedDate),
			r.StablingShuntMoves, r.BrakeModel, r.BogieLastServiceKM,
			r.ConsecutiveServiceDays, r.TotalServiceDays, r.TotalMaintenanceDays)
		if err != nil {
			return fleet.Wrap("save "+r.ID, err)
		}
	}
	return fleet.Wrap("commit", tx.Commit())
}

// Close closes the underlying database.
func (t *sqlTable) Close() error { return t.db.Close() }
