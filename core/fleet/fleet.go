// Package fleet defines the persistence capability for vehicle records and
// the flat tabular layout shared by file based backends.
package fleet

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/rakeplan/core/model"
)

// ErrPersistence wraps every load or save failure of a Store.
var ErrPersistence = errors.New("fleet persistence failed")

// Store loads and saves the full record set keyed by vehicle id.
type Store interface {
	Load(ctx context.Context) ([]model.VehicleRecord, error)
	Save(ctx context.Context, records []model.VehicleRecord) error
}

// Closer is implemented by stores holding a connection or file handle.
type Closer interface {
	Close() error
}

// Columns is the column order of the tabular fleet layout.
var Columns = []string{
	"train_id", "health_score", "current_km", "current_hours",
	"job_card_status", "job_card_priority", "cert_telecom_expiry",
	"branding_sla_active", "target_hours", "last_cleaned_date",
	"stabling_shunt_moves", "brake_model", "bogie_last_service_km",
	"consecutive_service_days", "total_service_days_month", "total_maintenance_days_month",
}

// Wrap marks err as a persistence failure.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}

// Sorted returns a copy of records ordered by id.
func Sorted(records []model.VehicleRecord) []model.VehicleRecord {
	out := model.Clone(records)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CheckUnique rejects empty or duplicate ids.
func CheckUnique(records []model.VehicleRecord) error {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.ID == "" {
			return fmt.Errorf("record without id")
		}
		if _, ok := seen[r.ID]; ok {
			return fmt.Errorf("duplicate vehicle %s", r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}

// EncodeRow renders rec in Columns order.
func EncodeRow(rec model.VehicleRecord) []string {
	return []string{
		rec.ID,
		strconv.FormatFloat(rec.HealthScore, 'f', -1, 64),
		strconv.Itoa(rec.CurrentKM),
		strconv.FormatFloat(rec.CurrentHours, 'f', -1, 64),
		string(rec.JobCardStatus),
		string(rec.JobCardPriority),
		model.FormatDate(rec.CertExpiry),
		strconv.FormatBool(rec.BrandingSLAActive),
		strconv.FormatFloat(rec.TargetHours, 'f', -1, 64),
		model.FormatDate(rec.LastCleanedDate),
		strconv.Itoa(rec.StablingShuntMoves),
		rec.BrakeModel,
		strconv.Itoa(rec.BogieLastServiceKM),
		strconv.Itoa(rec.ConsecutiveServiceDays),
		strconv.Itoa(rec.TotalServiceDays),
		strconv.Itoa(rec.TotalMaintenanceDays),
	}
}

// DecodeRow parses a row keyed by column name. Monthly counters, usage and
// job card columns may be absent and default like a freshly initialised month.
func DecodeRow(row map[string]string) (model.VehicleRecord, error) {
	d := rowDecoder{row: row}
	rec := model.VehicleRecord{
		ID:                     d.str("train_id", ""),
		HealthScore:            d.float("health_score", 100),
		CurrentKM:              d.int("current_km", 0),
		CurrentHours:           d.float("current_hours", 0),
		JobCardStatus:          model.JobCardStatus(d.str("job_card_status", string(model.JobCardClosed))),
		JobCardPriority:        model.Priority(d.str("job_card_priority", string(model.PriorityNone))),
		CertExpiry:             d.date("cert_telecom_expiry"),
		BrandingSLAActive:      d.bool("branding_sla_active"),
		TargetHours:            d.float("target_hours", 0),
		LastCleanedDate:        d.date("last_cleaned_date"),
		StablingShuntMoves:     d.int("stabling_shunt_moves", 0),
		BrakeModel:             d.str("brake_model", ""),
		BogieLastServiceKM:     d.int("bogie_last_service_km", 0),
		ConsecutiveServiceDays: d.int("consecutive_service_days", 0),
		TotalServiceDays:       d.int("total_service_days_month", 0),
		TotalMaintenanceDays:   d.int("total_maintenance_days_month", 0),
	}
	if d.err != nil {
		return model.VehicleRecord{}, d.err
	}
	if rec.ID == "" {
		return rec, fmt.Errorf("train_id is required")
	}
	if _, ok := row["cert_telecom_expiry"]; !ok {
		return rec, fmt.Errorf("vehicle %s: cert_telecom_expiry is required", rec.ID)
	}
	return rec, nil
}

type rowDecoder struct {
	row map[string]string
	err error
}

func (d *rowDecoder) raw(col string) (string, bool) {
	v, ok := d.row[col]
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (d *rowDecoder) fail(col string, err error) {
	if d.err == nil {
		d.err = fmt.Errorf("column %s: %w", col, err)
	}
}

func (d *rowDecoder) str(col, def string) string {
	if v, ok := d.raw(col); ok {
		return v
	}
	return def
}

func (d *rowDecoder) float(col string, def float64) float64 {
	v, ok := d.raw(col)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		d.fail(col, err)
	}
	return f
}

// int accepts float notation since tabular exports often widen integers.
func (d *rowDecoder) int(col string, def int) int {
	v, ok := d.raw(col)
	if !ok {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		d.fail(col, err)
	}
	return int(f)
}

func (d *rowDecoder) bool(col string) bool {
	v, ok := d.raw(col)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		d.fail(col, err)
	}
	return b
}

var dateLayouts = []string{model.DateLayout, "2006-01-02 15:04:05", time.RFC3339}

func (d *rowDecoder) date(col string) time.Time {
	v, ok := d.raw(col)
	if !ok {
		return time.Time{}
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, v); err == nil {
			return t.Truncate(24 * time.Hour)
		}
	}
	d.fail(col, fmt.Errorf("invalid date %q", v))
	return time.Time{}
}
