package strategy

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// HistoricalRow is one past day: its conditions, the weights that were used
// and how well the day went.
type HistoricalRow struct {
	Conditions   Conditions
	Weights      Weights
	SuccessScore float64
}

// Historical predicts weights by blending the nearest past days, each
// weighted by its success score and inverse distance.
type Historical struct {
	rows []HistoricalRow
	k    int
}

// ErrNoHistory is returned when the predictor has nothing to learn from.
var ErrNoHistory = errors.New("no historical strategy data")

// NewHistorical builds a predictor using the k nearest rows.
func NewHistorical(rows []HistoricalRow, k int) (*Historical, error) {
	if len(rows) == 0 {
		return nil, ErrNoHistory
	}
	if k <= 0 {
		k = 3
	}
	for i, r := range rows {
		if err := r.Weights.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	cp := make([]HistoricalRow, len(rows))
	copy(cp, rows)
	return &Historical{rows: cp, k: k}, nil
}

// Predict implements Predictor.
func (h *Historical) Predict(ctx context.Context, c Conditions) (Weights, error) {
	if err := ctx.Err(); err != nil {
		return Weights{}, err
	}
	target := features(c)
	type cand struct {
		dist float64
		row  HistoricalRow
	}
	cands := make([]cand, len(h.rows))
	for i, r := range h.rows {
		cands[i] = cand{dist: floats.Distance(target, features(r.Conditions), 2), row: r}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	k := h.k
	if k > len(cands) {
		k = len(cands)
	}
	var sum [5]float64
	var total float64
	for _, cd := range cands[:k] {
		if cd.dist == 0 {
			// exact match wins outright
			return cd.row.Weights, nil
		}
		w := (1 + maxf(cd.row.SuccessScore, 0)) / cd.dist
		v := vec(cd.row.Weights)
		for i := range sum {
			sum[i] += w * v[i]
		}
		total += w
	}
	for i := range sum {
		sum[i] /= total
	}
	return Weights{CostPerKM: sum[0], FatigueFactor: sum[1], BrandingPenalty: sum[2], TargetMileage: sum[3], MaintThreshold: sum[4]}, nil
}

// features scales the conditions so that no dimension dominates.
func features(c Conditions) []float64 {
	return []float64{
		float64(c.FleetSize) / 10,
		float64(c.TargetServiceCount) / 2,
		c.AverageFleetHealth / 20,
		b2f(c.IsAdverseWeather),
		b2f(c.IsSurgeDemand),
	}
}

func vec(w Weights) [5]float64 {
	return [5]float64{w.CostPerKM, w.FatigueFactor, w.BrandingPenalty, w.TargetMileage, w.MaintThreshold}
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

var historicalColumns = []string{
	"total_fleet_size", "target_service_trains", "avg_fleet_health", "is_monsoon", "is_surge",
	"historical_cost_per_km", "historical_fatigue_factor", "historical_branding_penalty",
	"historical_target_mileage", "historical_maint_threshold", "success_score",
}

// LoadHistoricalFile reads the historical strategy table from a CSV file.
func LoadHistoricalFile(path string) ([]HistoricalRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return DecodeHistorical(f)
}

// DecodeHistorical parses the historical strategy CSV layout. Columns are
// matched by header name; an optional leading id column is ignored.
func DecodeHistorical(r io.Reader) ([]HistoricalRow, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, c := range historicalColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("missing column %s", c)
		}
	}
	var rows []HistoricalRow
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		vals := make(map[string]float64, len(historicalColumns))
		for _, c := range historicalColumns {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx[c]]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, c, err)
			}
			vals[c] = v
		}
		rows = append(rows, HistoricalRow{
			Conditions: Conditions{
				FleetSize:          int(vals["total_fleet_size"]),
				TargetServiceCount: int(vals["target_service_trains"]),
				AverageFleetHealth: vals["avg_fleet_health"],
				IsAdverseWeather:   vals["is_monsoon"] != 0,
				IsSurgeDemand:      vals["is_surge"] != 0,
			},
			Weights: Weights{
				CostPerKM:       vals["historical_cost_per_km"],
				FatigueFactor:   vals["historical_fatigue_factor"],
				BrandingPenalty: vals["historical_branding_penalty"],
				TargetMileage:   vals["historical_target_mileage"],
				MaintThreshold:  vals["historical_maint_threshold"],
			},
			SuccessScore: vals["success_score"],
		})
	}
	return rows, nil
}
