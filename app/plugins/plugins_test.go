package plugins

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rakeplan/config"
	"github.com/kilianp07/rakeplan/core/strategy"
)

type history []strategy.HistoricalRow

func (h history) Historical(context.Context) ([]strategy.HistoricalRow, error) { return h, nil }

func TestStaticPredictor(t *testing.T) {
	w := strategy.DefaultWeights()
	w.FatigueFactor = 900
	p, err := NewPredictor(context.Background(), config.StrategyConfig{Source: "static", Weights: &w}, nil)
	require.NoError(t, err)
	got, err := p.Predict(context.Background(), strategy.Conditions{})
	require.NoError(t, err)
	assert.Equal(t, 900.0, got.FatigueFactor)
}

func TestPostgresPredictorNeedsHistory(t *testing.T) {
	_, err := NewPredictor(context.Background(), config.StrategyConfig{Source: "postgres", K: 1}, nil)
	assert.True(t, errors.Is(err, config.ErrConfiguration))

	rows := history{{Conditions: strategy.Conditions{FleetSize: 25}, Weights: strategy.DefaultWeights(), SuccessScore: 1}}
	p, err := NewPredictor(context.Background(), config.StrategyConfig{Source: "postgres", K: 1}, rows)
	require.NoError(t, err)
	got, err := p.Predict(context.Background(), strategy.Conditions{FleetSize: 25})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, got.MaintThreshold, 1e-9)
}

func TestCSVPredictorMissingFile(t *testing.T) {
	_, err := NewPredictor(context.Background(), config.StrategyConfig{Source: "csv", Path: filepath.Join(t.TempDir(), "none.csv")}, nil)
	assert.True(t, errors.Is(err, config.ErrConfiguration))
}

func TestUnknownSource(t *testing.T) {
	_, err := NewPredictor(context.Background(), config.StrategyConfig{Source: "oracle"}, nil)
	assert.True(t, errors.Is(err, config.ErrConfiguration))
}
