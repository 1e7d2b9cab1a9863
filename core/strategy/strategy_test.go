package strategy

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `id,total_fleet_size,target_service_trains,avg_fleet_health,is_monsoon,is_surge,historical_cost_per_km,historical_fatigue_factor,historical_branding_penalty,historical_target_mileage,historical_maint_threshold,success_score
1,10,6,90,0,0,5,500,50000,1400,50,80
2,10,6,70,1,0,8,700,40000,1300,60,60
3,10,7,85,0,1,4,400,60000,1600,45,90
`

func TestStaticPredictor(t *testing.T) {
	w, err := NewStatic().Predict(context.Background(), Conditions{})
	require.NoError(t, err)
	assert.Equal(t, DefaultWeights(), w)
	assert.NoError(t, w.Validate())
}

func TestWeightsValidate(t *testing.T) {
	w := DefaultWeights()
	w.FatigueFactor = math.NaN()
	assert.Error(t, w.Validate())
	w = DefaultWeights()
	w.CostPerKM = -1
	assert.Error(t, w.Validate())
}

func TestDecodeHistorical(t *testing.T) {
	rows, err := DecodeHistorical(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[1].Conditions.IsAdverseWeather)
	assert.Equal(t, 1600.0, rows[2].Weights.TargetMileage)

	_, err = DecodeHistorical(strings.NewReader("total_fleet_size\n10\n"))
	assert.Error(t, err)
}

func TestHistoricalExactMatch(t *testing.T) {
	rows, err := DecodeHistorical(strings.NewReader(sample))
	require.NoError(t, err)
	h, err := NewHistorical(rows, 2)
	require.NoError(t, err)
	w, err := h.Predict(context.Background(), Conditions{FleetSize: 10, TargetServiceCount: 6, AverageFleetHealth: 70, IsAdverseWeather: true})
	require.NoError(t, err)
	assert.Equal(t, rows[1].Weights, w)
}

func TestHistoricalBlendIsDeterministicAndBounded(t *testing.T) {
	rows, err := DecodeHistorical(strings.NewReader(sample))
	require.NoError(t, err)
	h, err := NewHistorical(rows, 3)
	require.NoError(t, err)
	c := Conditions{FleetSize: 10, TargetServiceCount: 6, AverageFleetHealth: 80}
	a, err := h.Predict(context.Background(), c)
	require.NoError(t, err)
	b, err := h.Predict(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a.MaintThreshold, 45.0)
	assert.LessOrEqual(t, a.MaintThreshold, 60.0)
	assert.NoError(t, a.Validate())
}

func TestNewHistoricalEmpty(t *testing.T) {
	_, err := NewHistorical(nil, 3)
	assert.ErrorIs(t, err, ErrNoHistory)
}
