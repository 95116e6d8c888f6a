package gacha

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fixedRNG float64

func (f fixedRNG) Float64() float64 { return float64(f) }

func TestPickWeighted(t *testing.T) {
	weights := []float64{0.6, 0.2, 0.2}
	tests := []struct {
		roll float64
		want int
	}{
		{0, 0},
		{0.59, 0},
		{0.61, 1},
		{0.79, 1},
		{0.81, 2},
		{0.999, 2},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, PickWeighted(weights, fixedRNG(tt.roll)), "roll=%v", tt.roll)
	}
}

func TestPickWeightedUnnormalized(t *testing.T) {
	require.Equal(t, 1, PickWeighted([]float64{3, 1}, fixedRNG(0.8)))
	require.Equal(t, 0, PickWeighted([]float64{3, 1}, fixedRNG(0.7)))
}

func TestPickWeightedSkipsZero(t *testing.T) {
	require.Equal(t, 2, PickWeighted([]float64{0, -1, 5}, fixedRNG(0.1)))
	require.Equal(t, -1, PickWeighted([]float64{0, 0}, fixedRNG(0.1)))
	require.Equal(t, -1, PickWeighted(nil, fixedRNG(0.1)))
}

func TestPickWeightedDistribution(t *testing.T) {
	rng := NewSeededRNG(3)
	counts := make([]int, 3)
	const n = 60000
	for i := 0; i < n; i++ {
		counts[PickWeighted([]float64{0.6, 0.2, 0.2}, rng)]++
	}
	require.InDelta(t, 0.6, float64(counts[0])/n, 0.01)
	require.InDelta(t, 0.2, float64(counts[1])/n, 0.01)
}
