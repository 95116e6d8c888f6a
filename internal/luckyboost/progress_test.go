package luckyboost

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/luckyboost/internal/gacha"
	"github.com/xtding233/luckyboost/internal/money"
)

func usd(v float64) decimal.Decimal { return money.USD(v) }

func TestCalculateProgress(t *testing.T) {
	tests := []struct {
		name         string
		price, value float64
		want         float64
	}{
		{"loss", 25, 10, 15},
		{"total loss", 100, 0, 100},
		{"break even is a win", 50, 50, 0},
		{"big win", 25, 75, 0},
		{"cents", 25, 3.37, 21.63},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateProgress(usd(tt.price), usd(tt.value))
			require.True(t, got.Equal(usd(tt.want)), "got %s", got)
		})
	}
}

func TestWinNeverChargesMeter(t *testing.T) {
	rng := gacha.NewSeededRNG(11)
	for i := 0; i < 2000; i++ {
		price := usd(1 + rng.Float64()*250)
		value := price.Add(usd(rng.Float64() * 500))
		require.True(t, CalculateProgress(price, value).IsZero())
	}
}

func TestLossDeltaIsExact(t *testing.T) {
	rng := gacha.NewSeededRNG(12)
	for i := 0; i < 2000; i++ {
		price := usd(1 + rng.Float64()*250)
		value := price.Mul(decimal.NewFromFloat(rng.Float64())).Round(2)
		if value.Equal(price) {
			continue
		}
		require.True(t, CalculateProgress(price, value).Equal(price.Sub(value)))
	}
}

func TestProgressPercentage(t *testing.T) {
	require.InDelta(t, 1.5, ProgressPercentage(usd(15)), 1e-9)
	require.Equal(t, 0.0, ProgressPercentage(usd(-10)))
	require.Equal(t, 100.0, ProgressPercentage(usd(1000)))
	require.Equal(t, 100.0, ProgressPercentage(usd(1020)))
	require.InDelta(t, 99.0, ProgressPercentage(usd(990)), 1e-9)
}
