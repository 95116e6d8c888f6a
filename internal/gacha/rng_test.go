package gacha

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLCGReplay(t *testing.T) {
	a, b := NewLCG(12345), NewLCG(12345)
	for i := 0; i < 50; i++ {
		x, y := a.Float64(), b.Float64()
		require.Equal(t, x, y)
		require.GreaterOrEqual(t, x, 0.0)
		require.Less(t, x, 1.0)
	}
}

func TestLCGFirstValue(t *testing.T) {
	want := float64((12345*9301+49297)%233280) / 233280
	require.Equal(t, want, NewLCG(12345).Float64())
}

func TestSeededRNGRange(t *testing.T) {
	rng := NewSeededRNG(9)
	for i := 0; i < 1000; i++ {
		v := rng.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("out of range: %f", v)
		}
	}
}
