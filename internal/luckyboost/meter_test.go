package luckyboost

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMeterCrossingStashesOverflow(t *testing.T) {
	m := NewMeter()
	m.Progress = usd(990)

	next, crossed := m.Add(usd(30))
	require.True(t, crossed)
	require.True(t, next.Progress.Equal(usd(1000)))
	require.True(t, next.Overflow.Equal(usd(20)))
	require.True(t, next.Reached())

	claimed := next.Claim()
	require.True(t, claimed.Progress.Equal(usd(20)))
	require.True(t, claimed.Overflow.IsZero())
	require.False(t, claimed.Reached())
}

func TestMeterExactHitHasNoOverflow(t *testing.T) {
	m := NewMeter()
	m.Progress = usd(975)
	next, crossed := m.Add(usd(25))
	require.True(t, crossed)
	require.True(t, next.Overflow.IsZero())
	require.True(t, next.Claim().Progress.IsZero())
}

func TestMeterFullOnlyGrowsOverflow(t *testing.T) {
	m := NewMeter()
	m.Progress = usd(1000)
	m.Overflow = usd(5)

	next, crossed := m.Add(usd(40))
	require.False(t, crossed)
	require.True(t, next.Progress.Equal(usd(1000)))
	require.True(t, next.Overflow.Equal(usd(45)))
}

func TestMeterClaimKeepsExcessAboveCap(t *testing.T) {
	m := NewMeter()
	m.Progress = usd(1000)
	m.Overflow = usd(1200)

	c := m.Claim()
	require.True(t, c.Progress.Equal(usd(1000)))
	require.True(t, c.Overflow.Equal(usd(200)))
}

func TestMeterIgnoresNonPositiveDelta(t *testing.T) {
	m := NewMeter()
	m.Progress = usd(10)
	next, crossed := m.Add(usd(0))
	require.False(t, crossed)
	require.Equal(t, m, next)
	next, _ = m.Add(usd(-5))
	require.True(t, next.Progress.Equal(usd(10)))
}

func TestMeterOverflowConservation(t *testing.T) {
	for _, tc := range []struct{ start, delta, want float64 }{
		{990, 30, 20},
		{999.99, 0.02, 0.01},
		{800, 250, 50},
		{1000 - 87.45, 100, 12.55},
	} {
		m := NewMeter()
		m.Progress = usd(tc.start)
		next, crossed := m.Add(usd(tc.delta))
		require.True(t, crossed)
		require.True(t, next.Claim().Progress.Equal(usd(tc.want)), "start=%v delta=%v", tc.start, tc.delta)
	}
}
