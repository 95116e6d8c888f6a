package luckyboost

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xtding233/luckyboost/internal/gacha"
)

func TestDefaultMilestoneWeights(t *testing.T) {
	var sum float64
	for _, m := range DefaultMilestones() {
		sum += m.Weight
		require.Equal(t, RewardCredits, m.Reward.Kind)
	}
	require.InDelta(t, 1.0, sum, 1e-9)
}

func TestTableLookup(t *testing.T) {
	tbl := NewTable(nil)
	m, err := tbl.Lookup(10)
	require.NoError(t, err)
	require.True(t, m.Reward.Amount.Equal(usd(200)))

	_, err = tbl.Lookup(42)
	require.True(t, errors.Is(err, ErrMilestoneNotFound))

	require.Equal(t, 1, tbl.First().ID)
	require.Equal(t, 10, tbl.At(99).ID)
	require.Equal(t, 1, tbl.At(-3).ID)
}

func TestRewardRange(t *testing.T) {
	lo, hi := NewTable(nil).RewardRange()
	require.True(t, lo.Equal(usd(25)))
	require.True(t, hi.Equal(usd(200)))

	lo, hi = NewTable([]Milestone{{ID: 1, Reward: GuaranteedPull(usd(50)), Weight: 1}}).RewardRange()
	require.True(t, lo.IsZero())
	require.True(t, hi.IsZero())
}

func TestPickVariantDistribution(t *testing.T) {
	tbl := NewTable(nil)
	rng := gacha.NewSeededRNG(77)
	counts := map[int]int{}
	const n = 100000
	for i := 0; i < n; i++ {
		counts[tbl.PickVariant(rng)]++
	}
	low := 0
	for id := 1; id <= 5; id++ {
		low += counts[id]
	}
	require.InDelta(t, 0.40, float64(low)/n, 0.01)
	require.InDelta(t, 0.25, float64(counts[6])/n, 0.01)
	require.InDelta(t, 0.04, float64(counts[10])/n, 0.005)
}

func TestPickVariantUniformWithoutWeights(t *testing.T) {
	tbl := NewTable([]Milestone{
		{ID: 7, Reward: Credits(usd(10))},
		{ID: 8, Reward: Credits(usd(20))},
	})
	seen := map[int]bool{}
	rng := gacha.NewSeededRNG(5)
	for i := 0; i < 100; i++ {
		seen[tbl.PickVariant(rng)] = true
	}
	require.True(t, seen[7])
	require.True(t, seen[8])
}

func TestRewardString(t *testing.T) {
	require.Equal(t, "25.00 credits", Credits(usd(25)).String())
	require.Contains(t, GuaranteedPull(usd(100)).String(), "100.00")
	require.Equal(t, "unknown reward", Reward{}.String())
}
