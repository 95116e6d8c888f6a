package cardgen

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/luckyboost/internal/gacha"
	"github.com/xtding233/luckyboost/internal/odds"
)

// scripted replays fixed rolls, then repeats the last one.
type scripted struct {
	rolls []float64
	i     int
}

func (s *scripted) Float64() float64 {
	if s.i >= len(s.rolls) {
		return s.rolls[len(s.rolls)-1]
	}
	v := s.rolls[s.i]
	s.i++
	return v
}

func starter() odds.Pack {
	return odds.Pack{ID: "pokemon-starter", Price: decimal.NewFromInt(25), Theme: odds.Pokemon, Tier: odds.Starter}
}

func TestGenerateSeedReplay(t *testing.T) {
	g := New(DefaultConfig(), nil)
	seed := uint64(12345)

	a := g.Generate(starter(), &seed)
	b := g.Generate(starter(), &seed)

	require.Equal(t, a.Name, b.Name)
	require.Equal(t, a.Rarity, b.Rarity)
	require.True(t, a.Value.Equal(b.Value), "%s != %s", a.Value, b.Value)
	require.NotEqual(t, a.ID, b.ID, "replayed cards still get their own id")
}

func TestGenerateSeedIndependentOfGenerator(t *testing.T) {
	seed := uint64(99)
	a := New(DefaultConfig(), gacha.NewSeededRNG(1)).Generate(starter(), &seed)
	b := New(DefaultConfig(), gacha.NewSeededRNG(2)).Generate(starter(), &seed)
	require.Equal(t, a.Name, b.Name)
	require.True(t, a.Value.Equal(b.Value))
}

func TestGenerateScriptedWin(t *testing.T) {
	// win roll, epic sub-tier, midpoint value, first name
	rng := &scripted{rolls: []float64{0.85, 0.5, 0.5, 0.0}}
	card := New(DefaultConfig(), rng).Generate(starter(), nil)

	require.Equal(t, odds.Epic, card.Rarity)
	require.Equal(t, "26.13", card.Value.StringFixed(2))
	require.Equal(t, "Champion Warrior", card.Name)
	require.NotEmpty(t, card.ID)
}

func TestGenerateScriptedLoss(t *testing.T) {
	// loss roll, common sub-tier, top of the 0-15% band, last name
	rng := &scripted{rolls: []float64{0.10, 0.30, 0.999999, 0.99}}
	card := New(DefaultConfig(), rng).Generate(starter(), nil)

	require.Equal(t, odds.Common, card.Rarity)
	require.True(t, card.Value.LessThan(starter().Price))
	require.Equal(t, "3.75", card.Value.StringFixed(2))
	require.Equal(t, "Beginner Hero", card.Name)
}

func TestGenerateBoundaryRollIsWin(t *testing.T) {
	// winRoll == LossRate is a win
	rng := &scripted{rolls: []float64{0.80, 0.95, 0.0, 0.0}}
	card := New(DefaultConfig(), rng).Generate(starter(), nil)
	require.Equal(t, odds.Mythic, card.Rarity)
	require.Equal(t, "47.50", card.Value.StringFixed(2))
}

func TestGenerateCertainLossKeepsRollOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LossRate = 1
	// class roll is still consumed, so band, value and name read rolls 2-4
	rng := &scripted{rolls: []float64{0.9, 0.0, 0.5, 0.0}}
	card := New(cfg, rng).Generate(starter(), nil)

	require.Equal(t, 4, rng.i)
	require.Equal(t, odds.Common, card.Rarity)
	require.Equal(t, "1.88", card.Value.StringFixed(2))
	require.Equal(t, cfg.Names[odds.Common][0], card.Name)
}

func TestGenerateUnknownRarityFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LossBands = []Band{{Rarity: odds.Rarity("shiny"), Weight: 1, MinPct: 0.1, MaxPct: 0.2}}
	rng := &scripted{rolls: []float64{0.1, 0.5, 0.5, 0.5}}
	card := New(cfg, rng).Generate(starter(), nil)
	require.Equal(t, FallbackName, card.Name)
}

func TestGenerateDistribution(t *testing.T) {
	g := New(DefaultConfig(), gacha.NewSeededRNG(2024))
	pack := odds.Pack{Price: decimal.NewFromInt(100)}

	const n = 50000
	wins := 0
	ids := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		card := g.Generate(pack, nil)
		ids[card.ID] = struct{}{}
		if card.Value.GreaterThanOrEqual(pack.Price) {
			wins++
			require.GreaterOrEqual(t, card.Rarity.Rank(), odds.Epic.Rank())
			require.True(t, card.Value.LessThanOrEqual(decimal.NewFromInt(300)))
		} else {
			require.LessOrEqual(t, card.Rarity.Rank(), odds.Epic.Rank())
			require.True(t, card.Value.LessThanOrEqual(decimal.NewFromInt(70)))
		}
		require.True(t, card.Value.Equal(card.Value.Round(2)))
	}
	require.Len(t, ids, n)
	require.InDelta(t, 0.20, float64(wins)/n, 0.01)
}

func TestConfigNormalize(t *testing.T) {
	g := New(Config{LossRate: 2}, nil)
	cfg := g.Config()
	require.Equal(t, DefaultLossRate, cfg.LossRate)
	require.Len(t, cfg.WinBands, 3)
	require.Len(t, cfg.LossBands, 3)
	require.InDelta(t, 0.2, cfg.WinRate(), 1e-12)
}

func TestFixedPicksBandRarity(t *testing.T) {
	g := New(DefaultConfig(), &scripted{rolls: []float64{0}})
	price := decimal.NewFromInt(25)

	cases := []struct {
		value string
		want  odds.Rarity
	}{
		{"5", odds.Common},
		{"10", odds.Rare},
		{"20", odds.Epic},
		{"26", odds.Epic},
		{"30", odds.Legendary},
		{"60", odds.Mythic},
	}
	for _, c := range cases {
		card := g.Fixed(price, decimal.RequireFromString(c.value))
		require.Equal(t, c.want, card.Rarity, c.value)
		require.True(t, card.Value.Equal(decimal.RequireFromString(c.value)))
		require.NotEmpty(t, card.ID)
		require.Equal(t, DefaultNames()[c.want][0], card.Name)
	}
}
