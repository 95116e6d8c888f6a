// Package cardgen rolls the card a pack open yields.
//
// A roll is two-staged: the win/loss class first, against LossRate, then a
// sub-tier band and a position inside it. Values are always relative to the
// pack price; the pack's static odds buckets are display data only and never
// consulted here.
package cardgen

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/xtding233/luckyboost/internal/gacha"
	"github.com/xtding233/luckyboost/internal/odds"
)

// Card is the item a pack open produces.
type Card struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Rarity   odds.Rarity     `json:"rarity"`
	Value    decimal.Decimal `json:"value"`
	ImageURL string          `json:"imageUrl,omitempty"`
}

// Generator produces cards. The zero value is not usable; call New.
type Generator struct {
	cfg Config
	rng gacha.RandomSource
	now func() time.Time

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
}

// New builds a generator. rng serves unseeded rolls; nil means the default
// crypto source.
func New(cfg Config, rng gacha.RandomSource) *Generator {
	if rng == nil {
		rng = gacha.DefaultRNG()
	}
	return &Generator{
		cfg:     cfg.normalize(),
		rng:     rng,
		now:     time.Now,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// Config returns the effective tuning.
func (g *Generator) Config() Config { return g.cfg }

// Generate rolls one card for pack. With a seed every roll comes from a
// single LCG advanced in order, so the same pack and seed always give the
// same rarity, value and name. The id is always fresh.
func (g *Generator) Generate(pack odds.Pack, seed *uint64) Card {
	rng := g.rng
	if seed != nil {
		rng = gacha.NewLCG(*seed)
	}

	band := g.rollBand(rng)
	value := bandValue(pack.Price, band, rng.Float64())
	name := g.pickName(band.Rarity, rng.Float64())

	return Card{
		ID:     g.newID(),
		Name:   name,
		Rarity: band.Rarity,
		Value:  value,
	}
}

// rollBand consumes the class roll and the sub-tier roll.
func (g *Generator) rollBand(rng gacha.RandomSource) Band {
	// loss iff roll < LossRate, so a win is roll >= LossRate
	loss, err := gacha.Draw(g.cfg.LossRate, rng)
	if err != nil {
		loss = true
	}
	bands := g.cfg.WinBands
	if loss {
		bands = g.cfg.LossBands
	}
	weights := make([]float64, len(bands))
	for i, b := range bands {
		weights[i] = b.Weight
	}
	idx := gacha.PickWeighted(weights, rng)
	if idx < 0 {
		idx = 0
	}
	return bands[idx]
}

// bandValue interpolates t within the band's price range and rounds to cents.
func bandValue(price decimal.Decimal, b Band, t float64) decimal.Decimal {
	lo := price.Mul(decimal.NewFromFloat(b.MinPct))
	hi := price.Mul(decimal.NewFromFloat(b.MaxPct))
	return lo.Add(hi.Sub(lo).Mul(decimal.NewFromFloat(t))).Round(2)
}

func (g *Generator) pickName(r odds.Rarity, t float64) string {
	pool := g.cfg.Names[r]
	if len(pool) == 0 {
		return FallbackName
	}
	i := int(t * float64(len(pool)))
	if i >= len(pool) {
		i = len(pool) - 1
	}
	return pool[i]
}

func (g *Generator) newID() string {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy).String()
}

// Fixed builds a card of the given value for a pack of the given price, for
// debug panels that stage an outcome. The rarity is that of the band the
// value falls in, or the closest band below it.
func (g *Generator) Fixed(price, value decimal.Decimal) Card {
	bands := g.cfg.LossBands
	if value.GreaterThanOrEqual(price) {
		bands = g.cfg.WinBands
	}
	rarity := bands[0].Rarity
	for _, b := range bands {
		lo := price.Mul(decimal.NewFromFloat(b.MinPct)).Round(2)
		if value.GreaterThanOrEqual(lo) {
			rarity = b.Rarity
		}
	}
	return Card{
		ID:     g.newID(),
		Name:   g.pickName(rarity, g.rng.Float64()),
		Rarity: rarity,
		Value:  value.Round(2),
	}
}
