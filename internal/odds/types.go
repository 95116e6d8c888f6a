// Package odds is the static pack catalog: prices, themes and the display
// odds buckets shown on a pack detail screen.
package odds

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrPackNotFound = errors.New("pack not found")

// Rarity is an ordinal card tier.
type Rarity string

const (
	Common    Rarity = "common"
	Rare      Rarity = "rare"
	Epic      Rarity = "epic"
	Legendary Rarity = "legendary"
	Mythic    Rarity = "mythic"
)

// Rarities in ascending order.
var Rarities = []Rarity{Common, Rare, Epic, Legendary, Mythic}

// Rank returns the ordinal position of r, or -1 if r is unknown.
func (r Rarity) Rank() int {
	for i, x := range Rarities {
		if x == r {
			return i
		}
	}
	return -1
}

func (r Rarity) Valid() bool { return r.Rank() >= 0 }

type Theme string

const (
	Pokemon  Theme = "pokemon"
	OnePiece Theme = "onepiece"
)

func (t Theme) Valid() bool { return t == Pokemon || t == OnePiece }

type Tier string

const (
	Starter   Tier = "starter"
	Collector Tier = "collector"
	Elite     Tier = "elite"
	Master    Tier = "master"
)

func (t Tier) Valid() bool {
	switch t {
	case Starter, Collector, Elite, Master:
		return true
	}
	return false
}

// Bucket is one display row of a pack's odds table.
type Bucket struct {
	Rarity      Rarity          `json:"rarity"`
	Probability float64         `json:"probability"`
	MinValue    decimal.Decimal `json:"minValue"`
	MaxValue    decimal.Decimal `json:"maxValue"`
}

// Pack is a purchasable unit yielding one card.
type Pack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Theme       Theme           `json:"theme"`
	Tier        Tier            `json:"tier"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Odds        []Bucket        `json:"odds"`
}

// NormalizedOdds returns the buckets with probabilities rescaled to sum to 1.
// A table whose probabilities sum to zero is returned unchanged.
func (p Pack) NormalizedOdds() []Bucket {
	out := append([]Bucket(nil), p.Odds...)
	var sum float64
	for _, b := range out {
		sum += b.Probability
	}
	if sum <= 0 {
		return out
	}
	for i := range out {
		out[i].Probability /= sum
	}
	return out
}
