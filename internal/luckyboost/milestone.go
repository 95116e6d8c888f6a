package luckyboost

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/xtding233/luckyboost/internal/gacha"
)

var ErrMilestoneNotFound = errors.New("milestone not found")

// RewardKind discriminates Reward.
type RewardKind string

const (
	RewardCredits        RewardKind = "credits"
	RewardGuaranteedPull RewardKind = "guaranteed_pull"
)

func (k RewardKind) Valid() bool {
	return k == RewardCredits || k == RewardGuaranteedPull
}

// Reward is Credits(amount) or GuaranteedPull(minValue). Amount holds the
// credit amount or the minimum card value depending on Kind.
type Reward struct {
	Kind   RewardKind      `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

func Credits(amount decimal.Decimal) Reward {
	return Reward{Kind: RewardCredits, Amount: amount}
}

func GuaranteedPull(minValue decimal.Decimal) Reward {
	return Reward{Kind: RewardGuaranteedPull, Amount: minValue}
}

func (r Reward) String() string {
	switch r.Kind {
	case RewardCredits:
		return fmt.Sprintf("%s credits", r.Amount.StringFixed(2))
	case RewardGuaranteedPull:
		return fmt.Sprintf("guaranteed pull worth at least %s", r.Amount.StringFixed(2))
	default:
		return "unknown reward"
	}
}

// Milestone is one reward variant. Variants of the same tier share the
// threshold and differ only in payout; Weight drives PickVariant.
type Milestone struct {
	ID     int     `json:"id"`
	Reward Reward  `json:"reward"`
	Weight float64 `json:"weight"`
}

// DefaultMilestones is the ten-variant lottery: $25 is most common at 40%
// split over five ids, $200 the rarest at 4%.
func DefaultMilestones() []Milestone {
	c := func(v int64) Reward { return Credits(decimal.NewFromInt(v)) }
	return []Milestone{
		{ID: 1, Reward: c(25), Weight: 0.08},
		{ID: 2, Reward: c(25), Weight: 0.08},
		{ID: 3, Reward: c(25), Weight: 0.08},
		{ID: 4, Reward: c(25), Weight: 0.08},
		{ID: 5, Reward: c(25), Weight: 0.08},
		{ID: 6, Reward: c(50), Weight: 0.25},
		{ID: 7, Reward: c(75), Weight: 0.15},
		{ID: 8, Reward: c(100), Weight: 0.10},
		{ID: 9, Reward: c(150), Weight: 0.06},
		{ID: 10, Reward: c(200), Weight: 0.04},
	}
}

// Table is the immutable milestone list.
type Table struct {
	milestones []Milestone
}

// NewTable copies ms. An empty list falls back to DefaultMilestones.
func NewTable(ms []Milestone) *Table {
	if len(ms) == 0 {
		ms = DefaultMilestones()
	}
	return &Table{milestones: append([]Milestone(nil), ms...)}
}

func (t *Table) Lookup(id int) (Milestone, error) {
	for _, m := range t.milestones {
		if m.ID == id {
			return m, nil
		}
	}
	return Milestone{}, fmt.Errorf("%w: %d", ErrMilestoneNotFound, id)
}

// At returns the milestone at index i, clamped into range.
func (t *Table) At(i int) Milestone {
	return t.milestones[t.clampIndex(i)]
}

// First is the tier a fresh meter works toward.
func (t *Table) First() Milestone { return t.milestones[0] }

func (t *Table) Len() int { return len(t.milestones) }

func (t *Table) All() []Milestone {
	return append([]Milestone(nil), t.milestones...)
}

func (t *Table) clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(t.milestones) {
		return len(t.milestones) - 1
	}
	return i
}

// PickVariant draws a milestone id by weight. A table without positive
// weights picks uniformly.
func (t *Table) PickVariant(rng gacha.RandomSource) int {
	weights := make([]float64, len(t.milestones))
	for i, m := range t.milestones {
		weights[i] = m.Weight
	}
	idx := gacha.PickWeighted(weights, rng)
	if idx < 0 {
		for i := range weights {
			weights[i] = 1
		}
		idx = gacha.PickWeighted(weights, rng)
	}
	return t.milestones[idx].ID
}

// RewardRange returns the smallest and largest credit payout, for display
// while the actual variant is still hidden.
func (t *Table) RewardRange() (lo, hi decimal.Decimal) {
	first := true
	for _, m := range t.milestones {
		if m.Reward.Kind != RewardCredits {
			continue
		}
		if first || m.Reward.Amount.LessThan(lo) {
			lo = m.Reward.Amount
		}
		if first || m.Reward.Amount.GreaterThan(hi) {
			hi = m.Reward.Amount
		}
		first = false
	}
	return lo, hi
}
