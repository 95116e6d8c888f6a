// Package sim runs Monte Carlo estimates over the card generator and the
// Lucky Boost meter arithmetic, without touching any store.
package sim

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/xtding233/luckyboost/internal/cardgen"
	"github.com/xtding233/luckyboost/internal/gacha"
	"github.com/xtding233/luckyboost/internal/luckyboost"
	"github.com/xtding233/luckyboost/internal/money"
	"github.com/xtding233/luckyboost/internal/odds"
)

// TrialGoal selects what the simulation measures per trial.
type TrialGoal string

const (
	// Pack opens until the meter first fills.
	GoalFirstMilestone TrialGoal = "first_milestone"
	// Meter fills within a budget of opens, claiming each one at once.
	GoalMilestonesInBudget TrialGoal = "milestones_in_budget"
	// Opens returning at least the pack price within a budget of opens.
	GoalWinsInBudget TrialGoal = "wins_in_budget"
)

// MaxOpensPerTrial bounds GoalFirstMilestone.
const MaxOpensPerTrial = 1_000_000

var (
	ErrUnknownGoal = errors.New("unknown trial goal")
	ErrUnreachable = errors.New("meter never fills for this pack")
)

func (g TrialGoal) Valid() bool {
	switch g {
	case GoalFirstMilestone, GoalMilestonesInBudget, GoalWinsInBudget:
		return true
	}
	return false
}

// SimParams describes the mechanics for one simulation run.
type SimParams struct {
	Pack  odds.Pack
	Cards cardgen.Config

	// StartProgress is meter progress carried into each trial.
	StartProgress decimal.Decimal

	// Seed makes the run reproducible; 0 uses the crypto source.
	Seed uint64
}

// SimBudget controls the number of opens used by the budget goals.
type SimBudget struct {
	NumOpens int
}

func (p SimParams) generator() *cardgen.Generator {
	rng := gacha.DefaultRNG()
	if p.Seed != 0 {
		rng = gacha.NewSeededRNG(p.Seed)
	}
	return cardgen.New(p.Cards, rng)
}

func (p SimParams) meter() luckyboost.Meter {
	m := luckyboost.NewMeter()
	m.Progress = money.Clamp(p.StartProgress, decimal.Zero, m.Max)
	return m
}

// simulateOne returns the metric of one trial.
func simulateOne(p SimParams, gen *cardgen.Generator, goal TrialGoal, budget *SimBudget) (int, error) {
	m := p.meter()

	switch goal {
	case GoalFirstMilestone:
		if gen.Config().LossRate <= 0 {
			return 0, ErrUnreachable
		}
		for opens := 1; opens <= MaxOpensPerTrial; opens++ {
			card := gen.Generate(p.Pack, nil)
			var crossed bool
			m, crossed = m.Add(luckyboost.CalculateProgress(p.Pack.Price, card.Value))
			if crossed || m.Reached() {
				return opens, nil
			}
		}
		return 0, ErrUnreachable

	case GoalMilestonesInBudget:
		if budget == nil || budget.NumOpens <= 0 {
			return 0, nil
		}
		count := 0
		for i := 0; i < budget.NumOpens; i++ {
			card := gen.Generate(p.Pack, nil)
			m, _ = m.Add(luckyboost.CalculateProgress(p.Pack.Price, card.Value))
			// one loss can fill the meter more than once
			for m.Reached() {
				count++
				m = m.Claim()
			}
		}
		return count, nil

	case GoalWinsInBudget:
		if budget == nil || budget.NumOpens <= 0 {
			return 0, nil
		}
		count := 0
		for i := 0; i < budget.NumOpens; i++ {
			card := gen.Generate(p.Pack, nil)
			if luckyboost.IsWin(p.Pack.Price, card.Value) {
				count++
			}
		}
		return count, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownGoal, goal)
}

// RunMonteCarlo repeats trials and returns summary stats.
// goal determines what metric is recorded per trial.
func RunMonteCarlo(p SimParams, goal TrialGoal, trials int, budget *SimBudget) (Stats, error) {
	if !goal.Valid() {
		return Stats{}, fmt.Errorf("%w: %q", ErrUnknownGoal, goal)
	}
	if trials <= 0 {
		return Stats{}, nil
	}
	gen := p.generator()
	samples := make([]int, trials)
	for i := 0; i < trials; i++ {
		v, err := simulateOne(p, gen, goal, budget)
		if err != nil {
			return Stats{}, err
		}
		samples[i] = v
	}
	return calcStats(samples), nil
}

// ReturnToPlayer is total card value over total spend across opens.
func ReturnToPlayer(p SimParams, opens int) float64 {
	if opens <= 0 || !p.Pack.Price.IsPositive() {
		return 0
	}
	gen := p.generator()
	total := decimal.Zero
	for i := 0; i < opens; i++ {
		total = total.Add(gen.Generate(p.Pack, nil).Value)
	}
	spent := p.Pack.Price.Mul(decimal.NewFromInt(int64(opens)))
	rtp, _ := total.Div(spent).Float64()
	return rtp
}
