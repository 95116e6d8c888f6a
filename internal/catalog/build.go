package catalog

import (
	"github.com/xtding233/luckyboost/internal/cardgen"
	"github.com/xtding233/luckyboost/internal/luckyboost"
	"github.com/xtding233/luckyboost/internal/money"
	"github.com/xtding233/luckyboost/internal/odds"
)

// Catalog is the engine-ready form of a RawConfig.
type Catalog struct {
	Version    string
	Packs      *odds.Table
	Cards      cardgen.Config
	Milestones *luckyboost.Table
}

// Build validates raw and converts it. Sections left empty fall back to the
// engine defaults.
func Build(raw RawConfig) (Catalog, error) {
	if err := ValidateRaw(raw); err != nil {
		return Catalog{}, err
	}

	cards := cardgen.DefaultConfig()
	if raw.LossRate != nil {
		cards.LossRate = *raw.LossRate
	}
	if len(raw.WinBands) > 0 {
		cards.WinBands = append([]cardgen.Band(nil), raw.WinBands...)
	}
	if len(raw.LossBands) > 0 {
		cards.LossBands = append([]cardgen.Band(nil), raw.LossBands...)
	}
	if len(raw.Names) > 0 {
		cards.Names = make(map[odds.Rarity][]string, len(raw.Names))
		for r, pool := range raw.Names {
			cards.Names[odds.Rarity(r)] = append([]string(nil), pool...)
		}
	}

	var milestones []luckyboost.Milestone
	for _, m := range raw.Milestones {
		amount := money.USD(m.Amount)
		reward := luckyboost.Credits(amount)
		if luckyboost.RewardKind(m.Kind) == luckyboost.RewardGuaranteedPull {
			reward = luckyboost.GuaranteedPull(amount)
		}
		milestones = append(milestones, luckyboost.Milestone{ID: m.ID, Reward: reward, Weight: m.Weight})
	}

	packs := make([]odds.Pack, 0, len(raw.Packs))
	for _, p := range raw.Packs {
		buckets := make([]odds.Bucket, 0, len(p.Odds))
		for _, b := range p.Odds {
			buckets = append(buckets, odds.Bucket{
				Rarity:      odds.Rarity(b.Rarity),
				Probability: b.Probability,
				MinValue:    money.USD(b.MinValue),
				MaxValue:    money.USD(b.MaxValue),
			})
		}
		packs = append(packs, odds.Pack{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       money.USD(p.Price),
			Theme:       odds.Theme(p.Theme),
			Tier:        odds.Tier(p.Tier),
			ImageURL:    p.ImageURL,
			Odds:        buckets,
		})
	}

	return Catalog{
		Version:    raw.Version,
		Packs:      odds.NewTable(packs),
		Cards:      cards,
		Milestones: luckyboost.NewTable(milestones),
	}, nil
}
