package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xtding233/luckyboost/internal/cardgen"
	"github.com/xtding233/luckyboost/internal/luckyboost"
	"github.com/xtding233/luckyboost/internal/odds"
)

var ErrInvalid = errors.New("catalog validation failed")

// ValidateRaw checks semantic constraints of a merged RawConfig and reports
// every violation at once.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	if cfg.LossRate != nil && (*cfg.LossRate < 0 || *cfg.LossRate > 1) {
		errs = append(errs, "loss_rate must be in [0,1]")
	}

	// a win pays at least the pack price, a loss strictly less
	errs = append(errs, validateBands("win_bands", cfg.WinBands, func(b cardgen.Band) bool {
		return b.MinPct >= 1
	}, "min_pct must be >= 1")...)
	errs = append(errs, validateBands("loss_bands", cfg.LossBands, func(b cardgen.Band) bool {
		return b.MaxPct < 1
	}, "max_pct must be < 1")...)

	for r := range cfg.Names {
		if !odds.Rarity(r).Valid() {
			errs = append(errs, fmt.Sprintf("names.%s is not a rarity", r))
		}
	}

	seenMilestone := make(map[int]bool, len(cfg.Milestones))
	for i, m := range cfg.Milestones {
		if seenMilestone[m.ID] {
			errs = append(errs, fmt.Sprintf("milestones[%d]: duplicate id %d", i, m.ID))
		}
		seenMilestone[m.ID] = true
		if !luckyboost.RewardKind(m.Kind).Valid() {
			errs = append(errs, fmt.Sprintf("milestones[%d].kind must be credits or guaranteed_pull", i))
		}
		if m.Amount <= 0 {
			errs = append(errs, fmt.Sprintf("milestones[%d].amount must be > 0", i))
		}
		if m.Weight < 0 {
			errs = append(errs, fmt.Sprintf("milestones[%d].weight must be >= 0", i))
		}
	}

	if len(cfg.Packs) == 0 {
		errs = append(errs, "packs must not be empty")
	}
	seenPack := make(map[string]bool, len(cfg.Packs))
	for i, p := range cfg.Packs {
		if p.ID == "" {
			errs = append(errs, fmt.Sprintf("packs[%d].id is required", i))
		} else if seenPack[p.ID] {
			errs = append(errs, fmt.Sprintf("packs[%d]: duplicate id %q", i, p.ID))
		}
		seenPack[p.ID] = true
		if p.Price <= 0 {
			errs = append(errs, fmt.Sprintf("packs[%d].price must be > 0", i))
		}
		if !odds.Theme(p.Theme).Valid() {
			errs = append(errs, fmt.Sprintf("packs[%d].theme %q is unknown", i, p.Theme))
		}
		if !odds.Tier(p.Tier).Valid() {
			errs = append(errs, fmt.Sprintf("packs[%d].tier %q is unknown", i, p.Tier))
		}
		for j, b := range p.Odds {
			if !odds.Rarity(b.Rarity).Valid() {
				errs = append(errs, fmt.Sprintf("packs[%d].odds[%d].rarity %q is unknown", i, j, b.Rarity))
			}
			if b.Probability < 0 || b.Probability > 1 {
				errs = append(errs, fmt.Sprintf("packs[%d].odds[%d].probability must be in [0,1]", i, j))
			}
			if b.MinValue < 0 || b.MaxValue < b.MinValue {
				errs = append(errs, fmt.Sprintf("packs[%d].odds[%d] must satisfy 0 <= min_value <= max_value", i, j))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}
	return nil
}

func validateBands(section string, bands []cardgen.Band, ok func(cardgen.Band) bool, rule string) []string {
	var errs []string
	var total float64
	for i, b := range bands {
		if !b.Rarity.Valid() {
			errs = append(errs, fmt.Sprintf("%s[%d].rarity %q is unknown", section, i, b.Rarity))
		}
		if b.Weight < 0 {
			errs = append(errs, fmt.Sprintf("%s[%d].weight must be >= 0", section, i))
		}
		total += b.Weight
		if b.MinPct < 0 || b.MaxPct < b.MinPct {
			errs = append(errs, fmt.Sprintf("%s[%d] must satisfy 0 <= min_pct <= max_pct", section, i))
		}
		if !ok(b) {
			errs = append(errs, fmt.Sprintf("%s[%d].%s", section, i, rule))
		}
	}
	if len(bands) > 0 && total <= 0 {
		errs = append(errs, section+" needs a positive weight")
	}
	return errs
}
