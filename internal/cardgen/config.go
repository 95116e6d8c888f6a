package cardgen

import "github.com/xtding233/luckyboost/internal/odds"

// DefaultLossRate is the share of pack opens that return less than the pack
// price. It is decided before any value roll so the global win rate holds
// regardless of band layout.
const DefaultLossRate = 0.80

// Band is one price-relative value range. MinPct and MaxPct are fractions of
// the pack price (1.09 = 109%).
type Band struct {
	Rarity odds.Rarity `yaml:"rarity" json:"rarity"`
	Weight float64     `yaml:"weight" json:"weight"`
	MinPct float64     `yaml:"min_pct" json:"minPct"`
	MaxPct float64     `yaml:"max_pct" json:"maxPct"`
}

// Config carries every tunable of the generator.
type Config struct {
	LossRate  float64
	WinBands  []Band
	LossBands []Band
	Names     map[odds.Rarity][]string
}

// FallbackName is used when a rarity has no name pool.
const FallbackName = "Unknown Card"

func DefaultWinBands() []Band {
	return []Band{
		{Rarity: odds.Epic, Weight: 0.80, MinPct: 1.00, MaxPct: 1.09},
		{Rarity: odds.Legendary, Weight: 0.10, MinPct: 1.10, MaxPct: 1.80},
		{Rarity: odds.Mythic, Weight: 0.10, MinPct: 1.90, MaxPct: 3.00},
	}
}

func DefaultLossBands() []Band {
	return []Band{
		{Rarity: odds.Common, Weight: 0.60, MinPct: 0.00, MaxPct: 0.15},
		{Rarity: odds.Rare, Weight: 0.20, MinPct: 0.25, MaxPct: 0.40},
		{Rarity: odds.Epic, Weight: 0.20, MinPct: 0.50, MaxPct: 0.70},
	}
}

func DefaultNames() map[odds.Rarity][]string {
	return map[odds.Rarity][]string{
		odds.Common: {
			"Basic Warrior", "Novice Mage", "Young Scout", "Apprentice Knight",
			"Rookie Guard", "Trainee Archer", "Fresh Recruit", "Beginner Hero",
		},
		odds.Rare: {
			"Veteran Warrior", "Experienced Mage", "Elite Scout", "Seasoned Knight",
			"Skilled Guard", "Master Archer", "Battle Veteran", "Heroic Warrior",
		},
		odds.Epic: {
			"Champion Warrior", "Archmage", "Shadow Scout", "Dragon Knight",
			"Royal Guard", "Elite Archer", "War Hero", "Legendary Warrior",
		},
		odds.Legendary: {
			"Dragon Slayer", "Grand Archmage", "Shadow Master", "Dragon Lord",
			"Royal Champion", "Elite Master", "War Legend", "Mythic Warrior",
		},
		odds.Mythic: {
			"Ancient Dragon", "God of War", "Eternal Phoenix", "Cosmic Guardian",
			"Divine Emperor", "Infinite Void", "Celestial Being", "Primordial Force",
		},
	}
}

// DefaultConfig is the 20% win rate tuning.
func DefaultConfig() Config {
	return Config{
		LossRate:  DefaultLossRate,
		WinBands:  DefaultWinBands(),
		LossBands: DefaultLossBands(),
		Names:     DefaultNames(),
	}
}

// normalize fills missing sections from the defaults and clamps the loss
// rate into [0,1].
func (c Config) normalize() Config {
	if c.LossRate < 0 || c.LossRate > 1 || c.LossRate != c.LossRate {
		c.LossRate = DefaultLossRate
	}
	if len(c.WinBands) == 0 {
		c.WinBands = DefaultWinBands()
	}
	if len(c.LossBands) == 0 {
		c.LossBands = DefaultLossBands()
	}
	if c.Names == nil {
		c.Names = DefaultNames()
	}
	return c
}

// WinRate is 1 - LossRate.
func (c Config) WinRate() float64 { return 1 - c.LossRate }
