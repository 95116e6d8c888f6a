// Package catalog loads the pack catalog and engine tuning from YAML: the
// embedded default merged with an optional override file.
package catalog

import "github.com/xtding233/luckyboost/internal/cardgen"

// RawConfig mirrors the YAML schema before validation.
type RawConfig struct {
	Version    string              `yaml:"version"`
	Notes      string              `yaml:"notes,omitempty"`
	LossRate   *float64            `yaml:"loss_rate,omitempty"`
	WinBands   []cardgen.Band      `yaml:"win_bands,omitempty"`
	LossBands  []cardgen.Band      `yaml:"loss_bands,omitempty"`
	Names      map[string][]string `yaml:"names,omitempty"`
	Milestones []RawMilestone      `yaml:"milestones,omitempty"`
	Packs      []RawPack           `yaml:"packs,omitempty"`
}

type RawMilestone struct {
	ID     int     `yaml:"id"`
	Kind   string  `yaml:"kind"` // "credits" | "guaranteed_pull"
	Amount float64 `yaml:"amount"`
	Weight float64 `yaml:"weight"`
}

type RawPack struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Price       float64     `yaml:"price"`
	Theme       string      `yaml:"theme"`
	Tier        string      `yaml:"tier"`
	ImageURL    string      `yaml:"image_url,omitempty"`
	Odds        []RawBucket `yaml:"odds"`
}

type RawBucket struct {
	Rarity      string  `yaml:"rarity"`
	Probability float64 `yaml:"probability"`
	MinValue    float64 `yaml:"min_value"`
	MaxValue    float64 `yaml:"max_value"`
}
