package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type GameConfig struct {
	// CatalogPath is an optional YAML file merged over the embedded catalog.
	CatalogPath   string        `env:"CATALOG_PATH"`
	CatalogReload time.Duration `env:"CATALOG_RELOAD_INTERVAL" envDefault:"5s"`

	StartingBalance float64 `env:"STARTING_BALANCE" envDefault:"5000"`
	TopUpAmount     float64 `env:"TOP_UP_AMOUNT" envDefault:"5000"`
}

func LoadGame() (GameConfig, error) {
	var cfg GameConfig
	err := env.Parse(&cfg)
	return cfg, err
}
