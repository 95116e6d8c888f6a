package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type StorageConfig struct {
	// Driver is one of memory, file, sqlite, redis, postgres.
	Driver string `env:"STORAGE_DRIVER" envDefault:"file"`
	// Path is the directory for file, the database file for sqlite.
	Path        string        `env:"STORAGE_PATH" envDefault:"data"`
	RedisAddr   string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPrefix string        `env:"REDIS_PREFIX" envDefault:"luckyboost:"`
	PostgresDSN string        `env:"POSTGRES_DSN"`
	Timeout     time.Duration `env:"STORAGE_TIMEOUT" envDefault:"2s"`
}

func LoadStorage() (StorageConfig, error) {
	var cfg StorageConfig
	err := env.Parse(&cfg)
	return cfg, err
}
