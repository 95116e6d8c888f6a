package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	GRPCAddr string `env:"GRPC_ADDR" envDefault:":9090"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// MaxSimTrials caps GET /simulate.
	MaxSimTrials int `env:"SIM_MAX_TRIALS" envDefault:"100000"`
	// MaxSimBudget caps the opens per trial of the budget goals.
	MaxSimBudget int `env:"SIM_MAX_BUDGET" envDefault:"10000"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
