// Package storage persists opaque string blobs by key. The game stores write
// one JSON document per record; any backend that can get and set a string
// works.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/xtding233/luckyboost/internal/config"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// KV is the persistence contract of the stores.
type KV interface {
	// Get returns the value under key; ok is false when the key was never set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Open builds the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) (KV, error) {
	logger.Info().Str("driver", cfg.Driver).Msg("opening storage")

	switch cfg.Driver {
	case "", "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(cfg.Path)
	case "sqlite":
		return NewSQLite(cfg.Path, logger)
	case "redis":
		return NewRedis(ctx, cfg.RedisAddr, cfg.RedisPrefix)
	case "postgres":
		return NewPostgres(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
