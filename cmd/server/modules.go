package main

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/xtding233/luckyboost/internal/catalog"
	"github.com/xtding233/luckyboost/internal/config"
	"github.com/xtding233/luckyboost/internal/game"
	"github.com/xtding233/luckyboost/internal/logging"
	"github.com/xtding233/luckyboost/internal/luckyboost"
	"github.com/xtding233/luckyboost/internal/money"
	"github.com/xtding233/luckyboost/internal/storage"
)

var Module = fx.Options(
	fx.Provide(config.LoadApp),
	fx.Provide(ProvideLogger),
	fx.Provide(ProvideKV),
	// catalog
	fx.Provide(ProvideLoader),
	fx.Provide(ProvideCatalog),
	// stores
	fx.Provide(ProvideLuckyBoost),
	fx.Provide(ProvideGame),
)

func ProvideLogger(cfg config.AppConfig) zerolog.Logger {
	return logging.New(cfg.Log)
}

func ProvideKV(lc fx.Lifecycle, cfg config.AppConfig, logger zerolog.Logger) (storage.KV, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Storage.Timeout)
	defer cancel()
	kv, err := storage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if err := kv.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing storage")
			}
			return nil
		},
	})
	return kv, nil
}

func ProvideLoader(cfg config.AppConfig) *catalog.Loader {
	return catalog.NewLoader(cfg.Game.CatalogPath)
}

func ProvideCatalog(l *catalog.Loader, logger zerolog.Logger) (catalog.Catalog, error) {
	cat, err := l.Load()
	if err != nil {
		return catalog.Catalog{}, err
	}
	logger.Info().Str("version", cat.Version).Int("packs", cat.Packs.Len()).Msg("catalog loaded")
	return cat, nil
}

func ProvideLuckyBoost(kv storage.KV, cat catalog.Catalog, cfg config.AppConfig, logger zerolog.Logger) *luckyboost.Store {
	return luckyboost.NewStore(kv, cat.Milestones, logger, luckyboost.WithTimeout(cfg.Storage.Timeout))
}

func ProvideGame(kv storage.KV, cat catalog.Catalog, boost *luckyboost.Store, cfg config.AppConfig, logger zerolog.Logger) *game.Store {
	return game.NewStore(kv, cat, boost, logger,
		game.WithStartingBalance(money.USD(cfg.Game.StartingBalance)),
		game.WithTopUpAmount(money.USD(cfg.Game.TopUpAmount)),
		game.WithTimeout(cfg.Storage.Timeout),
	)
}
