package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/xtding233/luckyboost/internal/catalog"
	"github.com/xtding233/luckyboost/internal/config"
	"github.com/xtding233/luckyboost/internal/game"
	"github.com/xtding233/luckyboost/internal/httpapi"
)

const shutdownTimeout = 10 * time.Second

func main() {
	fx.New(
		Module,
		fx.NopLogger,
		fx.Invoke(runHTTP, runHealth, watchCatalog),
	).Run()
}

func runHTTP(lc fx.Lifecycle, cfg config.AppConfig, st *game.Store, logger zerolog.Logger) {
	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           httpapi.NewRouter(st, cfg.Server, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("http server starting")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal().Err(err).Msg("http server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down http server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("http server shutdown failed")
				return err
			}
			return nil
		},
	})
}

// runHealth serves the standard gRPC health service so orchestrators can
// probe the process.
func runHealth(lc fx.Lifecycle, cfg config.AppConfig, logger zerolog.Logger) {
	if cfg.Server.GRPCAddr == "" {
		return
	}
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
			if err != nil {
				return err
			}
			hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
			go func() {
				logger.Info().Str("addr", cfg.Server.GRPCAddr).Msg("grpc health server starting")
				if err := srv.Serve(lis); err != nil {
					logger.Error().Err(err).Msg("grpc health server stopped")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			hs.Shutdown()
			srv.GracefulStop()
			return nil
		},
	})
}

// watchCatalog hot-reloads the override catalog into the game store. A
// broken file is logged and the running catalog kept.
func watchCatalog(lc fx.Lifecycle, cfg config.AppConfig, loader *catalog.Loader, st *game.Store, logger zerolog.Logger) {
	path := loader.OverridePath()
	if path == "" || cfg.Game.CatalogReload <= 0 {
		return
	}
	w := catalog.NewFileWatcher([]string{path}, cfg.Game.CatalogReload, func(p string) {
		loader.Invalidate()
		cat, err := loader.Load()
		if err != nil {
			logger.Error().Err(err).Str("path", p).Msg("catalog reload rejected")
			return
		}
		st.UpdateCatalog(cat)
	})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			w.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			w.Stop()
			return nil
		},
	})
}
