// Package httpapi exposes the game store as a JSON API.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/xtding233/luckyboost/internal/config"
	"github.com/xtding233/luckyboost/internal/game"
)

// NewRouter wires every route over st.
func NewRouter(st *game.Store, cfg config.ServerConfig, logger zerolog.Logger) http.Handler {
	h := NewHandlers(st, cfg.MaxSimTrials, cfg.MaxSimBudget)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(RequestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Get("/state", h.State())
	r.Get("/packs", h.Packs())
	r.Get("/packs/{pack_id}", h.Pack())
	r.Post("/packs/{pack_id}/select", h.SelectPack())
	r.Post("/packs/{pack_id}/open", h.OpenPack())
	r.Get("/lucky-boost", h.LuckyBoost())
	r.Post("/lucky-boost/apply", h.ApplyLuckyBoost())
	r.Post("/cards/keep", h.KeepCard())
	r.Post("/cards/sell", h.SellCard())
	r.Post("/rewards/claim", h.ClaimReward())
	r.Post("/rewards/dismiss", h.ClearCreditsDropdown())
	r.Post("/wallet/top-up", h.TopUp())
	r.Post("/navigate", h.Navigate())
	r.Get("/simulate", h.Simulate())

	r.Route("/debug", func(r chi.Router) {
		r.Post("/pack-open", h.SimulatePackOpen())
		r.Post("/lucky-boost/progress", h.SetProgress())
		r.Post("/reset", h.Reset())
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	})
	return c.Handler(r)
}

// RequestLogger logs one line per request with chi's request id.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			reqLogger := logger.With().Str("request_id", chimw.GetReqID(r.Context())).Logger()

			next.ServeHTTP(ww, r.WithContext(reqLogger.WithContext(r.Context())))

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			reqLogger.Info().
				Str("method", r.Method).
				Str("route", route).
				Int("status", ww.Status()).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Msg("request completed")
		})
	}
}
