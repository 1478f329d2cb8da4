package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/D00256764/u-vote-sub002/internal/platform/metrics"
	"github.com/D00256764/u-vote-sub002/internal/platform/middleware"
	"github.com/D00256764/u-vote-sub002/internal/transport/http/shared"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// RouterConfig collects everything the router mounts.
type RouterConfig struct {
	Voting    *VotingHandler
	Ledger    *LedgerHandler
	Validator middleware.TokenValidator
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Health    []HealthChecker
}

// NewRouter wires the public voting surface, the operator surface, and the
// ambient endpoints under one chi router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Latency(cfg.Metrics))
	r.Use(middleware.Tracing)

	r.Route("/v1", func(v1 chi.Router) {
		v1.Group(func(voter chi.Router) {
			voter.Use(middleware.ContentTypeJSON)
			cfg.Voting.Register(voter)
		})
		v1.Group(func(operator chi.Router) {
			operator.Use(middleware.RequireServiceAuth(cfg.Validator, cfg.Logger))
			cfg.Ledger.Register(operator)
		})
	})

	r.Get("/healthz", handleHealth(cfg.Health))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func handleHealth(checkers []HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for _, c := range checkers {
			if err := c.Health(ctx); err != nil {
				shared.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
				})
				return
			}
		}
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
