package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/studiomosaico/storefront-gateway/api/responses"
	"github.com/studiomosaico/storefront-gateway/pkg/config"
	"github.com/studiomosaico/storefront-gateway/pkg/logger"
)

const readinessTimeout = 5 * time.Second

// Pinger is any dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Gateway-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports per-dependency reachability. A nil pinger means the
// dependency is not configured and is skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, store Pinger, redis Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Gateway-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		ready := true

		checks["store"] = checkDependency(ctx, logg, "store", store)
		if checks["store"] != "ok" {
			ready = false
		}
		if redis != nil {
			checks["redis"] = checkDependency(ctx, logg, "redis", redis)
			if checks["redis"] != "ok" {
				ready = false
			}
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"checks": checks,
		})
	}
}

func checkDependency(ctx context.Context, logg *logger.Logger, name string, p Pinger) string {
	if p == nil {
		return "unavailable"
	}
	if err := p.Ping(ctx); err != nil {
		if logg != nil {
			ctx = logg.WithFields(ctx, map[string]any{"dependency": name, "error": err.Error()})
			logg.Warn(ctx, "readiness check failed")
		}
		return "unreachable"
	}
	return "ok"
}
