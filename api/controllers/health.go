package controllers

import (
	"context"
	"net/http"

	"github.com/bodegonapp/storefront-backend/api/responses"
	"github.com/bodegonapp/storefront-backend/pkg/config"
	"github.com/bodegonapp/storefront-backend/pkg/logger"
)

const envHeader = "X-Bodegon-Env"

// Pinger is any dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the cart store and the upstream API. A nil check is
// skipped, which covers the in-memory store.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		statuses := map[string]string{}
		healthy := true
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Ping(r.Context()); err != nil {
				if logg != nil {
					logg.Error(r.Context(), "readiness check failed: "+name, err)
				}
				statuses[name] = "unavailable"
				healthy = false
				continue
			}
			statuses[name] = "ok"
		}

		status := http.StatusOK
		overall := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			overall = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": overall,
			"checks": statuses,
		})
	}
}
