package controllers

import (
	"net/http"

	"github.com/graamkart/graamkart-backend/api/responses"
	"github.com/graamkart/graamkart-backend/pkg/config"
	"github.com/graamkart/graamkart-backend/pkg/db"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
	"github.com/graamkart/graamkart-backend/pkg/logger"
	"github.com/graamkart/graamkart-backend/pkg/redis"
)

// HealthLive answers as soon as the process serves traffic.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-GraamKart-Env", cfg.App.Env)
		responses.WriteSuccess(w, "Service is live.", map[string]string{"status": "live"})
	}
}

// HealthReady pings the hard dependencies; a failing database or redis
// makes the instance unready.
func HealthReady(cfg *config.Config, database db.Pinger, cache redis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-GraamKart-Env", cfg.App.Env)

		checks := map[string]string{"database": "ok", "redis": "ok"}

		if database == nil {
			checks["database"] = "unconfigured"
		} else if err := database.Ping(ctx); err != nil {
			checks["database"] = "down"
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database is unreachable").WithDetails(map[string]any{"checks": checks}))
			return
		}

		if cache == nil {
			checks["redis"] = "unconfigured"
		} else if err := cache.Ping(ctx); err != nil {
			checks["redis"] = "down"
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis is unreachable").WithDetails(map[string]any{"checks": checks}))
			return
		}

		responses.WriteSuccess(w, "Service is ready.", checks)
	}
}
