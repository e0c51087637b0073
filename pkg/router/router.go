package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	roleapi "github.com/tendant/simple-directory/pkg/role/api"
	userapi "github.com/tendant/simple-directory/pkg/user/api"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds the handlers and dependencies needed to set up routes
type Config struct {
	RoleHandler *roleapi.Handler
	UserHandler *userapi.Handler

	// DB is used by the health endpoint to verify store connectivity.
	// Optional: when nil the health endpoint only reports process liveness.
	DB Pinger
}

// SetupRoutes mounts all directory routes on the provided router.
// Routes are registered inside a group so the metrics middleware only
// wraps directory routes; callers may already have routes on r.
func SetupRoutes(r chi.Router, cfg Config) {
	r.Group(func(r chi.Router) {
		r.Use(Metrics)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, map[string]string{
				"message": "Welcome to Simple Directory",
				"docs":    "/roles/",
			})
		})

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			if cfg.DB != nil {
				if err := cfg.DB.Ping(r.Context()); err != nil {
					render.Status(r, http.StatusServiceUnavailable)
					render.JSON(w, r, map[string]string{"status": "unavailable"})
					return
				}
			}
			render.JSON(w, r, map[string]string{"status": "ok"})
		})

		r.Method("GET", "/metrics", promhttp.Handler())

		cfg.RoleHandler.RegisterRoutes(r)
		cfg.UserHandler.RegisterRoutes(r)
	})
}
