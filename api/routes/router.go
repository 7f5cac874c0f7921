package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campuskit/membership-backend/api/controllers"
	"github.com/campuskit/membership-backend/api/middleware"
	"github.com/campuskit/membership-backend/internal/invitations"
	"github.com/campuskit/membership-backend/internal/memberships"
	"github.com/campuskit/membership-backend/internal/teams"
	"github.com/campuskit/membership-backend/internal/users"
	"github.com/campuskit/membership-backend/pkg/config"
	"github.com/campuskit/membership-backend/pkg/db"
	"github.com/campuskit/membership-backend/pkg/logger"
)

// Services groups the domain services the router mounts endpoints for.
type Services struct {
	Users       users.Service
	Teams       teams.Service
	Memberships memberships.Service
	Invitations invitations.Service
}

// NewRouter assembles the operational HTTP surface: liveness,
// readiness, and metrics. Domain endpoints attach to the same router as
// they come online.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	return r
}
