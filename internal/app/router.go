package app

import (
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/trusthub/trusthub/internal/auth"
	"github.com/trusthub/trusthub/internal/identity"
	"github.com/trusthub/trusthub/internal/nav"
	"github.com/trusthub/trusthub/internal/observability"
	"github.com/trusthub/trusthub/internal/rbac"
	"github.com/trusthub/trusthub/internal/users"
	"github.com/trusthub/trusthub/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	Authenticator      identity.Authenticator
	AuthHandler        *auth.Handler
	IdentityHandler    *identity.Handler
	NavHandler         *nav.Handler
	UsersHandler       *users.Handler
	PermissionsHandler *rbac.PermissionsHandler
	JobsHandler        *jobs.Handler
	Guard              rbac.Middleware
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with TrustHub defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	params.AuthHandler.MountRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(params.Authenticator.Middleware)

		r.Route("/identity", params.IdentityHandler.MountRoutes)
		r.Route("/nav", params.NavHandler.MountRoutes)
		params.AuthHandler.MountProtectedRoutes(r)
		if params.UsersHandler != nil {
			r.Route("/users", params.UsersHandler.MountRoutes)
		}
		if params.PermissionsHandler != nil {
			r.Route("/permissions", params.PermissionsHandler.MountRoutes)
		}
		if params.JobsHandler != nil {
			r.Group(func(r chi.Router) {
				r.Use(params.Guard.RequireRole(rbac.RoleUKNFAdmin))
				r.Route("/jobs", params.JobsHandler.MountRoutes)
			})
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
