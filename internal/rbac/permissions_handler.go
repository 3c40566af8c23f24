package rbac

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trusthub/trusthub/internal/platform/httpx"
	"github.com/trusthub/trusthub/internal/shared"
)

// PermissionsHandler exposes the caller's effective permission set.
type PermissionsHandler struct {
	logger  *slog.Logger
	catalog *Catalog
	roleOf  RoleResolver
}

// NewPermissionsHandler builds PermissionsHandler instance.
func NewPermissionsHandler(logger *slog.Logger, catalog *Catalog, roleOf RoleResolver) *PermissionsHandler {
	return &PermissionsHandler{logger: logger, catalog: catalog, roleOf: roleOf}
}

// MountRoutes registers permission routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Get("/me", h.myPermissions)
}

type permissionsResponse struct {
	Role         string   `json:"role"`
	Regulator    bool     `json:"regulator"`
	Permissions  []string `json:"permissions"`
	LandingRoute string   `json:"landing_route"`
}

func (h *PermissionsHandler) myPermissions(w http.ResponseWriter, r *http.Request) {
	role, ok := h.roleOf(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	httpx.JSON(w, http.StatusOK, permissionsResponse{
		Role:         string(role),
		Regulator:    IsRegulator(role),
		Permissions:  h.catalog.PermissionsFor(role),
		LandingRoute: DefaultLandingRoute(role),
	})
}
