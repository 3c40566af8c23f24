package identity

import (
	"context"
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/trusthub/trusthub/internal/orgs"
	"github.com/trusthub/trusthub/internal/platform/httpx"
	"github.com/trusthub/trusthub/internal/rbac"
	"github.com/trusthub/trusthub/internal/shared"
)

// SessionRecorder persists session metadata for newly issued tokens.
type SessionRecorder interface {
	RegisterSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error
}

// Handler wires HTTP endpoints that operate on the current session identity.
type Handler struct {
	logger    *slog.Logger
	builder   *Builder
	resolver  *orgs.Resolver
	sessions  SessionRecorder
	audit     *shared.AuditLogger
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, builder *Builder, resolver *orgs.Resolver, sessions SessionRecorder, audit *shared.AuditLogger) *Handler {
	return &Handler{
		logger:    logger,
		builder:   builder,
		resolver:  resolver,
		sessions:  sessions,
		audit:     audit,
		validator: validator.New(),
	}
}

// MountRoutes registers identity routes on the provided router. The caller
// is expected to have installed the Authenticator middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/me", h.me)
	r.Get("/organizations", h.listOrganizations)
	r.Post("/switch-organization", h.switchOrganization)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	id, ok := FromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	httpx.JSON(w, http.StatusOK, id)
}

type organizationView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// listOrganizations returns the organizations the caller may act within:
// the full register for regulator-class roles, its own memberships otherwise.
func (h *Handler) listOrganizations(w http.ResponseWriter, r *http.Request) {
	id, ok := FromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}

	if rbac.IsRegulator(id.Role) {
		all, err := h.resolver.ListOrganizations(r.Context())
		if err != nil {
			h.logger.Error("list organizations", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		views := make([]organizationView, 0, len(all))
		for _, org := range all {
			views = append(views, organizationView{ID: org.ID, Name: org.Name, Slug: org.Slug})
		}
		httpx.JSON(w, http.StatusOK, views)
		return
	}

	views := make([]organizationView, 0, len(id.Memberships))
	for _, m := range id.Memberships {
		views = append(views, organizationView{ID: m.OrgID, Name: m.OrgName, Slug: m.OrgSlug})
	}
	httpx.JSON(w, http.StatusOK, views)
}

type switchRequest struct {
	OrgID int64 `json:"org_id" validate:"required,gt=0"`
}

type switchResponse struct {
	Success      bool             `json:"success"`
	Organization organizationView `json:"organization"`
	Token        string           `json:"token"`
}

func (h *Handler) switchOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := FromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}

	var req switchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	result, err := h.builder.SwitchOrganization(r.Context(), id, req.OrgID)
	if err != nil {
		if !errors.Is(err, shared.ErrNoAccess) && !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("switch organization", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	if h.sessions != nil {
		expiresAt := time.Now().Add(h.builder.Tokens().TTL())
		if err := h.sessions.RegisterSession(r.Context(), result.JTI, id.UserID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
			h.logger.Warn("register switched session", slog.Any("error", err))
		}
	}
	if h.audit != nil {
		if err := h.audit.Record(r.Context(), shared.AuditLog{
			ActorID:       id.UserID,
			ActorIsSystem: id.IsSystemAccount,
			Action:        "identity.switch_organization",
			OrgID:         &req.OrgID,
		}); err != nil {
			h.logger.Warn("audit switch", slog.Any("error", err))
		}
	}

	httpx.JSON(w, http.StatusOK, switchResponse{
		Success: true,
		Organization: organizationView{
			ID:   result.Organization.ID,
			Name: result.Organization.Name,
			Slug: result.Organization.Slug,
		},
		Token: result.Token,
	})
}
