package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/trusthub/trusthub/internal/identity"
	"github.com/trusthub/trusthub/internal/observability"
	"github.com/trusthub/trusthub/internal/platform/httpx"
	"github.com/trusthub/trusthub/internal/rbac"
	"github.com/trusthub/trusthub/internal/shared"
)

// TabDropper discards per-session navigation state when a session ends.
// Satisfied by nav.Store.
type TabDropper interface {
	Drop(ctx context.Context, sessionID string) error
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	builder   *identity.Builder
	audit     *shared.AuditLogger
	metrics   *observability.Metrics
	tabs      TabDropper
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, builder *identity.Builder, audit *shared.AuditLogger, metrics *observability.Metrics, tabs TabDropper) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		builder:   builder,
		audit:     audit,
		metrics:   metrics,
		tabs:      tabs,
		validator: validator.New(),
	}
}

// MountRoutes registers the public login route. Paths are given in full:
// the logout route lives in the authenticated group, so the /auth subtree
// cannot be mounted as a single subrouter.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
}

// MountProtectedRoutes registers routes that require an authenticated session.
func (h *Handler) MountProtectedRoutes(r chi.Router) {
	r.Post("/auth/logout", h.handleLogout)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token    string                   `json:"token"`
	Identity identity.SessionIdentity `json:"identity"`
	Landing  string                   `json:"landing"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.metrics.RecordLogin("invalid")
		httpx.RespondError(w, shared.ErrInvalidCredentials)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		// Missing fields fail the same way a wrong password does: the
		// outward signal never hints at which part was wrong.
		h.metrics.RecordLogin("invalid")
		httpx.RespondError(w, shared.ErrInvalidCredentials)
		return
	}

	user, _, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		// Only credential failures collapse into the opaque 401. Store
		// outages and unexpected failures keep their own surface so an
		// infrastructure fault never reads as a bad password.
		if errors.Is(err, shared.ErrInvalidCredentials) {
			h.metrics.RecordLogin("denied")
			httpx.RespondError(w, shared.ErrInvalidCredentials)
			return
		}
		h.logger.Error("login failed", slog.Any("error", err))
		if errors.Is(err, shared.ErrStoreUnavailable) {
			h.metrics.RecordLogin("store_unavailable")
		} else {
			h.metrics.RecordLogin("error")
		}
		httpx.RespondError(w, err)
		return
	}

	id, err := h.builder.Build(r.Context(), user.ID, user.Role, user.IsSystemAccount)
	if err != nil {
		h.logger.Error("build identity", slog.Any("error", err))
		h.metrics.RecordLogin("error")
		httpx.RespondError(w, err)
		return
	}
	token, jti, err := h.builder.Tokens().Issue(id)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		h.metrics.RecordLogin("error")
		httpx.RespondError(w, err)
		return
	}

	expiresAt := time.Now().Add(h.builder.Tokens().TTL())
	if err := h.service.RegisterSession(r.Context(), jti, user.ID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
		h.logger.Warn("register session", slog.Any("error", err))
	}
	if h.audit != nil {
		if err := h.audit.Record(r.Context(), shared.AuditLog{
			ActorID: user.ID,
			Action:  "auth.login",
			OrgID:   id.CurrentOrgID,
		}); err != nil {
			h.logger.Warn("audit login", slog.Any("error", err))
		}
	}

	h.metrics.RecordLogin("success")
	httpx.JSON(w, http.StatusCreated, loginResponse{
		Token:    token,
		Identity: id,
		Landing:  rbac.DefaultLandingRoute(user.Role),
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	if jti, ok := identity.JTIFromContext(r.Context()); ok {
		if err := h.service.RemoveSession(r.Context(), jti); err != nil {
			h.logger.Warn("remove session", slog.Any("error", err))
		}
	}
	// The tab registry dies with the session, not with the redis TTL.
	if h.tabs != nil && id.SessionID != "" {
		if err := h.tabs.Drop(r.Context(), id.SessionID); err != nil {
			h.logger.Warn("drop tab registry", slog.Any("error", err))
		}
	}
	if h.audit != nil {
		if err := h.audit.Record(r.Context(), shared.AuditLog{
			ActorID: id.UserID,
			Action:  "auth.logout",
		}); err != nil {
			h.logger.Warn("audit logout", slog.Any("error", err))
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
