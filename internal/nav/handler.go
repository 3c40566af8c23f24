package nav

import (
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/trusthub/trusthub/internal/identity"
	"github.com/trusthub/trusthub/internal/platform/httpx"
	"github.com/trusthub/trusthub/internal/shared"
)

// Handler exposes the session tab registry over HTTP.
type Handler struct {
	logger    *slog.Logger
	store     *Store
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, store *Store) *Handler {
	return &Handler{logger: logger, store: store, validator: validator.New()}
}

// MountRoutes registers tab registry routes. Requires the session identity
// middleware upstream.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/tabs", h.listTabs)
	r.Post("/tabs", h.openTab)
	r.Post("/tabs/{id}/activate", h.activateTab)
	r.Delete("/tabs/{id}", h.closeTab)
}

type tabsResponse struct {
	Tabs       []Tab  `json:"tabs"`
	ActiveID   string `json:"active_id,omitempty"`
	NavigateTo string `json:"navigate_to,omitempty"`
}

func (h *Handler) listTabs(w http.ResponseWriter, r *http.Request) {
	reg, _, ok := h.loadRegistry(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, tabsResponse{Tabs: reg.Visible(), ActiveID: reg.ActiveID})
}

type openTabRequest struct {
	Path string `json:"path" validate:"required"`
}

func (h *Handler) openTab(w http.ResponseWriter, r *http.Request) {
	reg, sessionID, ok := h.loadRegistry(w, r)
	if !ok {
		return
	}

	var req openTabRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	// Unmapped or inaccessible paths are a silent no-op: the registry is
	// unchanged and the current tab set is returned as-is.
	if _, opened := reg.Open(req.Path); opened {
		if err := h.store.Save(r.Context(), sessionID, reg); err != nil {
			h.logger.Error("save registry", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, tabsResponse{Tabs: reg.Visible(), ActiveID: reg.ActiveID})
}

func (h *Handler) activateTab(w http.ResponseWriter, r *http.Request) {
	reg, sessionID, ok := h.loadRegistry(w, r)
	if !ok {
		return
	}
	if reg.Activate(chi.URLParam(r, "id")) {
		if err := h.store.Save(r.Context(), sessionID, reg); err != nil {
			h.logger.Error("save registry", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, tabsResponse{Tabs: reg.Visible(), ActiveID: reg.ActiveID})
}

func (h *Handler) closeTab(w http.ResponseWriter, r *http.Request) {
	reg, sessionID, ok := h.loadRegistry(w, r)
	if !ok {
		return
	}
	navigateTo, closed := reg.Close(chi.URLParam(r, "id"))
	if closed {
		if err := h.store.Save(r.Context(), sessionID, reg); err != nil {
			h.logger.Error("save registry", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, tabsResponse{Tabs: reg.Visible(), ActiveID: reg.ActiveID, NavigateTo: navigateTo})
}

func (h *Handler) loadRegistry(w http.ResponseWriter, r *http.Request) (*Registry, string, bool) {
	id, ok := identity.FromContext(r.Context())
	if !ok || id.SessionID == "" {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return nil, "", false
	}
	// Keyed by the stable session id, not the token JTI: an organization
	// switch reissues the token but must not reset the open tabs.
	reg, err := h.store.Load(r.Context(), id.SessionID, id.Role)
	if err != nil {
		h.logger.Error("load registry", slog.Any("error", err))
		httpx.RespondError(w, err)
		return nil, "", false
	}
	return reg, id.SessionID, true
}
