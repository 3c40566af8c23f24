package rbac

import (
	"context"
	"net/http"

	"log/slog"

	"github.com/trusthub/trusthub/internal/platform/httpx"
	"github.com/trusthub/trusthub/internal/shared"
)

// RoleResolver extracts the caller's global role from the request context.
// Wired to the session-identity middleware at bootstrap.
type RoleResolver func(ctx context.Context) (Role, bool)

// Middleware wires role and permission guards for HTTP handlers. The
// predicates are total: a failed check is a 401/403 decision, never an error.
type Middleware struct {
	Catalog *Catalog
	Logger  *slog.Logger
	RoleOf  RoleResolver
}

// RequireAny ensures the caller's role derives at least one of the
// required permissions.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(perms) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			role, ok := m.role(r)
			if !ok {
				httpx.RespondError(w, shared.ErrUnauthorized)
				return
			}
			for _, p := range perms {
				if m.Catalog.HasPermission(role, p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			m.deny(r, role)
			httpx.RespondError(w, shared.ErrNoAccess)
		})
	}
}

// RequireAll ensures the caller's role derives every required permission.
func (m Middleware) RequireAll(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := m.role(r)
			if !ok {
				httpx.RespondError(w, shared.ErrUnauthorized)
				return
			}
			for _, p := range perms {
				if !m.Catalog.HasPermission(role, p) {
					m.deny(r, role)
					httpx.RespondError(w, shared.ErrNoAccess)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole ensures the caller ranks at least as high as the required role.
func (m Middleware) RequireRole(required Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := m.role(r)
			if !ok {
				httpx.RespondError(w, shared.ErrUnauthorized)
				return
			}
			if !m.Catalog.HasRole(role, required) {
				m.deny(r, role)
				httpx.RespondError(w, shared.ErrNoAccess)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) role(r *http.Request) (Role, bool) {
	if m.RoleOf == nil {
		return "", false
	}
	return m.RoleOf(r.Context())
}

func (m Middleware) deny(r *http.Request, role Role) {
	if m.Logger != nil {
		m.Logger.Warn("access denied",
			slog.String("path", r.URL.Path),
			slog.String("role", string(role)),
		)
	}
}
