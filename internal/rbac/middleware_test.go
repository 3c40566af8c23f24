package rbac_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/trusthub/trusthub/internal/rbac"
	"github.com/trusthub/trusthub/internal/shared"
)

func fixedRole(role rbac.Role) rbac.RoleResolver {
	return func(ctx context.Context) (rbac.Role, bool) {
		return role, true
	}
}

func noRole(ctx context.Context) (rbac.Role, bool) {
	return "", false
}

func serveGuarded(t *testing.T, guard func(http.Handler) http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	guard(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	return rec
}

func TestRequireAllNeedsEveryPermission(t *testing.T) {
	catalog := newCatalog(t)

	cases := []struct {
		name string
		role rbac.Role
		want int
	}{
		{"role with full pair passes", rbac.RoleEntityAdmin, http.StatusOK},
		{"role missing one permission is denied", rbac.RoleUKNFEmployee, http.StatusForbidden},
		{"role missing all permissions is denied", rbac.RoleEntityUser, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			guard := rbac.Middleware{Catalog: catalog, RoleOf: fixedRole(tc.role)}
			rec := serveGuarded(t, guard.RequireAll(shared.PermUsersView, shared.PermUsersManage))
			if rec.Code != tc.want {
				t.Fatalf("role %s: got status %d, want %d", tc.role, rec.Code, tc.want)
			}
		})
	}
}

func TestRequireAllWithoutIdentityIs401(t *testing.T) {
	guard := rbac.Middleware{Catalog: newCatalog(t), RoleOf: noRole}
	rec := serveGuarded(t, guard.RequireAll(shared.PermUsersView))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAnyPassesOnSinglePermission(t *testing.T) {
	guard := rbac.Middleware{Catalog: newCatalog(t), RoleOf: fixedRole(rbac.RoleUKNFEmployee)}

	// Employee lacks users.manage but holds users.view.
	rec := serveGuarded(t, guard.RequireAny(shared.PermUsersManage, shared.PermUsersView))
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRequireRoleDeniesLowerRank(t *testing.T) {
	guard := rbac.Middleware{Catalog: newCatalog(t), RoleOf: fixedRole(rbac.RoleEntityAdmin)}
	rec := serveGuarded(t, guard.RequireRole(rbac.RoleUKNFAdmin))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusForbidden)
	}
}
