package rbac_test

import (
	"reflect"
	"testing"

	"github.com/trusthub/trusthub/internal/rbac"
	"github.com/trusthub/trusthub/internal/shared"
)

func newCatalog(t *testing.T) *rbac.Catalog {
	t.Helper()
	catalog, err := rbac.NewCatalog()
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	return catalog
}

func TestPermissionsForEveryRoleNonEmptyAndDeterministic(t *testing.T) {
	catalog := newCatalog(t)
	for _, role := range rbac.Roles() {
		first := catalog.PermissionsFor(role)
		if len(first) == 0 {
			t.Fatalf("role %s has empty permission set", role)
		}
		second := catalog.PermissionsFor(role)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("role %s permissions not deterministic: %v vs %v", role, first, second)
		}
	}
}

func TestRankTieDoesNotImplyPermissionEquality(t *testing.T) {
	catalog := newCatalog(t)

	// uknf_employee and uknf_institution are mutually satisfying by rank.
	if !catalog.HasRole(rbac.RoleUKNFEmployee, rbac.RoleUKNFInstitution) {
		t.Fatalf("expected employee to satisfy institution by rank")
	}
	if !catalog.HasRole(rbac.RoleUKNFInstitution, rbac.RoleUKNFEmployee) {
		t.Fatalf("expected institution to satisfy employee by rank")
	}

	employee := catalog.PermissionsFor(rbac.RoleUKNFEmployee)
	institution := catalog.PermissionsFor(rbac.RoleUKNFInstitution)
	if reflect.DeepEqual(employee, institution) {
		t.Fatalf("tied roles must be allowed to differ in permissions; catalog makes them equal")
	}
}

func TestHasRoleOrdering(t *testing.T) {
	catalog := newCatalog(t)
	cases := []struct {
		actual   rbac.Role
		required rbac.Role
		want     bool
	}{
		{rbac.RoleUKNFAdmin, rbac.RoleUKNFEmployee, true},
		{rbac.RoleUKNFAdmin, rbac.RoleEntityUser, true},
		{rbac.RoleUKNFEmployee, rbac.RoleUKNFAdmin, false},
		{rbac.RoleEntityAdmin, rbac.RoleEntityUser, true},
		{rbac.RoleEntityUser, rbac.RoleEntityAdmin, false},
		{rbac.RoleEntityAdmin, rbac.RoleUKNFInstitution, false},
		{rbac.Role("ghost"), rbac.RoleEntityUser, false},
		{rbac.RoleEntityUser, rbac.Role("ghost"), false},
	}
	for _, tc := range cases {
		if got := catalog.HasRole(tc.actual, tc.required); got != tc.want {
			t.Errorf("HasRole(%s, %s) = %v, want %v", tc.actual, tc.required, got, tc.want)
		}
	}
}

func TestClassifiersPartitionRoles(t *testing.T) {
	for _, role := range rbac.Roles() {
		regulator := rbac.IsRegulator(role)
		entity := rbac.IsEntityRole(role)
		if regulator == entity {
			t.Errorf("role %s must belong to exactly one class (regulator=%v entity=%v)", role, regulator, entity)
		}
	}
	if rbac.IsRegulator("ghost") || rbac.IsEntityRole("ghost") {
		t.Errorf("unknown role must not classify into either class")
	}
}

func TestHasPermission(t *testing.T) {
	catalog := newCatalog(t)
	if !catalog.HasPermission(rbac.RoleEntityUser, shared.PermReportsSubmit) {
		t.Fatalf("entity_user should submit reports")
	}
	if catalog.HasPermission(rbac.RoleEntityUser, shared.PermUsersManage) {
		t.Fatalf("entity_user must not manage users")
	}
	if catalog.HasPermission(rbac.Role("ghost"), shared.PermReportsSubmit) {
		t.Fatalf("unknown role must derive nothing")
	}
}

func TestDefaultLandingRoutePerClass(t *testing.T) {
	if got := rbac.DefaultLandingRoute(rbac.RoleUKNFEmployee); got != "/uknf/dashboard" {
		t.Fatalf("regulator landing route = %s", got)
	}
	if got := rbac.DefaultLandingRoute(rbac.RoleEntityAdmin); got != "/entity/dashboard" {
		t.Fatalf("entity landing route = %s", got)
	}
}
