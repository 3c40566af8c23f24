package orgs_test

import (
	"testing"

	"github.com/trusthub/trusthub/internal/orgs"
	"github.com/trusthub/trusthub/internal/rbac"
)

func orgID(id int64) *int64 { return &id }

func TestCanAccessOrgRegulatorClass(t *testing.T) {
	// Regulator roles are implicit overseers: any target succeeds, with or
	// without membership rows, including a nil target.
	memberships := []orgs.Membership{}
	for _, role := range []rbac.Role{rbac.RoleUKNFAdmin, rbac.RoleUKNFEmployee, rbac.RoleUKNFInstitution} {
		if !orgs.CanAccessOrg(role, memberships, orgID(42)) {
			t.Errorf("%s denied access to arbitrary org", role)
		}
		if !orgs.CanAccessOrg(role, memberships, nil) {
			t.Errorf("%s denied access with nil target", role)
		}
	}
}

func TestCanAccessOrgEntityClass(t *testing.T) {
	memberships := []orgs.Membership{
		{ID: 1, OrgID: 10, OrgRole: rbac.OrgRoleAdmin, OrgName: "Alfa Bank", OrgSlug: "alfa"},
		{ID: 2, OrgID: 20, OrgRole: rbac.OrgRoleUser, OrgName: "Beta Fund", OrgSlug: "beta"},
	}

	if !orgs.CanAccessOrg(rbac.RoleEntityAdmin, memberships, orgID(10)) {
		t.Fatalf("member org denied")
	}
	if orgs.CanAccessOrg(rbac.RoleEntityAdmin, memberships, orgID(30)) {
		t.Fatalf("non-member org allowed")
	}
	if orgs.CanAccessOrg(rbac.RoleEntityAdmin, memberships, nil) {
		t.Fatalf("nil target must always fail for entity-class roles")
	}
	if orgs.CanAccessOrg(rbac.RoleEntityUser, nil, orgID(10)) {
		t.Fatalf("no memberships must deny entity-class access")
	}
}
