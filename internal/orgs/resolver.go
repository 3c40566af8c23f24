package orgs

import (
	"context"

	"github.com/trusthub/trusthub/internal/rbac"
)

// Resolver interprets membership rows: which organizations a principal
// belongs to and whether it may act on a target organization.
type Resolver struct {
	repo Repository
}

// NewResolver constructs a Resolver.
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// ResolveMemberships returns the principal's memberships in pinned order
// (ascending membership id). An empty result is valid: a regulator
// principal may hold zero memberships and still access everything.
func (r *Resolver) ResolveMemberships(ctx context.Context, userID int64) ([]Membership, error) {
	return r.repo.ListMembershipsForUser(ctx, userID)
}

// CanAccessOrg decides whether a principal with the given global role and
// resolved memberships may act on the target organization. Total function:
// it never fails, callers decide the consequence.
//
// Regulator-class roles are global overseers and satisfy any target,
// including a nil one. Entity-class roles require a non-nil target among
// their membership org ids.
func CanAccessOrg(role rbac.Role, memberships []Membership, targetOrgID *int64) bool {
	if rbac.IsRegulator(role) {
		return true
	}
	if targetOrgID == nil {
		return false
	}
	for _, m := range memberships {
		if m.OrgID == *targetOrgID {
			return true
		}
	}
	return false
}

// ListOrganizations exposes the full organization register.
func (r *Resolver) ListOrganizations(ctx context.Context) ([]Organization, error) {
	return r.repo.ListOrganizations(ctx)
}

// GetOrganization fetches one organization's public fields.
func (r *Resolver) GetOrganization(ctx context.Context, id int64) (*Organization, error) {
	return r.repo.GetOrganization(ctx, id)
}
