package orgs

import (
	"time"

	"github.com/trusthub/trusthub/internal/rbac"
)

// Organization represents a regulated entity registered on the platform.
type Organization struct {
	ID        int64
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Membership grants a principal standing within one organization with an
// organization-scoped role. At most one membership exists per
// (principal, organization) pair; the store enforces the uniqueness.
type Membership struct {
	ID      int64        `json:"-"`
	OrgID   int64        `json:"org_id"`
	OrgRole rbac.OrgRole `json:"org_role"`
	OrgName string       `json:"org_name"`
	OrgSlug string       `json:"org_slug"`
}
