package identity

import (
	"github.com/trusthub/trusthub/internal/orgs"
	"github.com/trusthub/trusthub/internal/rbac"
)

// SessionIdentity is the derived, token-carried view of a principal for the
// life of one session: who it is, its global role, the organizations it may
// act within, and the organization it is currently acting as.
//
// It is a value: operations that change it return a new identity rather
// than mutating in place, so concurrent readers only ever observe a prior
// or a new identity, never a partial one.
type SessionIdentity struct {
	// SessionID is stable for the life of one browser session: token
	// reissuance (organization switch) preserves it, so session-scoped
	// state like the tab registry survives.
	SessionID       string            `json:"sid,omitempty"`
	UserID          int64             `json:"user_id"`
	Role            rbac.Role         `json:"role"`
	IsSystemAccount bool              `json:"is_system_account"`
	Memberships     []orgs.Membership `json:"memberships"`
	CurrentOrgID    *int64            `json:"current_org_id"`
}

// withCurrentOrg returns a copy with CurrentOrgID set to the target.
// Memberships are copied so the new identity shares no state with the old.
func (id SessionIdentity) withCurrentOrg(orgID int64) SessionIdentity {
	next := id
	next.Memberships = make([]orgs.Membership, len(id.Memberships))
	copy(next.Memberships, id.Memberships)
	next.CurrentOrgID = &orgID
	return next
}
