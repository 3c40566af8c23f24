package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/trusthub/trusthub/internal/orgs"
	"github.com/trusthub/trusthub/internal/rbac"
	"github.com/trusthub/trusthub/internal/shared"
)

// MembershipResolver is the slice of the orgs resolver the builder needs.
type MembershipResolver interface {
	ResolveMemberships(ctx context.Context, userID int64) ([]orgs.Membership, error)
	GetOrganization(ctx context.Context, id int64) (*orgs.Organization, error)
}

// Builder assembles session identities at login, on refresh, and on
// explicit organization switches.
type Builder struct {
	resolver MembershipResolver
	tokens   *TokenManager
}

// NewBuilder constructs a Builder.
func NewBuilder(resolver MembershipResolver, tokens *TokenManager) *Builder {
	return &Builder{resolver: resolver, tokens: tokens}
}

// Tokens exposes the token manager used by the builder.
func (b *Builder) Tokens() *TokenManager {
	return b.tokens
}

// Build assembles the identity at successful authentication. The current
// organization defaults to the first resolved membership — "first" is
// pinned to ascending membership id by the resolver — or nil when the
// principal holds no memberships.
func (b *Builder) Build(ctx context.Context, userID int64, role rbac.Role, isSystemAccount bool) (SessionIdentity, error) {
	memberships, err := b.resolver.ResolveMemberships(ctx, userID)
	if err != nil {
		return SessionIdentity{}, err
	}
	id := SessionIdentity{
		SessionID:       uuid.NewString(),
		UserID:          userID,
		Role:            role,
		IsSystemAccount: isSystemAccount,
		Memberships:     memberships,
	}
	if len(memberships) > 0 {
		first := memberships[0].OrgID
		id.CurrentOrgID = &first
	}
	return id, nil
}

// Refresh re-derives the identity from the durable token. Pure: all fields
// were embedded at Build/SwitchOrganization time, so no store query occurs.
// Membership changes made after issuance are not reflected until
// re-authentication; that staleness is the accepted tradeoff.
func (b *Builder) Refresh(token string) (SessionIdentity, string, error) {
	return b.tokens.Parse(token)
}

// SwitchResult carries the outcome of a successful organization switch.
// Token reissuance is part of the contract so the durable token never goes
// stale relative to the current organization.
type SwitchResult struct {
	Identity     SessionIdentity
	Organization *orgs.Organization
	Token        string
	JTI          string
}

// SwitchOrganization validates access to the target organization and, on
// success, returns a wholly new identity and token. On failure the caller's
// identity is untouched: no partial mutation exists to observe. A missing
// membership is a normal ErrNoAccess outcome, never a storage failure.
func (b *Builder) SwitchOrganization(ctx context.Context, id SessionIdentity, targetOrgID int64) (*SwitchResult, error) {
	if !orgs.CanAccessOrg(id.Role, id.Memberships, &targetOrgID) {
		return nil, shared.ErrNoAccess
	}
	org, err := b.resolver.GetOrganization(ctx, targetOrgID)
	if err != nil {
		return nil, err
	}

	next := id.withCurrentOrg(targetOrgID)
	token, jti, err := b.tokens.Issue(next)
	if err != nil {
		return nil, err
	}
	return &SwitchResult{Identity: next, Organization: org, Token: token, JTI: jti}, nil
}
