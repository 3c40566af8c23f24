package system

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/trusthub/trusthub/internal/auth"
	"github.com/trusthub/trusthub/internal/identity"
	"github.com/trusthub/trusthub/internal/rbac"
	"github.com/trusthub/trusthub/internal/shared"
)

// SystemIdentityTTL bounds the validity window of automated-action tokens.
const SystemIdentityTTL = time.Hour

// Service resolves the privileged, non-interactive system principal used to
// stamp automated actions with an auditable, non-human actor.
type Service struct {
	repo   auth.Repository
	tokens *identity.TokenManager

	mu     sync.Mutex
	cached *auth.User
	group  singleflight.Group
}

// NewService constructs a Service.
func NewService(repo auth.Repository, tokens *identity.TokenManager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// SystemPrincipal resolves the account flagged as the system principal.
// A missing row or a row with the wrong role is a deployment defect
// reported as ErrConfiguration, distinct from an ordinary lookup miss;
// a store outage passes through as ErrStoreUnavailable so a transient
// failure is never mistaken for misconfiguration.
func (s *Service) SystemPrincipal(ctx context.Context) (*auth.User, error) {
	s.mu.Lock()
	if s.cached != nil {
		user := *s.cached
		s.mu.Unlock()
		return &user, nil
	}
	s.mu.Unlock()

	// Concurrent cache misses collapse into a single lookup.
	v, err, _ := s.group.Do("system-principal", func() (any, error) {
		user, err := s.repo.FindSystemAccount(ctx)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, fmt.Errorf("%w: system account not found", shared.ErrConfiguration)
			}
			return nil, err
		}
		if user.Role != rbac.RoleUKNFAdmin {
			return nil, fmt.Errorf("%w: system account has role %q, want %q", shared.ErrConfiguration, user.Role, rbac.RoleUKNFAdmin)
		}
		if !user.IsSystemAccount {
			return nil, fmt.Errorf("%w: resolved account is not flagged as system", shared.ErrConfiguration)
		}
		s.mu.Lock()
		s.cached = user
		s.mu.Unlock()
		return user, nil
	})
	if err != nil {
		return nil, err
	}
	copied := *(v.(*auth.User))
	return &copied, nil
}

// IsSystemPrincipal reports whether the id belongs to the system principal.
func (s *Service) IsSystemPrincipal(ctx context.Context, id int64) (bool, error) {
	user, err := s.SystemPrincipal(ctx)
	if err != nil {
		return false, err
	}
	return user.ID == id, nil
}

// CreateSystemIdentity issues a short-lived identity for automated actions:
// empty memberships, no current organization, flagged as a system account.
func (s *Service) CreateSystemIdentity(ctx context.Context) (identity.SessionIdentity, string, error) {
	user, err := s.SystemPrincipal(ctx)
	if err != nil {
		return identity.SessionIdentity{}, "", err
	}
	id := identity.SessionIdentity{
		UserID:          user.ID,
		Role:            user.Role,
		IsSystemAccount: true,
	}
	token, _, err := s.tokens.IssueWithTTL(id, SystemIdentityTTL)
	if err != nil {
		return identity.SessionIdentity{}, "", err
	}
	return id, token, nil
}
