package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trusthub/trusthub/internal/orgs"
	"github.com/trusthub/trusthub/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	resolver *orgs.Resolver
}

// NewService constructs a new Service.
func NewService(repo Repository, resolver *orgs.Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// Authenticate validates email/password credentials and returns the user
// with resolved memberships. Every credential failure collapses into
// ErrInvalidCredentials so callers cannot enumerate accounts; store outages
// stay distinct so infrastructure failures are never presented as bad logins.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, []orgs.Membership, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, nil, shared.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, shared.ErrInvalidCredentials
	}

	memberships, err := s.resolver.ResolveMemberships(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, memberships, nil
}

// RegisterSession persists session metadata in postgres.
func (s *Service) RegisterSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, userID, expiresAt, ip, ua)
}

// RemoveSession deletes a session record from postgres.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}
