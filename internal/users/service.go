package users

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/trusthub/trusthub/internal/platform/httpx"
	"github.com/trusthub/trusthub/internal/rbac"
	"github.com/trusthub/trusthub/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context, limit, offset int) ([]User, error)
	CountUsers(ctx context.Context) (int, error)
	CreateUser(ctx context.Context, email, passwordHash string, role rbac.Role) (User, error)
}

// Service handles user administration logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListUsers returns one page of users plus pagination metadata.
func (s *Service) ListUsers(ctx context.Context, page, perPage int) ([]User, shared.Pagination, error) {
	total, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	p := shared.NewPagination(page, perPage, total)
	users, err := s.repo.ListUsers(ctx, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return users, p, nil
}

// CreateUser provisions a new account. The global role must belong to the
// closed enumeration; system accounts are never provisioned this way.
func (s *Service) CreateUser(ctx context.Context, email, password string, role rbac.Role) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return User{}, fmt.Errorf("%w: email required", httpx.ErrValidation)
	}
	if len(password) < 12 {
		return User{}, fmt.Errorf("%w: password must be at least 12 characters", httpx.ErrValidation)
	}
	if !role.Valid() {
		return User{}, fmt.Errorf("%w: unknown role %q", httpx.ErrValidation, role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("users: hash password: %w", err)
	}
	return s.repo.CreateUser(ctx, email, string(hash), role)
}
