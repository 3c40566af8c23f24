package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/trusthub/trusthub/internal/orgs"
	"github.com/trusthub/trusthub/internal/rbac"
	"github.com/trusthub/trusthub/internal/shared"
)

type fakeRepo struct {
	users      map[string]*User
	storeDown  bool
	findErr    error
	sessions   map[string]int64
	lastSwept  time.Time
	sweptCount int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]*User{}, sessions: map[string]int64{}}
}

func (r *fakeRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	if r.storeDown {
		return nil, shared.ErrStoreUnavailable
	}
	if r.findErr != nil {
		return nil, r.findErr
	}
	user, ok := r.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeRepo) FindSystemAccount(ctx context.Context) (*User, error) {
	for _, u := range r.users {
		if u.IsSystemAccount {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	r.sessions[id] = userID
	return nil
}

func (r *fakeRepo) DeleteSession(ctx context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func (r *fakeRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	r.lastSwept = now
	return r.sweptCount, nil
}

type fakeOrgsRepo struct {
	memberships map[int64][]orgs.Membership
}

func (r *fakeOrgsRepo) ListMembershipsForUser(ctx context.Context, userID int64) ([]orgs.Membership, error) {
	return r.memberships[userID], nil
}

func (r *fakeOrgsRepo) GetOrganization(ctx context.Context, id int64) (*orgs.Organization, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeOrgsRepo) ListOrganizations(ctx context.Context) ([]orgs.Organization, error) {
	return nil, nil
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newTestService(t *testing.T, repo *fakeRepo) *Service {
	t.Helper()
	resolver := orgs.NewResolver(&fakeOrgsRepo{memberships: map[int64][]orgs.Membership{
		7: {{ID: 1, OrgID: 10, OrgRole: rbac.OrgRoleAdmin, OrgName: "Alfa Bank", OrgSlug: "alfa-bank"}},
	}})
	return NewService(repo, resolver)
}

func TestAuthenticateSuccess(t *testing.T) {
	repo := newFakeRepo()
	repo.users["anna@alfa.example"] = &User{
		ID:           7,
		Email:        "anna@alfa.example",
		PasswordHash: hash(t, "correct horse battery"),
		Role:         rbac.RoleEntityAdmin,
		IsActive:     true,
	}
	service := newTestService(t, repo)

	user, memberships, err := service.Authenticate(context.Background(), "anna@alfa.example", "correct horse battery")
	require.NoError(t, err)
	require.Equal(t, int64(7), user.ID)
	require.Len(t, memberships, 1)
	require.Equal(t, int64(10), memberships[0].OrgID)
}

func TestAuthenticateFailuresCollapse(t *testing.T) {
	repo := newFakeRepo()
	repo.users["anna@alfa.example"] = &User{
		ID:           7,
		Email:        "anna@alfa.example",
		PasswordHash: hash(t, "correct horse battery"),
		Role:         rbac.RoleEntityAdmin,
		IsActive:     true,
	}
	repo.users["dormant@alfa.example"] = &User{
		ID:           8,
		Email:        "dormant@alfa.example",
		PasswordHash: hash(t, "correct horse battery"),
		Role:         rbac.RoleEntityUser,
		IsActive:     false,
	}
	service := newTestService(t, repo)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "correct horse battery"},
		{"empty password", "anna@alfa.example", ""},
		{"unknown email", "nobody@alfa.example", "correct horse battery"},
		{"wrong password", "anna@alfa.example", "wrong"},
		{"inactive account", "dormant@alfa.example", "correct horse battery"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := service.Authenticate(context.Background(), tc.email, tc.password)
			require.ErrorIs(t, err, shared.ErrInvalidCredentials)
		})
	}
}

func TestAuthenticateStoreOutageStaysDistinct(t *testing.T) {
	repo := newFakeRepo()
	repo.storeDown = true
	service := newTestService(t, repo)

	_, _, err := service.Authenticate(context.Background(), "anna@alfa.example", "correct horse battery")
	require.ErrorIs(t, err, shared.ErrStoreUnavailable)
	require.NotErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestSessionLifecycle(t *testing.T) {
	repo := newFakeRepo()
	service := newTestService(t, repo)

	err := service.RegisterSession(context.Background(), "jti-1", 7, time.Now().Add(time.Hour), "127.0.0.1", "go-test")
	require.NoError(t, err)
	require.Contains(t, repo.sessions, "jti-1")

	require.NoError(t, service.RemoveSession(context.Background(), "jti-1"))
	require.NotContains(t, repo.sessions, "jti-1")
}
