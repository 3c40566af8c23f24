package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/trusthub/trusthub/internal/platform/httpx"
	"github.com/trusthub/trusthub/internal/rbac"
)

type fakeUsersRepo struct {
	created  []User
	lastHash string
}

func (r *fakeUsersRepo) ListUsers(ctx context.Context, limit, offset int) ([]User, error) {
	if offset >= len(r.created) {
		return nil, nil
	}
	end := offset + limit
	if end > len(r.created) {
		end = len(r.created)
	}
	return r.created[offset:end], nil
}

func (r *fakeUsersRepo) CountUsers(ctx context.Context) (int, error) {
	return len(r.created), nil
}

func (r *fakeUsersRepo) CreateUser(ctx context.Context, email, passwordHash string, role rbac.Role) (User, error) {
	r.lastHash = passwordHash
	user := User{ID: int64(len(r.created) + 1), Email: email, Role: role, IsActive: true}
	r.created = append(r.created, user)
	return user, nil
}

func TestCreateUserNormalizesEmailAndHashes(t *testing.T) {
	repo := &fakeUsersRepo{}
	service := NewService(repo)

	user, err := service.CreateUser(context.Background(), "  Anna@Alfa.Example ", "a long enough password", rbac.RoleEntityAdmin)
	require.NoError(t, err)
	require.Equal(t, "anna@alfa.example", user.Email)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.lastHash), []byte("a long enough password")))
}

func TestCreateUserValidation(t *testing.T) {
	service := NewService(&fakeUsersRepo{})

	cases := []struct {
		name     string
		email    string
		password string
		role     rbac.Role
	}{
		{"empty email", "", "a long enough password", rbac.RoleEntityUser},
		{"short password", "anna@alfa.example", "short", rbac.RoleEntityUser},
		{"unknown role", "anna@alfa.example", "a long enough password", rbac.Role("superuser")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CreateUser(context.Background(), tc.email, tc.password, tc.role)
			require.ErrorIs(t, err, httpx.ErrValidation)
		})
	}
}

func TestListUsersPaginates(t *testing.T) {
	repo := &fakeUsersRepo{}
	service := NewService(repo)
	for i := 0; i < 5; i++ {
		_, err := service.CreateUser(context.Background(), fmt.Sprintf("user%d@alfa.example", i), "a long enough password", rbac.RoleEntityUser)
		require.NoError(t, err)
	}

	users, pagination, err := service.ListUsers(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, 5, pagination.Total)
	require.Equal(t, 3, pagination.TotalPages)
	require.Equal(t, int64(3), users[0].ID)

	// Out-of-range defaults collapse to the first page.
	users, pagination, err = service.ListUsers(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, users, 5)
	require.Equal(t, 1, pagination.Page)
}
