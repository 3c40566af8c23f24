package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trusthub/trusthub/internal/platform/db"
	"github.com/trusthub/trusthub/internal/platform/httpx"
	"github.com/trusthub/trusthub/internal/rbac"
	"github.com/trusthub/trusthub/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListUsers returns one page of non-system accounts.
func (r *Repository) ListUsers(ctx context.Context, limit, offset int) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, role, is_active, created_at, updated_at
		FROM users WHERE is_system_account = FALSE ORDER BY id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, translate("list users", err)
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Email, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, translate("scan user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate users", err)
	}
	return users, nil
}

// CountUsers returns the number of non-system accounts.
func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_system_account = FALSE`).Scan(&total); err != nil {
		return 0, translate("count users", err)
	}
	return total, nil
}

// CreateUser provisions an account with an already-hashed password.
func (r *Repository) CreateUser(ctx context.Context, email, passwordHash string, role rbac.Role) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, role, is_system_account, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, TRUE, NOW(), NOW())
		RETURNING id, email, role, is_active, created_at, updated_at`,
		email, passwordHash, role).
		Scan(&user.ID, &user.Email, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, httpx.ErrDuplicate
		}
		return User{}, translate("create user", err)
	}
	return user, nil
}

func translate(op string, err error) error {
	if db.IsUnavailable(err) {
		return fmt.Errorf("users: %s: %w", op, shared.ErrStoreUnavailable)
	}
	return fmt.Errorf("users: %s: %w", op, err)
}
