package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trusthub/trusthub/internal/platform/db"
	"github.com/trusthub/trusthub/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	FindSystemAccount(ctx context.Context) (*User, error)
	CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, email, password_hash, role, is_system_account, is_active, created_at, updated_at`

// FindByEmail fetches a user by exact email match.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// FindByID fetches a user by primary key.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	return r.findUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindSystemAccount fetches the single account flagged as the system
// principal. Exactly one such row must exist; the caller decides whether
// its absence is fatal.
func (r *PGRepository) FindSystemAccount(ctx context.Context) (*User, error) {
	return r.findUser(ctx, `SELECT `+userColumns+` FROM users WHERE is_system_account = TRUE ORDER BY id LIMIT 1`)
}

func (r *PGRepository) findUser(ctx context.Context, query string, args ...any) (*User, error) {
	var user User
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsSystemAccount,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, translate("find user", err)
	}
	return &user, nil
}

// CreateSession persists a login session row for auditing and sweeping.
func (r *PGRepository) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, user_id, created_at, expires_at, ip, ua)
		VALUES ($1, $2, NOW(), $3, NULLIF($4, ''), NULLIF($5, ''))`,
		id, userID, expiresAt.UTC(), ip, ua)
	if err != nil {
		return translate("create session", err)
	}
	return nil
}

// DeleteSession removes a session record.
func (r *PGRepository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return translate("delete session", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions past their expiry and reports how
// many rows were swept.
func (r *PGRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, now.UTC())
	if err != nil {
		return 0, translate("sweep sessions", err)
	}
	return tag.RowsAffected(), nil
}

func translate(op string, err error) error {
	if db.IsUnavailable(err) {
		return fmt.Errorf("auth: %s: %w", op, shared.ErrStoreUnavailable)
	}
	return fmt.Errorf("auth: %s: %w", op, err)
}

var _ Repository = (*PGRepository)(nil)
