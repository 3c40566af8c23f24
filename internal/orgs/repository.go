package orgs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trusthub/trusthub/internal/platform/db"
	"github.com/trusthub/trusthub/internal/shared"
)

// Repository defines persistence operations for organizations and memberships.
type Repository interface {
	ListMembershipsForUser(ctx context.Context, userID int64) ([]Membership, error)
	GetOrganization(ctx context.Context, id int64) (*Organization, error)
	ListOrganizations(ctx context.Context) ([]Organization, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListMembershipsForUser returns the user's memberships joined with the
// organization's public fields. Ordered by membership id so "first
// membership" is deterministic across backends.
func (r *PGRepository) ListMembershipsForUser(ctx context.Context, userID int64) ([]Membership, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.org_id, m.org_role, o.name, o.slug
		FROM memberships m
		JOIN organizations o ON o.id = m.org_id
		WHERE m.user_id = $1
		ORDER BY m.id`, userID)
	if err != nil {
		return nil, translate("list memberships", err)
	}
	defer rows.Close()
	var memberships []Membership
	for rows.Next() {
		var m Membership
		if err := rows.Scan(&m.ID, &m.OrgID, &m.OrgRole, &m.OrgName, &m.OrgSlug); err != nil {
			return nil, translate("scan membership", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate memberships", err)
	}
	return memberships, nil
}

// GetOrganization fetches an organization by id.
func (r *PGRepository) GetOrganization(ctx context.Context, id int64) (*Organization, error) {
	var org Organization
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, slug, created_at, updated_at
		FROM organizations WHERE id = $1`, id).
		Scan(&org.ID, &org.Name, &org.Slug, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, translate("get organization", err)
	}
	return &org, nil
}

// ListOrganizations returns every organization ordered by name.
func (r *PGRepository) ListOrganizations(ctx context.Context) ([]Organization, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, slug, created_at, updated_at
		FROM organizations ORDER BY name`)
	if err != nil {
		return nil, translate("list organizations", err)
	}
	defer rows.Close()
	var organizations []Organization
	for rows.Next() {
		var org Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.Slug, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, translate("scan organization", err)
		}
		organizations = append(organizations, org)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate organizations", err)
	}
	return organizations, nil
}

// translate keeps storage outages distinct from every authorization signal.
func translate(op string, err error) error {
	if db.IsUnavailable(err) {
		return fmt.Errorf("orgs: %s: %w", op, shared.ErrStoreUnavailable)
	}
	return fmt.Errorf("orgs: %s: %w", op, err)
}

var _ Repository = (*PGRepository)(nil)
