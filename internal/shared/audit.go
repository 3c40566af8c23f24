package shared

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditLog represents a record stored in audit_log.
type AuditLog struct {
	ActorID       int64
	ActorIsSystem bool
	Action        string
	OrgID         *int64
	Meta          map[string]any
	At            time.Time
}

// AuditLogger writes records into audit_log.
type AuditLogger struct {
	pool *pgxpool.Pool
}

// NewAuditLogger returns a new AuditLogger.
func NewAuditLogger(pool *pgxpool.Pool) *AuditLogger {
	return &AuditLogger{pool: pool}
}

// Record persists the log entry.
func (l *AuditLogger) Record(ctx context.Context, log AuditLog) error {
	if l == nil {
		return errors.New("audit logger not initialised")
	}
	if log.Action == "" {
		return errors.New("audit log requires action")
	}
	metaJSON, err := json.Marshal(log.Meta)
	if err != nil {
		return err
	}
	var at any
	if !log.At.IsZero() {
		at = log.At
	}
	_, err = l.pool.Exec(ctx, `INSERT INTO audit_log (actor_id, actor_is_system, action, org_id, detail, occurred_at) VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))`, log.ActorID, log.ActorIsSystem, log.Action, log.OrgID, metaJSON, at)
	return err
}

// TrimBefore deletes audit entries older than the cutoff and reports how many
// rows were removed. Used by the scheduled retention job.
func (l *AuditLogger) TrimBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if l == nil {
		return 0, errors.New("audit logger not initialised")
	}
	tag, err := l.pool.Exec(ctx, `DELETE FROM audit_log WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
