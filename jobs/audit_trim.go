package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/trusthub/trusthub/internal/jobs"
	"github.com/trusthub/trusthub/internal/shared"
	"github.com/trusthub/trusthub/internal/system"
)

// AuditTrimJob enforces the audit log retention window. Each run is itself
// audited, stamped with the system principal rather than a human actor.
type AuditTrimJob struct {
	Audit     *shared.AuditLogger
	System    *system.Service
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	Retention time.Duration
	clock     func() time.Time
}

// AuditTrimConfig collects dependencies for the retention handler.
type AuditTrimConfig struct {
	Audit     *shared.AuditLogger
	System    *system.Service
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	Retention time.Duration
}

// NewAuditTrimJob initialises the retention handler.
func NewAuditTrimJob(cfg AuditTrimConfig) *AuditTrimJob {
	return &AuditTrimJob{
		Audit:     cfg.Audit,
		System:    cfg.System,
		Logger:    cfg.Logger,
		Metrics:   cfg.Metrics,
		Retention: cfg.Retention,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes a retention run.
func (j *AuditTrimJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Audit == nil {
		return errors.New("audit trim: handler not configured")
	}
	var payload AuditTrimPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	retention := j.Retention
	if payload.RetentionHours > 0 {
		retention = time.Duration(payload.RetentionHours) * time.Hour
	}
	if retention <= 0 {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskAuditTrim)
	cutoff := j.now().Add(-retention)
	removed, err := j.Audit.TrimBefore(ctx, cutoff)
	if err != nil {
		j.logger().Error("audit trim failed", slog.Any("error", err))
		return tracker.End(err)
	}
	j.Metrics.AddRemoved(TaskAuditTrim, removed)

	if j.System != nil && removed > 0 {
		sys, err := j.System.SystemPrincipal(ctx)
		if err != nil {
			j.logger().Warn("audit trim: resolve system principal", slog.Any("error", err))
		} else if err := j.Audit.Record(ctx, shared.AuditLog{
			ActorID:       sys.ID,
			ActorIsSystem: true,
			Action:        "audit.trim",
			Meta:          map[string]any{"removed": removed, "cutoff": cutoff.Format(time.RFC3339)},
		}); err != nil {
			j.logger().Warn("audit trim: record run", slog.Any("error", err))
		}
	}

	j.logger().Info("audit trim complete",
		slog.Int64("removed", removed),
		slog.Time("cutoff", cutoff),
	)
	return tracker.End(nil)
}

func (j *AuditTrimJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

func (j *AuditTrimJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
