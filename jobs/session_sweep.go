package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/trusthub/trusthub/internal/auth"
	jobmetrics "github.com/trusthub/trusthub/internal/jobs"
)

// SessionSweepJob removes session rows whose expiry has passed. Tokens stay
// self-contained, so the sweep only keeps the sessions table from growing;
// it never affects an authenticated request in flight.
type SessionSweepJob struct {
	Repo    auth.Repository
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewSessionSweepJob initialises the sweep handler.
func NewSessionSweepJob(repo auth.Repository, logger *slog.Logger, metrics *jobmetrics.Metrics) *SessionSweepJob {
	return &SessionSweepJob{
		Repo:    repo,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the sweep.
func (j *SessionSweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Repo == nil {
		return errors.New("session sweep: handler not configured")
	}
	var payload SessionSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.GraceMinutes < 0 {
		payload.GraceMinutes = 0
	}

	tracker := j.metrics().Track(TaskSessionSweep)
	cutoff := j.now().Add(-time.Duration(payload.GraceMinutes) * time.Minute)
	removed, err := j.Repo.DeleteExpiredSessions(ctx, cutoff)
	if err != nil {
		j.logger().Error("session sweep failed", slog.Any("error", err))
		return tracker.End(err)
	}
	j.Metrics.AddRemoved(TaskSessionSweep, removed)
	j.logger().Info("session sweep complete",
		slog.Int64("removed", removed),
		slog.Time("cutoff", cutoff),
	)
	return tracker.End(nil)
}

func (j *SessionSweepJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

func (j *SessionSweepJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *SessionSweepJob) metrics() *jobmetrics.Metrics {
	return j.Metrics
}
