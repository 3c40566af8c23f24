package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionSweep removes expired session rows.
	TaskSessionSweep = "sessions:sweep"
	// TaskAuditTrim enforces the audit log retention window.
	TaskAuditTrim = "audit:trim"
)

// SessionSweepPayload configures a single sweep run. A zero GraceMinutes
// deletes sessions as soon as they expire.
type SessionSweepPayload struct {
	GraceMinutes int `json:"grace_minutes"`
}

// AuditTrimPayload configures a retention run. RetentionHours of zero falls
// back to the worker's configured default.
type AuditTrimPayload struct {
	RetentionHours int `json:"retention_hours"`
}

// NewSessionSweepTask constructs an Asynq task for sweeping expired sessions.
func NewSessionSweepTask(payload SessionSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionSweep, data), nil
}

// NewAuditTrimTask constructs an Asynq task for trimming the audit log.
func NewAuditTrimTask(payload AuditTrimPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditTrim, data), nil
}
