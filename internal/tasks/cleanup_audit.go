package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

const (
	// CleanupAuditQueue names the queue that prunes the audit trail.
	CleanupAuditQueue = "cleanup_audit_events"

	// DefaultAuditRetentionDays applies when a task carries no retention.
	DefaultAuditRetentionDays = 30

	day = 24 * time.Hour
)

// ErrNoCleaner is returned by the processor when no audit store was wired in.
var ErrNoCleaner = errors.New("audit event cleaner not configured")

// AuditEventCleaner deletes audit events older than a retention window.
type AuditEventCleaner interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// CleanupAuditEventsTask prunes dataset and sign-in audit events older than
// RetentionDays.
type CleanupAuditEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config keeps finished runs for a day and the payload of failed ones only.
func (CleanupAuditEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        CleanupAuditQueue,
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration: day,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func (t CleanupAuditEventsTask) Retention() time.Duration {
	if t.RetentionDays <= 0 {
		return DefaultAuditRetentionDays * day
	}
	return time.Duration(t.RetentionDays) * day
}

// CleanupAuditEventsProcessor returns the queue handler. A failed delete is
// returned so backlite retries it.
func CleanupAuditEventsProcessor(cleaner AuditEventCleaner) backlite.QueueProcessor[CleanupAuditEventsTask] {
	return func(ctx context.Context, task CleanupAuditEventsTask) error {
		if cleaner == nil {
			return ErrNoCleaner
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		retention := task.Retention()
		deleted, err := cleaner.DeleteOldEvents(retention)
		if err != nil {
			return fmt.Errorf("cleanup audit events: %w", err)
		}
		log.Printf("[TASK] Removed %d audit events older than %d days", deleted, int(retention/day))
		return nil
	}
}

func NewCleanupAuditEventsQueue(cleaner AuditEventCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupAuditEventsProcessor(cleaner))
}
