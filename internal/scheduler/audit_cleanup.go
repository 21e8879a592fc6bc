// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// TaskEnqueuer hands an audit cleanup run over to the background task queue.
type TaskEnqueuer interface {
	EnqueueAuditCleanup(ctx context.Context, retentionDays int) (string, error)
}

// EventCleaner deletes audit events older than the retention period.
type EventCleaner interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// AuditCleanupScheduler periodically prunes the audit log. When a task queue
// is available each run is enqueued there, otherwise the cleaner runs inline.
type AuditCleanupScheduler struct {
	schedule      string
	retentionDays int
	queue         TaskEnqueuer
	cleaner       EventCleaner

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// DefaultRetentionDays applies when no positive retention is configured.
const DefaultRetentionDays = 30

// NewAuditCleanupScheduler creates a new scheduler instance. queue may be nil.
func NewAuditCleanupScheduler(schedule string, retentionDays int, queue TaskEnqueuer, cleaner EventCleaner) *AuditCleanupScheduler {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return &AuditCleanupScheduler{
		schedule:      schedule,
		retentionDays: retentionDays,
		queue:         queue,
		cleaner:       cleaner,
		cron:          cron.New(cron.WithParser(parser)),
	}
}

// Start begins the scheduler. An empty schedule disables it.
func (s *AuditCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.schedule == "" {
		log.Printf("Audit cleanup scheduler: disabled")
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.RunNow(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule audit cleanup: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := NextRunTime(s.schedule, time.Now())
	log.Printf("Audit cleanup scheduler: started with schedule '%s' (%s). Next run: %v",
		s.schedule, CronDescription(s.schedule), nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *AuditCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Printf("Audit cleanup scheduler: stopped")
}

// IsRunning returns whether the scheduler is active
func (s *AuditCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next cleanup will occur, or nil when stopped.
func (s *AuditCleanupScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// RunNow performs one cleanup run synchronously.
func (s *AuditCleanupScheduler) RunNow(ctx context.Context) {
	if s.queue != nil {
		id, err := s.queue.EnqueueAuditCleanup(ctx, s.retentionDays)
		if err == nil {
			log.Printf("Audit cleanup: enqueued task %s", id)
			return
		}
		log.Printf("Audit cleanup: failed to enqueue, running inline: %v", err)
	}

	if s.cleaner == nil {
		log.Printf("Audit cleanup: skipped (no cleaner configured)")
		return
	}

	retention := time.Duration(s.retentionDays) * 24 * time.Hour
	deleted, err := s.cleaner.DeleteOldEvents(retention)
	if err != nil {
		log.Printf("Audit cleanup: failed: %v", err)
		return
	}
	log.Printf("Audit cleanup: removed %d events older than %s", deleted, retention)
}
