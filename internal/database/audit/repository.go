// Package audit stores the audit trail of dataset uploads, downloads and sign-ins.
package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/doclabel/internal/entities"
)

const defaultProjectEventLimit = 20

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent inserts event, stamping CreatedAt when the caller left it empty.
func (r *Repository) LogEvent(event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// GetProjectEvents returns up to limit events of a project, newest first.
func (r *Repository) GetProjectEvents(projectID uint, limit int) ([]entities.AuditEvent, error) {
	if limit <= 0 {
		limit = defaultProjectEventLimit
	}
	var events []entities.AuditEvent
	err := r.db.Where(&entities.AuditEvent{ProjectID: &projectID}).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// CountByType counts events of one type. An empty status counts every outcome.
func (r *Repository) CountByType(eventType entities.AuditEventType, status entities.AuditStatus) (int64, error) {
	var n int64
	err := r.db.Model(&entities.AuditEvent{}).
		Where(&entities.AuditEvent{EventType: eventType, Status: status}).
		Count(&n).Error
	return n, err
}

// DeleteOldEvents drops events created before cutoff and returns how many went.
func (r *Repository) DeleteOldEvents(cutoff time.Time) (int64, error) {
	res := r.db.Where("created_at < ?", cutoff).Delete(&entities.AuditEvent{})
	return res.RowsAffected, res.Error
}
