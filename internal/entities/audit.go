package entities

import "time"

// AuditEventType groups audit records by the subsystem that wrote them.
type AuditEventType string

const (
	AuditEventImport AuditEventType = "import"
	AuditEventExport AuditEventType = "export"
	AuditEventAuth   AuditEventType = "auth"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEvent records one dataset upload, download or sign-in attempt.
// Action carries the format for dataset events ("csv_import", "bio_export")
// and the step for auth events ("login_failed"). ProjectID is nil for
// events that are not tied to a project.
type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index" json:"user_id"`
	ProjectID   *uint          `gorm:"index" json:"project_id,omitempty"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action      string         `gorm:"size:100" json:"action"`
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	Description string         `gorm:"size:500" json:"description"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"` // JSON object, e.g. {"documents":12,"batch":"..."}
	IPAddress   string         `gorm:"size:45" json:"ip_address,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}

// Failed reports whether the audited operation did not complete.
func (e AuditEvent) Failed() bool {
	return e.Status == AuditStatusFailed
}
