package audit

import (
	"encoding/json"
	"log"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mrlokans/doclabel/internal/database/audit"
	"github.com/mrlokans/doclabel/internal/entities"
)

// maxErrorLen matches the size of the error_msg column.
const maxErrorLen = 500

// Service records who uploaded, downloaded or signed in, and how it went.
// Writes happen off the request path; Wait drains them.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("[AUDIT] Failed to record %s event %q: %v", event.EventType, event.Action, err)
		}
	}()
}

// Wait blocks until every event passed to LogAsync has been written.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogImport records a dataset upload of documents parsed from filename.
func (s *Service) LogImport(userID, projectID uint, format, filename string, documents int, err error) {
	s.record(&entities.AuditEvent{
		UserID:      userID,
		ProjectID:   &projectID,
		EventType:   entities.AuditEventImport,
		Action:      format + "_import",
		Description: "Uploaded " + filename,
		Metadata:    encodeMetadata(map[string]any{"filename": filename, "documents": documents}),
	}, err)
}

// LogExport records a dataset download.
func (s *Service) LogExport(userID, projectID uint, format string, documents int, err error) {
	s.record(&entities.AuditEvent{
		UserID:      userID,
		ProjectID:   &projectID,
		EventType:   entities.AuditEventExport,
		Action:      format + "_export",
		Description: "Downloaded annotated documents",
		Metadata:    encodeMetadata(map[string]any{"documents": documents}),
	}, err)
}

// LogAuth records a sign-in step. It satisfies auth.AuthLogger.
func (s *Service) LogAuth(userID uint, action, ipAddr string, err error) {
	s.record(&entities.AuditEvent{
		UserID:    userID,
		EventType: entities.AuditEventAuth,
		Action:    action,
		IPAddress: ipAddr,
	}, err)
}

// record sets the outcome from err and writes the event in the background.
func (s *Service) record(event *entities.AuditEvent, err error) {
	event.Status = entities.AuditStatusSuccess
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), maxErrorLen)
	}
	s.LogAsync(event)
}

// GetProjectEvents returns the latest events of a project, newest first.
func (s *Service) GetProjectEvents(projectID uint, limit int) ([]entities.AuditEvent, error) {
	return s.repo.GetProjectEvents(projectID, limit)
}

// CountFailures counts failed events of one type.
func (s *Service) CountFailures(eventType entities.AuditEventType) (int64, error) {
	return s.repo.CountByType(eventType, entities.AuditStatusFailed)
}

// DeleteOldEvents removes events older than retention.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

func encodeMetadata(metadata map[string]any) string {
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}

// truncate cuts s to at most maxLen bytes without splitting a UTF-8 sequence.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - len("...")
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
