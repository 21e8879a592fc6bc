package audit

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditRepo "github.com/mrlokans/doclabel/internal/database/audit"
	"github.com/mrlokans/doclabel/internal/entities"
)

// newTestService uses a file database so the background writers see the
// same tables as the test.
func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.AuditEvent{}))

	svc := NewService(auditRepo.NewRepository(db))
	t.Cleanup(svc.Wait)
	return svc, db
}

func findByAction(t *testing.T, db *gorm.DB, action string) entities.AuditEvent {
	t.Helper()
	var event entities.AuditEvent
	require.NoError(t, db.Where("action = ?", action).First(&event).Error)
	return event
}

func TestService_LogIsSynchronous(t *testing.T) {
	svc, db := newTestService(t)

	event := &entities.AuditEvent{EventType: entities.AuditEventImport, Action: "seed", Status: entities.AuditStatusSuccess}
	require.NoError(t, svc.Log(event))

	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
	assert.Equal(t, "seed", findByAction(t, db, "seed").Action)
}

func TestService_LogImport(t *testing.T) {
	svc, db := newTestService(t)

	svc.LogImport(1, 7, "csv", "reviews.csv", 120, nil)
	svc.LogImport(1, 7, "json", "broken.jsonl", 0, errors.New("line 3: invalid character"))
	svc.Wait()

	ok := findByAction(t, db, "csv_import")
	assert.Equal(t, entities.AuditEventImport, ok.EventType)
	assert.False(t, ok.Failed())
	assert.Equal(t, "Uploaded reviews.csv", ok.Description)
	require.NotNil(t, ok.ProjectID)
	assert.Equal(t, uint(7), *ok.ProjectID)
	assert.JSONEq(t, `{"filename":"reviews.csv","documents":120}`, ok.Metadata)

	bad := findByAction(t, db, "json_import")
	assert.True(t, bad.Failed())
	assert.Equal(t, "line 3: invalid character", bad.ErrorMsg)
}

func TestService_LogExport(t *testing.T) {
	svc, db := newTestService(t)

	svc.LogExport(2, 3, "bio", 15, nil)
	svc.LogExport(2, 3, "xml", 0, errors.New(strings.Repeat("e", 800)))
	svc.Wait()

	bio := findByAction(t, db, "bio_export")
	assert.Equal(t, entities.AuditEventExport, bio.EventType)
	assert.Equal(t, uint(2), bio.UserID)
	assert.JSONEq(t, `{"documents":15}`, bio.Metadata)

	xml := findByAction(t, db, "xml_export")
	assert.True(t, xml.Failed())
	assert.Len(t, xml.ErrorMsg, maxErrorLen)
}

func TestService_LogAuth(t *testing.T) {
	svc, db := newTestService(t)

	svc.LogAuth(1, "login", "192.168.1.1", nil)
	svc.LogAuth(0, "login_failed", "10.0.0.1", errors.New("invalid password"))
	svc.Wait()

	login := findByAction(t, db, "login")
	assert.Equal(t, entities.AuditStatusSuccess, login.Status)
	assert.Equal(t, "192.168.1.1", login.IPAddress)
	assert.Nil(t, login.ProjectID)

	failed := findByAction(t, db, "login_failed")
	assert.Equal(t, entities.AuditStatusFailed, failed.Status)
	assert.Equal(t, "invalid password", failed.ErrorMsg)
}

func TestService_ProjectEventsAndFailures(t *testing.T) {
	svc, _ := newTestService(t)

	for i := 0; i < 5; i++ {
		svc.LogExport(1, 4, "csv", i, nil)
	}
	svc.LogExport(1, 5, "csv", 1, nil)
	svc.LogImport(1, 4, "txt", "empty.txt", 0, errors.New("read failed"))
	svc.Wait()

	events, err := svc.GetProjectEvents(4, 3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	for _, e := range events {
		assert.Equal(t, uint(4), *e.ProjectID)
	}

	imports, err := svc.CountFailures(entities.AuditEventImport)
	require.NoError(t, err)
	assert.Equal(t, int64(1), imports)

	exports, err := svc.CountFailures(entities.AuditEventExport)
	require.NoError(t, err)
	assert.Zero(t, exports)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, db := newTestService(t)

	require.NoError(t, db.Create(&entities.AuditEvent{
		EventType: entities.AuditEventImport,
		Action:    "stale",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}).Error)
	require.NoError(t, db.Create(&entities.AuditEvent{
		EventType: entities.AuditEventExport,
		Action:    "fresh",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now(),
	}).Error)

	deleted, err := svc.DeleteOldEvents(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var left []entities.AuditEvent
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "fresh", left[0].Action)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", truncate("", 5))
	assert.Equal(t, "exactly10c", truncate("exactly10c", 10))
	assert.Equal(t, "this is...", truncate("this is a very long string", 10))

	cut := truncate("日本語のエラーメッセージ", 10)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, "日本...", cut)
}
