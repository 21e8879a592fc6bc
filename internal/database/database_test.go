package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/doclabel/internal/entities"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()
	dbPath := "./test_" + t.Name() + ".db"
	db, err := NewDatabaseWithOptions(dbPath, Options{LogLevel: "silent"})
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestDatabase_Migrations(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	for _, table := range []string{
		"users", "projects", "project_users", "labels", "documents",
		"document_annotations", "sequence_annotations", "seq2seq_annotations", "audit_events",
	} {
		assert.True(t, db.DB.Migrator().HasTable(table), "missing table %s", table)
	}

	assert.NoError(t, db.Ping())
}

func TestDatabase_DocumentRequiresProject(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	t.Run("foreign key rejects unknown project", func(t *testing.T) {
		err := db.DB.Create(&entities.Document{ProjectID: 777, Text: "orphan"}).Error
		assert.Error(t, err)
	})

	t.Run("document is stored with empty metadata", func(t *testing.T) {
		project := &entities.Project{Name: "p", ProjectType: entities.ProjectTypeDocumentClassification}
		require.NoError(t, db.DB.Create(project).Error)

		doc := &entities.Document{ProjectID: project.ID, Text: "hello"}
		require.NoError(t, db.DB.Create(doc).Error)

		var stored entities.Document
		require.NoError(t, db.DB.First(&stored, doc.ID).Error)
		assert.Equal(t, "{}", stored.Metadata)
	})
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, parseLogLevel("silent"))
	assert.Equal(t, logger.Info, parseLogLevel("INFO"))
	assert.Equal(t, logger.Error, parseLogLevel("error"))
	assert.Equal(t, logger.Warn, parseLogLevel(""))
}
