package http

import (
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/doclabel/internal/database"
	"github.com/mrlokans/doclabel/internal/database/projects"
	"github.com/mrlokans/doclabel/internal/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) *database.Database {
	t.Helper()

	db, err := database.NewDatabaseWithOptions(filepath.Join(t.TempDir(), "test.db"), database.Options{LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestProject(t *testing.T, repo *projects.Repository, name string, pt entities.ProjectType) *entities.Project {
	t.Helper()

	project := &entities.Project{Name: name, ProjectType: pt}
	require.NoError(t, repo.CreateProject(project))
	return project
}

func createTestDocuments(t *testing.T, repo *projects.Repository, projectID uint, texts ...string) []entities.Document {
	t.Helper()

	docs := make([]entities.Document, 0, len(texts))
	for _, text := range texts {
		docs = append(docs, entities.Document{ProjectID: projectID, Text: text})
	}
	require.NoError(t, repo.BulkCreateDocuments(docs))
	return docs
}
