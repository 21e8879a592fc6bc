package projects

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/doclabel/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "projects.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Project{},
		&entities.Label{},
		&entities.Document{},
		&entities.DocumentAnnotation{},
		&entities.SequenceAnnotation{},
		&entities.Seq2seqAnnotation{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createProject(t *testing.T, repo *Repository, projectType entities.ProjectType) *entities.Project {
	t.Helper()
	project := &entities.Project{Name: "Test " + string(projectType), ProjectType: projectType}
	require.NoError(t, repo.CreateProject(project))
	return project
}

func createUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()
	user := &entities.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRepository_CreateProject(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	t.Run("valid project", func(t *testing.T) {
		project := createProject(t, repo, entities.ProjectTypeSeq2seq)
		assert.NotZero(t, project.ID)

		found, err := repo.GetProjectByID(project.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.ProjectTypeSeq2seq, found.ProjectType)
	})

	t.Run("invalid type is rejected", func(t *testing.T) {
		err := repo.CreateProject(&entities.Project{Name: "bad", ProjectType: "Nope"})
		assert.Error(t, err)
	})

	t.Run("missing project", func(t *testing.T) {
		_, err := repo.GetProjectByID(9999)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestRepository_BulkCreateDocuments(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	project := createProject(t, repo, entities.ProjectTypeDocumentClassification)

	docs := make([]entities.Document, 0, 1200)
	for i := 0; i < 1200; i++ {
		docs = append(docs, entities.Document{ProjectID: project.ID, Text: "doc"})
	}

	require.NoError(t, repo.BulkCreateDocuments(docs))

	total, err := repo.CountDocuments(project.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), total)

	t.Run("metadata defaults to empty object", func(t *testing.T) {
		page, _, err := repo.GetDocumentsPage(project.ID, 1, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, entities.EmptyMetadata, page[0].Metadata)
	})

	t.Run("document without project is rejected before insert", func(t *testing.T) {
		err := repo.BulkCreateDocuments([]entities.Document{
			{ProjectID: project.ID, Text: "ok"},
			{Text: "orphan"},
		})
		assert.Error(t, err)

		total, err := repo.CountDocuments(project.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1200), total)
	})

	t.Run("unknown project violates foreign key and nothing is stored", func(t *testing.T) {
		err := repo.BulkCreateDocuments([]entities.Document{
			{ProjectID: project.ID, Text: "first"},
			{ProjectID: 424242, Text: "second"},
		})
		assert.Error(t, err)

		total, err := repo.CountDocuments(project.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1200), total)
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.BulkCreateDocuments(nil))
	})
}

func TestRepository_GetDocumentsPage(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	project := createProject(t, repo, entities.ProjectTypeDocumentClassification)
	other := createProject(t, repo, entities.ProjectTypeDocumentClassification)

	var docs []entities.Document
	for _, text := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		docs = append(docs, entities.Document{ProjectID: project.ID, Text: text})
	}
	docs = append(docs, entities.Document{ProjectID: other.ID, Text: "other"})
	require.NoError(t, repo.BulkCreateDocuments(docs))

	page, total, err := repo.GetDocumentsPage(project.ID, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, page, 5)
	assert.Equal(t, "a", page[0].Text)

	page, _, err = repo.GetDocumentsPage(project.ID, 2, 5)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "f", page[0].Text)
	assert.Equal(t, "g", page[1].Text)

	page, _, err = repo.GetDocumentsPage(project.ID, 3, 5)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestRepository_GetAnnotatedDocuments(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	t.Run("classification returns each annotated document once", func(t *testing.T) {
		project := createProject(t, repo, entities.ProjectTypeDocumentClassification)
		require.NoError(t, repo.BulkCreateDocuments([]entities.Document{
			{ProjectID: project.ID, Text: "first"},
			{ProjectID: project.ID, Text: "unannotated"},
			{ProjectID: project.ID, Text: "third"},
		}))
		page, _, err := repo.GetDocumentsPage(project.ID, 1, 10)
		require.NoError(t, err)

		pos := &entities.Label{ProjectID: project.ID, Text: "positive"}
		neg := &entities.Label{ProjectID: project.ID, Text: "negative"}
		require.NoError(t, repo.CreateLabel(pos))
		require.NoError(t, repo.CreateLabel(neg))

		require.NoError(t, repo.AddDocumentAnnotation(project, &entities.DocumentAnnotation{DocumentID: page[2].ID, UserID: bob.ID, LabelID: neg.ID}))
		require.NoError(t, repo.AddDocumentAnnotation(project, &entities.DocumentAnnotation{DocumentID: page[0].ID, UserID: alice.ID, LabelID: pos.ID}))
		require.NoError(t, repo.AddDocumentAnnotation(project, &entities.DocumentAnnotation{DocumentID: page[0].ID, UserID: bob.ID, LabelID: neg.ID}))

		docs, err := repo.GetAnnotatedDocuments(project)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "first", docs[0].Text)
		assert.Equal(t, "third", docs[1].Text)

		require.Len(t, docs[0].DocAnnotations, 2)
		assert.Equal(t, "positive", docs[0].DocAnnotations[0].Label.Text)
		assert.Equal(t, "alice", docs[0].DocAnnotations[0].User.Username)
		assert.Equal(t, project.ProjectType, docs[0].Project.ProjectType)

		rows := docs[0].ToCSV()
		assert.Equal(t, []string{"first", "positive", "alice"}, rows[0])
	})

	t.Run("sequence labeling loads spans", func(t *testing.T) {
		project := createProject(t, repo, entities.ProjectTypeSequenceLabeling)
		require.NoError(t, repo.BulkCreateDocuments([]entities.Document{{ProjectID: project.ID, Text: "Go to 東京"}}))
		page, _, err := repo.GetDocumentsPage(project.ID, 1, 1)
		require.NoError(t, err)

		loc := &entities.Label{ProjectID: project.ID, Text: "LOC"}
		require.NoError(t, repo.CreateLabel(loc))
		require.NoError(t, repo.AddSequenceAnnotation(project, &entities.SequenceAnnotation{
			DocumentID: page[0].ID, UserID: alice.ID, LabelID: loc.ID, StartOffset: 6, EndOffset: 8,
		}))

		docs, err := repo.GetAnnotatedDocuments(project)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Contains(t, docs[0].ToBIO(), "東 B-LOC\n京 I-LOC")
	})

	t.Run("project without annotations exports nothing", func(t *testing.T) {
		project := createProject(t, repo, entities.ProjectTypeSeq2seq)
		require.NoError(t, repo.BulkCreateDocuments([]entities.Document{{ProjectID: project.ID, Text: "lonely"}}))

		docs, err := repo.GetAnnotatedDocuments(project)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}

func TestRepository_AddAnnotationValidation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user := createUser(t, db, "carol")

	seq := createProject(t, repo, entities.ProjectTypeSequenceLabeling)
	require.NoError(t, repo.BulkCreateDocuments([]entities.Document{{ProjectID: seq.ID, Text: "abc"}}))
	page, _, err := repo.GetDocumentsPage(seq.ID, 1, 1)
	require.NoError(t, err)
	label := &entities.Label{ProjectID: seq.ID, Text: "X"}
	require.NoError(t, repo.CreateLabel(label))

	t.Run("span past end of text", func(t *testing.T) {
		err := repo.AddSequenceAnnotation(seq, &entities.SequenceAnnotation{
			DocumentID: page[0].ID, UserID: user.ID, LabelID: label.ID, StartOffset: 1, EndOffset: 4,
		})
		assert.ErrorIs(t, err, ErrInvalidSpan)
	})

	t.Run("empty span", func(t *testing.T) {
		err := repo.AddSequenceAnnotation(seq, &entities.SequenceAnnotation{
			DocumentID: page[0].ID, UserID: user.ID, LabelID: label.ID, StartOffset: 2, EndOffset: 2,
		})
		assert.ErrorIs(t, err, ErrInvalidSpan)
	})

	t.Run("wrong annotation kind", func(t *testing.T) {
		err := repo.AddDocumentAnnotation(seq, &entities.DocumentAnnotation{DocumentID: page[0].ID, UserID: user.ID, LabelID: label.ID})
		assert.ErrorIs(t, err, ErrWrongProjectType)
	})

	t.Run("document from another project", func(t *testing.T) {
		other := createProject(t, repo, entities.ProjectTypeSeq2seq)
		err := repo.AddSeq2seqAnnotation(other, &entities.Seq2seqAnnotation{DocumentID: page[0].ID, UserID: user.ID, Text: "x"})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("duplicate label text in project", func(t *testing.T) {
		err := repo.CreateLabel(&entities.Label{ProjectID: seq.ID, Text: "X"})
		assert.Error(t, err)
	})
}

func TestRepository_GetProjectStats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user := createUser(t, db, "dave")

	project := createProject(t, repo, entities.ProjectTypeDocumentClassification)
	require.NoError(t, repo.BulkCreateDocuments([]entities.Document{
		{ProjectID: project.ID, Text: "one"},
		{ProjectID: project.ID, Text: "two"},
		{ProjectID: project.ID, Text: "three"},
	}))
	page, _, err := repo.GetDocumentsPage(project.ID, 1, 3)
	require.NoError(t, err)

	pos := &entities.Label{ProjectID: project.ID, Text: "positive"}
	require.NoError(t, repo.CreateLabel(pos))
	require.NoError(t, repo.AddDocumentAnnotation(project, &entities.DocumentAnnotation{DocumentID: page[0].ID, UserID: user.ID, LabelID: pos.ID}))
	require.NoError(t, repo.AddDocumentAnnotation(project, &entities.DocumentAnnotation{DocumentID: page[1].ID, UserID: user.ID, LabelID: pos.ID}))

	stats, err := repo.GetProjectStats(project)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Annotated)
	assert.Equal(t, int64(1), stats.Remaining)
	assert.Equal(t, map[string]int64{"positive": 2}, stats.LabelCounts)
}

func TestRepository_Membership(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	erin := createUser(t, db, "erin")

	mine := createProject(t, repo, entities.ProjectTypeSeq2seq)
	createProject(t, repo, entities.ProjectTypeSequenceLabeling)

	require.NoError(t, repo.AddMember(mine.ID, erin.ID))
	require.NoError(t, repo.AddMember(mine.ID, erin.ID))

	member, err := repo.IsMember(mine.ID, erin.ID)
	require.NoError(t, err)
	assert.True(t, member)

	projects, err := repo.ListProjectsForUser(erin.ID)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, mine.ID, projects[0].ID)

	all, err := repo.ListProjects()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
