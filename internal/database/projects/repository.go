// Package projects provides database operations for projects, their labels,
// documents and annotations.
//
// # Usage
//
//	repo := projects.NewRepository(db.DB)
//	project, err := repo.GetProjectByID(1)
//	docs, err := repo.GetAnnotatedDocuments(project)
package projects

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/doclabel/internal/entities"
)

// BatchSize bounds how many documents go into a single INSERT statement.
const BatchSize = 500

var (
	ErrInvalidSpan      = errors.New("annotation span must satisfy 0 <= start < end <= len(text)")
	ErrWrongProjectType = errors.New("annotation kind does not match project type")
)

// Repository handles project, label, document and annotation persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new projects repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// --- Projects ---

func (r *Repository) CreateProject(project *entities.Project) error {
	if !project.ProjectType.Valid() {
		return fmt.Errorf("invalid project type %q", project.ProjectType)
	}
	return r.db.Omit(clause.Associations).Create(project).Error
}

// GetProjectByID returns gorm.ErrRecordNotFound when the project does not exist.
func (r *Repository) GetProjectByID(id uint) (*entities.Project, error) {
	var project entities.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *Repository) ListProjects() ([]entities.Project, error) {
	var projects []entities.Project
	err := r.db.Order("created_at DESC, id DESC").Find(&projects).Error
	return projects, err
}

// ListProjectsForUser returns the projects the user has been added to.
func (r *Repository) ListProjectsForUser(userID uint) ([]entities.Project, error) {
	var projects []entities.Project
	err := r.db.Joins("JOIN project_users ON project_users.project_id = projects.id").
		Where("project_users.user_id = ?", userID).
		Order("projects.created_at DESC, projects.id DESC").
		Find(&projects).Error
	return projects, err
}

// AddMember grants a user access to a project. Adding an existing member is a no-op.
func (r *Repository) AddMember(projectID, userID uint) error {
	project := entities.Project{ID: projectID}
	return r.db.Model(&project).Association("Users").Append(&entities.User{ID: userID})
}

func (r *Repository) IsMember(projectID, userID uint) (bool, error) {
	var count int64
	err := r.db.Table("project_users").
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}

// --- Documents ---

// BulkCreateDocuments inserts all documents in one transaction: either every
// document is stored or none is.
func (r *Repository) BulkCreateDocuments(docs []entities.Document) error {
	if len(docs) == 0 {
		return nil
	}
	for i := range docs {
		if docs[i].ProjectID == 0 {
			return fmt.Errorf("document %d has no project", i)
		}
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).CreateInBatches(&docs, BatchSize).Error
	})
}

// GetDocumentsPage returns one page (1-based) of a project's documents and the total count.
func (r *Repository) GetDocumentsPage(projectID uint, page, pageSize int) ([]entities.Document, int64, error) {
	var total int64
	query := r.db.Model(&entities.Document{}).Where("project_id = ?", projectID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if pageSize <= 0 {
		pageSize = 5
	}
	if page < 1 {
		page = 1
	}

	var docs []entities.Document
	err := query.Order("id ASC").Limit(pageSize).Offset((page - 1) * pageSize).Find(&docs).Error
	return docs, total, err
}

func (r *Repository) GetDocument(projectID, docID uint) (*entities.Document, error) {
	var doc entities.Document
	if err := r.db.Where("project_id = ?", projectID).First(&doc, docID).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *Repository) CountDocuments(projectID uint) (int64, error) {
	var total int64
	err := r.db.Model(&entities.Document{}).Where("project_id = ?", projectID).Count(&total).Error
	return total, err
}

// GetAnnotatedDocuments returns each project document that has at least one
// annotation, once, ordered by ID, with annotations, labels and users loaded.
func (r *Repository) GetAnnotatedDocuments(project *entities.Project) ([]entities.Document, error) {
	annotated := r.db.Table(project.AnnotationTable()).Select("document_id")

	query := r.db.Where("project_id = ? AND id IN (?)", project.ID, annotated).Order("id ASC")
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }

	switch project.ProjectType {
	case entities.ProjectTypeSequenceLabeling:
		query = query.Preload("SeqAnnotations", byID).Preload("SeqAnnotations.Label").Preload("SeqAnnotations.User")
	case entities.ProjectTypeSeq2seq:
		query = query.Preload("Seq2seqAnnotations", byID).Preload("Seq2seqAnnotations.User")
	default:
		query = query.Preload("DocAnnotations", byID).Preload("DocAnnotations.Label").Preload("DocAnnotations.User")
	}

	var docs []entities.Document
	if err := query.Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to load annotated documents: %w", err)
	}

	for i := range docs {
		docs[i].Project = *project
	}
	return docs, nil
}

// --- Labels ---

func (r *Repository) CreateLabel(label *entities.Label) error {
	return r.db.Create(label).Error
}

func (r *Repository) GetLabelsForProject(projectID uint) ([]entities.Label, error) {
	var labels []entities.Label
	err := r.db.Where("project_id = ?", projectID).Order("id ASC").Find(&labels).Error
	return labels, err
}

func (r *Repository) getLabel(projectID, labelID uint) (*entities.Label, error) {
	var label entities.Label
	if err := r.db.Where("project_id = ?", projectID).First(&label, labelID).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

// --- Annotations ---

func (r *Repository) AddDocumentAnnotation(project *entities.Project, a *entities.DocumentAnnotation) error {
	if project.ProjectType != entities.ProjectTypeDocumentClassification {
		return ErrWrongProjectType
	}
	if _, err := r.GetDocument(project.ID, a.DocumentID); err != nil {
		return err
	}
	if _, err := r.getLabel(project.ID, a.LabelID); err != nil {
		return err
	}
	return r.db.Omit(clause.Associations).Create(a).Error
}

func (r *Repository) AddSequenceAnnotation(project *entities.Project, a *entities.SequenceAnnotation) error {
	if project.ProjectType != entities.ProjectTypeSequenceLabeling {
		return ErrWrongProjectType
	}
	doc, err := r.GetDocument(project.ID, a.DocumentID)
	if err != nil {
		return err
	}
	if a.StartOffset < 0 || a.StartOffset >= a.EndOffset || a.EndOffset > len([]rune(doc.Text)) {
		return ErrInvalidSpan
	}
	if _, err := r.getLabel(project.ID, a.LabelID); err != nil {
		return err
	}
	return r.db.Omit(clause.Associations).Create(a).Error
}

func (r *Repository) AddSeq2seqAnnotation(project *entities.Project, a *entities.Seq2seqAnnotation) error {
	if project.ProjectType != entities.ProjectTypeSeq2seq {
		return ErrWrongProjectType
	}
	if _, err := r.GetDocument(project.ID, a.DocumentID); err != nil {
		return err
	}
	return r.db.Omit(clause.Associations).Create(a).Error
}

// --- Stats ---

// ProjectStats summarises annotation progress for the stats page.
type ProjectStats struct {
	Total       int64            `json:"total"`
	Annotated   int64            `json:"annotated"`
	Remaining   int64            `json:"remaining"`
	LabelCounts map[string]int64 `json:"label_counts"`
}

func (r *Repository) GetProjectStats(project *entities.Project) (*ProjectStats, error) {
	stats := &ProjectStats{LabelCounts: make(map[string]int64)}

	total, err := r.CountDocuments(project.ID)
	if err != nil {
		return nil, err
	}
	stats.Total = total

	annotated := r.db.Table(project.AnnotationTable()).Select("document_id")
	err = r.db.Model(&entities.Document{}).
		Where("project_id = ? AND id IN (?)", project.ID, annotated).
		Count(&stats.Annotated).Error
	if err != nil {
		return nil, err
	}
	stats.Remaining = stats.Total - stats.Annotated

	if project.ProjectType == entities.ProjectTypeSeq2seq {
		return stats, nil
	}

	var rows []struct {
		Text  string
		Count int64
	}
	err = r.db.Table(project.AnnotationTable()+" AS a").
		Select("labels.text AS text, COUNT(*) AS count").
		Joins("JOIN labels ON labels.id = a.label_id").
		Joins("JOIN documents ON documents.id = a.document_id").
		Where("documents.project_id = ? AND documents.deleted_at IS NULL", project.ID).
		Group("labels.text").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.LabelCounts[row.Text] = row.Count
	}

	return stats, nil
}
