package entities

import (
	"time"

	"gorm.io/gorm"
)

type ProjectType string

const (
	ProjectTypeDocumentClassification ProjectType = "DocumentClassification"
	ProjectTypeSequenceLabeling       ProjectType = "SequenceLabeling"
	ProjectTypeSeq2seq                ProjectType = "Seq2seq"
)

// Valid reports whether t is one of the supported project types.
func (t ProjectType) Valid() bool {
	switch t {
	case ProjectTypeDocumentClassification, ProjectTypeSequenceLabeling, ProjectTypeSeq2seq:
		return true
	}
	return false
}

// DisplayName is the human readable project type shown in forms.
func (t ProjectType) DisplayName() string {
	switch t {
	case ProjectTypeDocumentClassification:
		return "document classification"
	case ProjectTypeSequenceLabeling:
		return "sequence labeling"
	case ProjectTypeSeq2seq:
		return "sequence to sequence"
	}
	return string(t)
}

// ProjectTypes lists the project types in the order the creation form offers them.
var ProjectTypes = []ProjectType{
	ProjectTypeDocumentClassification,
	ProjectTypeSequenceLabeling,
	ProjectTypeSeq2seq,
}

type Project struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Guideline   string         `gorm:"type:text" json:"guideline"`
	ProjectType ProjectType    `gorm:"size:30;not null" json:"project_type"`
	Users       []User         `gorm:"many2many:project_users;" json:"-"`
	Documents   []Document     `gorm:"foreignKey:ProjectID" json:"-"`
	Labels      []Label        `gorm:"foreignKey:ProjectID" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string {
	return "projects"
}

// TemplateName returns the annotation page template for the project's type.
func (p *Project) TemplateName() string {
	switch p.ProjectType {
	case ProjectTypeDocumentClassification:
		return "annotation/document_classification.html"
	case ProjectTypeSequenceLabeling:
		return "annotation/sequence_labeling.html"
	case ProjectTypeSeq2seq:
		return "annotation/seq2seq.html"
	}
	return "annotation/annotation_base.html"
}

// AnnotationTable is the table holding this project type's annotations.
func (p *Project) AnnotationTable() string {
	switch p.ProjectType {
	case ProjectTypeSequenceLabeling:
		return SequenceAnnotation{}.TableName()
	case ProjectTypeSeq2seq:
		return Seq2seqAnnotation{}.TableName()
	}
	return DocumentAnnotation{}.TableName()
}

type Label struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProjectID       uint      `gorm:"not null;uniqueIndex:idx_label_project_text" json:"project_id"`
	Text            string    `gorm:"size:100;not null;uniqueIndex:idx_label_project_text" json:"text"`
	Shortcut        string    `gorm:"size:15" json:"shortcut,omitempty"`
	BackgroundColor string    `gorm:"size:7;default:'#209cee'" json:"background_color"`
	TextColor       string    `gorm:"size:7;default:'#ffffff'" json:"text_color"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Label) TableName() string {
	return "labels"
}
