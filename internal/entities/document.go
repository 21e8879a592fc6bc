package entities

import (
	"time"

	"gorm.io/gorm"
)

// EmptyMetadata is stored when a document is created without metadata.
const EmptyMetadata = "{}"

type Document struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ProjectID   uint   `gorm:"not null;index" json:"project_id"`
	Text        string `gorm:"type:text;not null" json:"text"`
	Metadata    string `gorm:"type:text;not null;default:'{}'" json:"metadata"`
	ImportBatch string `gorm:"size:36;index" json:"import_batch,omitempty"`

	Project            Project              `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	DocAnnotations     []DocumentAnnotation `gorm:"foreignKey:DocumentID" json:"-"`
	SeqAnnotations     []SequenceAnnotation `gorm:"foreignKey:DocumentID" json:"-"`
	Seq2seqAnnotations []Seq2seqAnnotation  `gorm:"foreignKey:DocumentID" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Document) TableName() string {
	return "documents"
}

// BeforeCreate fills in defaults that the bulk insert path would otherwise leave empty.
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.Metadata == "" {
		d.Metadata = EmptyMetadata
	}
	return nil
}

// DocumentAnnotation assigns a label to a whole document (classification projects).
type DocumentAnnotation struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DocumentID uint      `gorm:"not null;index" json:"document_id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	LabelID    uint      `gorm:"not null" json:"label_id"`
	Prob       float64   `gorm:"default:0" json:"prob"`
	Manual     bool      `gorm:"default:false" json:"manual"`
	Label      Label     `gorm:"foreignKey:LabelID" json:"label"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

func (DocumentAnnotation) TableName() string {
	return "document_annotations"
}

// SequenceAnnotation labels the rune range [StartOffset, EndOffset) of a document.
type SequenceAnnotation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DocumentID  uint      `gorm:"not null;index" json:"document_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	LabelID     uint      `gorm:"not null" json:"label_id"`
	StartOffset int       `gorm:"not null" json:"start_offset"`
	EndOffset   int       `gorm:"not null" json:"end_offset"`
	Prob        float64   `gorm:"default:0" json:"prob"`
	Manual      bool      `gorm:"default:false" json:"manual"`
	Label       Label     `gorm:"foreignKey:LabelID" json:"label"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

func (SequenceAnnotation) TableName() string {
	return "sequence_annotations"
}

// Seq2seqAnnotation stores a free-text output (translation, summary) for a document.
type Seq2seqAnnotation struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DocumentID uint      `gorm:"not null;index" json:"document_id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	Prob       float64   `gorm:"default:0" json:"prob"`
	Manual     bool      `gorm:"default:false" json:"manual"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Seq2seqAnnotation) TableName() string {
	return "seq2seq_annotations"
}
