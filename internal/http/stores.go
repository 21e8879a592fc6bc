package http

import (
	"io"

	"github.com/mrlokans/doclabel/internal/database/projects"
	"github.com/mrlokans/doclabel/internal/entities"
	"github.com/mrlokans/doclabel/internal/exporters"
	"github.com/mrlokans/doclabel/internal/importers"
)

// --- Project Store Interfaces ---
// Controllers declare the narrowest capability they need; projects.Repository
// implements all of them.

// ProjectGetter provides read access to a single project.
type ProjectGetter interface {
	GetProjectByID(id uint) (*entities.Project, error)
	IsMember(projectID, userID uint) (bool, error)
}

// ProjectReader lists projects and their contents for the pages.
type ProjectReader interface {
	ProjectGetter
	ListProjects() ([]entities.Project, error)
	ListProjectsForUser(userID uint) ([]entities.Project, error)
	GetDocumentsPage(projectID uint, page, pageSize int) ([]entities.Document, int64, error)
	GetLabelsForProject(projectID uint) ([]entities.Label, error)
	GetProjectStats(project *entities.Project) (*projects.ProjectStats, error)
}

// ProjectWriter creates projects, labels and annotations.
type ProjectWriter interface {
	CreateProject(project *entities.Project) error
	AddMember(projectID, userID uint) error
	CreateLabel(label *entities.Label) error
	AddDocumentAnnotation(project *entities.Project, a *entities.DocumentAnnotation) error
	AddSequenceAnnotation(project *entities.Project, a *entities.SequenceAnnotation) error
	AddSeq2seqAnnotation(project *entities.Project, a *entities.Seq2seqAnnotation) error
}

// ProjectStore combines read and write access.
type ProjectStore interface {
	ProjectReader
	ProjectWriter
}

// --- Dataset Interfaces ---

// DocumentImporter turns an uploaded file into project documents.
type DocumentImporter interface {
	Import(projectID uint, format string, r io.Reader) (importers.Result, error)
	Formats() []string
}

// DatasetExporter serializes a project's annotated documents.
type DatasetExporter interface {
	Export(project *entities.Project, format string) (*exporters.Output, error)
	Formats() []string
}

// DatasetAuditor records imports and exports. May be nil.
type DatasetAuditor interface {
	LogImport(userID, projectID uint, format, filename string, documents int, err error)
	LogExport(userID, projectID uint, format string, documents int, err error)
}
