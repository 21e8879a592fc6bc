package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/doclabel/internal/config"
	"github.com/mrlokans/doclabel/internal/exporters"
)

// DatasetController moves documents in and out of a project: the upload
// and download pages and the handlers behind their forms.
type DatasetController struct {
	store    ProjectGetter
	importer DocumentImporter
	exporter DatasetExporter
	auditor  DatasetAuditor
	maxBytes int64
}

func NewDatasetController(store ProjectGetter, importer DocumentImporter, exporter DatasetExporter, auditor DatasetAuditor, maxBytes int64) *DatasetController {
	if maxBytes <= 0 {
		maxBytes = config.DefaultUploadMaxBytes
	}
	return &DatasetController{
		store:    store,
		importer: importer,
		exporter: exporter,
		auditor:  auditor,
		maxBytes: maxBytes,
	}
}

// UploadPage renders the import form.
// GET /projects/:project_id/docs/create
func (dc *DatasetController) UploadPage(c *gin.Context) {
	project, ok := loadProject(c, dc.store)
	if !ok {
		return
	}

	data := pageData(c, project.Name+" · Import")
	data["Project"] = project
	data["Formats"] = dc.importer.Formats()
	data["MaxMegabytes"] = dc.maxBytes >> 20
	c.HTML(http.StatusOK, "admin/dataset_upload.html", data)
}

// Upload imports the posted file in the declared format. Failures send the
// user back to the upload page without detail; the cause is only logged.
// POST /projects/:project_id/docs/create
func (dc *DatasetController) Upload(c *gin.Context) {
	project, ok := loadProject(c, dc.store)
	if !ok {
		return
	}
	uploadPage := fmt.Sprintf("/projects/%d/docs/create", project.ID)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, dc.maxBytes)

	format := c.PostForm("format")
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		log.Printf("[IMPORT] project %d: no file in upload: %v", project.ID, err)
		c.Redirect(http.StatusFound, uploadPage)
		return
	}
	defer file.Close()

	log.Printf("[IMPORT] format=%s file=%s", format, header.Filename)

	result, err := dc.importer.Import(project.ID, format, file)
	if dc.auditor != nil {
		dc.auditor.LogImport(GetUserID(c), project.ID, format, header.Filename, result.Documents, err)
	}
	if err != nil {
		log.Printf("[IMPORT] project %d: %v", project.ID, err)
		c.Redirect(http.StatusFound, uploadPage)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/projects/%d/docs", project.ID))
}

// DownloadPage renders the export form.
// GET /projects/:project_id/docs/download
func (dc *DatasetController) DownloadPage(c *gin.Context) {
	project, ok := loadProject(c, dc.store)
	if !ok {
		return
	}

	data := pageData(c, project.Name+" · Export")
	data["Project"] = project
	data["Formats"] = dc.exporter.Formats()
	c.HTML(http.StatusOK, "admin/dataset_download.html", data)
}

// Download sends the annotated documents as an attachment. An unknown
// format is a server error; any other failure returns to the download page.
// GET /projects/:project_id/docs/download_file?format=csv|json|bio
func (dc *DatasetController) Download(c *gin.Context) {
	project, ok := loadProject(c, dc.store)
	if !ok {
		return
	}
	format := c.Query("format")

	out, err := dc.exporter.Export(project, format)
	if err != nil {
		if dc.auditor != nil {
			dc.auditor.LogExport(GetUserID(c), project.ID, format, 0, err)
		}
		log.Printf("[EXPORT] project %d: %v", project.ID, err)

		if errors.Is(err, exporters.ErrUnsupportedFormat) {
			c.String(http.StatusInternalServerError, "Unsupported export format")
			return
		}
		c.Redirect(http.StatusFound, fmt.Sprintf("/projects/%d/docs/download", project.ID))
		return
	}

	if dc.auditor != nil {
		dc.auditor.LogExport(GetUserID(c), project.ID, format, out.Documents, nil)
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", out.Filename))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}
