package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/doclabel/internal/auth"
	"github.com/mrlokans/doclabel/internal/config"
	"github.com/mrlokans/doclabel/internal/entities"
)

const maxProjectNameLength = 100

// PagesController renders the HTML pages: the project list, the annotation
// page of a project and its admin pages.
type PagesController struct {
	store    ProjectStore
	pageSize int
}

func NewPagesController(store ProjectStore, pageSize int) *PagesController {
	if pageSize <= 0 {
		pageSize = config.DefaultDatasetPageSize
	}
	return &PagesController{store: store, pageSize: pageSize}
}

// pageData holds the values every page template expects.
func pageData(c *gin.Context, title string) gin.H {
	return gin.H{
		"Title":       title,
		"Auth":        GetAuthTemplateData(c),
		"Demo":        GetDemoTemplateData(c),
		"CSRFToken":   auth.GetCSRFToken(c),
		"IsSuperuser": auth.IsSuperuser(c),
	}
}

func renderNotFound(c *gin.Context, message string) {
	data := pageData(c, "Not found")
	data["Message"] = message
	c.HTML(http.StatusNotFound, "not_found.html", data)
}

// NotFound renders the 404 page for unknown routes.
func NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		respondNotFound(c, "resource")
		return
	}
	renderNotFound(c, "")
}

// loadProject resolves :project_id and renders the 404 page when the project
// does not exist. Users without the superuser role must be project members.
func loadProject(c *gin.Context, store ProjectGetter) (*entities.Project, bool) {
	id, err := parseUintParam(c, "project_id")
	if err != nil {
		renderNotFound(c, "Project not found")
		return nil, false
	}

	project, err := store.GetProjectByID(id)
	if err != nil {
		if isNotFound(err) {
			renderNotFound(c, "Project not found")
		} else {
			log.Printf("Failed to load project %d: %v", id, err)
			c.String(http.StatusInternalServerError, "Error loading project")
		}
		return nil, false
	}

	if !canAccessProject(c, store, project.ID) {
		c.String(http.StatusForbidden, auth.ErrForbidden.Error())
		return nil, false
	}
	return project, true
}

func canAccessProject(c *gin.Context, store ProjectGetter, projectID uint) bool {
	if auth.IsSuperuser(c) {
		return true
	}
	member, err := store.IsMember(projectID, GetUserID(c))
	if err != nil {
		log.Printf("Failed to check membership of project %d: %v", projectID, err)
		return false
	}
	return member
}

// documentsPage loads the "?page=" page of a project's documents.
// Out-of-range pages yield ErrInvalidPage.
func (pc *PagesController) documentsPage(c *gin.Context, projectID uint) ([]entities.Document, Page, error) {
	number, err := parsePageNumber(c.Query("page"))
	if err != nil {
		return nil, Page{}, err
	}

	docs, total, err := pc.store.GetDocumentsPage(projectID, number, pc.pageSize)
	if err != nil {
		return nil, Page{}, err
	}

	page, err := newPage(number, pc.pageSize, total)
	if err != nil {
		return nil, Page{}, err
	}
	return docs, page, nil
}

func (pc *PagesController) renderDocuments(c *gin.Context, template string, data gin.H, project *entities.Project) {
	docs, page, err := pc.documentsPage(c, project.ID)
	if err != nil {
		if errors.Is(err, ErrInvalidPage) {
			renderNotFound(c, "Invalid page")
			return
		}
		log.Printf("Failed to load documents of project %d: %v", project.ID, err)
		c.String(http.StatusInternalServerError, "Error loading documents")
		return
	}

	data["Documents"] = docs
	data["Page"] = page
	c.HTML(http.StatusOK, template, data)
}

// Index renders the landing page.
// GET /
func (pc *PagesController) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", pageData(c, ""))
}

func (pc *PagesController) listProjects(c *gin.Context) ([]entities.Project, error) {
	if auth.IsSuperuser(c) {
		return pc.store.ListProjects()
	}
	return pc.store.ListProjectsForUser(GetUserID(c))
}

func (pc *PagesController) renderProjects(c *gin.Context, status int, formError string) {
	list, err := pc.listProjects(c)
	if err != nil {
		log.Printf("Failed to list projects: %v", err)
		c.String(http.StatusInternalServerError, "Error loading projects")
		return
	}

	data := pageData(c, "Projects")
	data["Projects"] = list
	data["ProjectTypes"] = entities.ProjectTypes
	data["CanCreate"] = auth.IsSuperuser(c)
	data["Error"] = formError
	c.HTML(status, "projects.html", data)
}

// Projects lists the projects visible to the user.
// GET /projects
func (pc *PagesController) Projects(c *gin.Context) {
	pc.renderProjects(c, http.StatusOK, "")
}

// CreateProject creates a project from the form on the projects page and
// continues with its upload page.
// POST /projects
func (pc *PagesController) CreateProject(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	projectType := entities.ProjectType(c.PostForm("project_type"))

	switch {
	case name == "":
		pc.renderProjects(c, http.StatusBadRequest, "Project name is required")
		return
	case utf8.RuneCountInString(name) > maxProjectNameLength:
		pc.renderProjects(c, http.StatusBadRequest, fmt.Sprintf("Project name must be at most %d characters", maxProjectNameLength))
		return
	case !projectType.Valid():
		pc.renderProjects(c, http.StatusBadRequest, "Choose a project type")
		return
	}

	project := &entities.Project{
		Name:        name,
		Description: strings.TrimSpace(c.PostForm("description")),
		Guideline:   c.PostForm("guideline"),
		ProjectType: projectType,
	}
	if err := pc.store.CreateProject(project); err != nil {
		log.Printf("Failed to create project %q: %v", name, err)
		pc.renderProjects(c, http.StatusInternalServerError, "Could not create the project")
		return
	}

	if userID := GetUserID(c); userID != auth.DefaultUserID {
		if err := pc.store.AddMember(project.ID, userID); err != nil {
			log.Printf("Failed to add user %d to project %d: %v", userID, project.ID, err)
		}
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/projects/%d/docs/create", project.ID))
}

// Project renders the annotation page matching the project's type.
// GET /projects/:project_id
func (pc *PagesController) Project(c *gin.Context) {
	project, ok := loadProject(c, pc.store)
	if !ok {
		return
	}

	labels, err := pc.store.GetLabelsForProject(project.ID)
	if err != nil {
		log.Printf("Failed to load labels of project %d: %v", project.ID, err)
		c.String(http.StatusInternalServerError, "Error loading labels")
		return
	}

	data := pageData(c, project.Name)
	data["Project"] = project
	data["Labels"] = labels
	pc.renderDocuments(c, project.TemplateName(), data, project)
}

// Dataset lists a project's documents, one page at a time.
// GET /projects/:project_id/docs
func (pc *PagesController) Dataset(c *gin.Context) {
	project, ok := loadProject(c, pc.store)
	if !ok {
		return
	}

	data := pageData(c, project.Name+" · Dataset")
	data["Project"] = project
	pc.renderDocuments(c, "admin/dataset.html", data, project)
}

// Labels renders the label management page.
// GET /projects/:project_id/labels
func (pc *PagesController) Labels(c *gin.Context) {
	project, ok := loadProject(c, pc.store)
	if !ok {
		return
	}

	labels, err := pc.store.GetLabelsForProject(project.ID)
	if err != nil {
		log.Printf("Failed to load labels of project %d: %v", project.ID, err)
		c.String(http.StatusInternalServerError, "Error loading labels")
		return
	}

	data := pageData(c, project.Name+" · Labels")
	data["Project"] = project
	data["Labels"] = labels
	c.HTML(http.StatusOK, "admin/label.html", data)
}

// Stats renders annotation progress.
// GET /projects/:project_id/stats
func (pc *PagesController) Stats(c *gin.Context) {
	project, ok := loadProject(c, pc.store)
	if !ok {
		return
	}

	stats, err := pc.store.GetProjectStats(project)
	if err != nil {
		log.Printf("Failed to compute stats of project %d: %v", project.ID, err)
		c.String(http.StatusInternalServerError, "Error loading stats")
		return
	}

	data := pageData(c, project.Name+" · Stats")
	data["Project"] = project
	data["Stats"] = stats
	c.HTML(http.StatusOK, "admin/stats.html", data)
}

// Guideline renders the annotation guideline.
// GET /projects/:project_id/guideline
func (pc *PagesController) Guideline(c *gin.Context) {
	project, ok := loadProject(c, pc.store)
	if !ok {
		return
	}

	data := pageData(c, project.Name+" · Guideline")
	data["Project"] = project
	c.HTML(http.StatusOK, "admin/guideline.html", data)
}

// DemoPage returns a handler rendering one of the public demo pages.
func DemoPage(template, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, template, pageData(c, title))
	}
}
