package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/doclabel/internal/auth"
	"github.com/mrlokans/doclabel/internal/database/projects"
	"github.com/mrlokans/doclabel/internal/entities"
	"github.com/mrlokans/doclabel/internal/utils"
)

// DefaultLabelColor is the background of a label created without one.
const DefaultLabelColor = "#209cee"

// APIController serves the JSON endpoints used by the label, stats and
// annotation pages.
type APIController struct {
	store ProjectStore
}

func NewAPIController(store ProjectStore) *APIController {
	return &APIController{store: store}
}

// LabelRequest is the body of POST /api/projects/:project_id/labels.
type LabelRequest struct {
	Text            string `json:"text"`
	Shortcut        string `json:"shortcut"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
}

// AnnotationRequest is the body of POST /api/projects/:project_id/docs/:doc_id/annotations.
// Which fields are required depends on the project type.
type AnnotationRequest struct {
	LabelID     uint    `json:"label_id"`
	StartOffset *int    `json:"start_offset"`
	EndOffset   *int    `json:"end_offset"`
	Text        string  `json:"text"`
	Prob        float64 `json:"prob"`
}

// apiProject resolves :project_id for the JSON endpoints.
func (ac *APIController) apiProject(c *gin.Context) (*entities.Project, bool) {
	id, ok := parseIDParam(c, "project_id")
	if !ok {
		return nil, false
	}

	project, err := ac.store.GetProjectByID(id)
	if err != nil {
		if isNotFound(err) {
			respondNotFound(c, "project")
		} else {
			respondInternalError(c, err, "load project")
		}
		return nil, false
	}

	if !canAccessProject(c, ac.store, project.ID) {
		respondForbidden(c)
		return nil, false
	}
	return project, true
}

// ListLabels returns the labels of a project.
// GET /api/projects/:project_id/labels
func (ac *APIController) ListLabels(c *gin.Context) {
	project, ok := ac.apiProject(c)
	if !ok {
		return
	}

	labels, err := ac.store.GetLabelsForProject(project.ID)
	if err != nil {
		respondInternalError(c, err, "list labels")
		return
	}
	c.JSON(http.StatusOK, labels)
}

// CreateLabel adds a label to a project. The text color defaults to black or
// white, whichever reads better on the background.
// POST /api/projects/:project_id/labels
func (ac *APIController) CreateLabel(c *gin.Context) {
	project, ok := ac.apiProject(c)
	if !ok {
		return
	}

	var req LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		respondBadRequest(c, "label text is required")
		return
	}

	background := req.BackgroundColor
	if background == "" {
		background = DefaultLabelColor
	}
	background, err := utils.NormalizeHexColor(background)
	if err != nil {
		respondBadRequest(c, "invalid background_color")
		return
	}

	textColor := utils.ContrastTextColor(background)
	if req.TextColor != "" {
		if textColor, err = utils.NormalizeHexColor(req.TextColor); err != nil {
			respondBadRequest(c, "invalid text_color")
			return
		}
	}

	existing, err := ac.store.GetLabelsForProject(project.ID)
	if err != nil {
		respondInternalError(c, err, "list labels")
		return
	}
	for _, l := range existing {
		if l.Text == text {
			respondError(c, http.StatusConflict, "label_exists", "label already exists")
			return
		}
	}

	label := &entities.Label{
		ProjectID:       project.ID,
		Text:            text,
		Shortcut:        strings.TrimSpace(req.Shortcut),
		BackgroundColor: background,
		TextColor:       textColor,
	}
	if err := ac.store.CreateLabel(label); err != nil {
		if isDuplicate(err) {
			respondError(c, http.StatusConflict, "label_exists", "label already exists")
			return
		}
		respondInternalError(c, err, "create label")
		return
	}

	respondCreated(c, label)
}

// CreateAnnotation records an annotation of the kind the project type uses:
// a label for classification, a labelled span for sequence labeling and an
// output text for seq2seq.
// POST /api/projects/:project_id/docs/:doc_id/annotations
func (ac *APIController) CreateAnnotation(c *gin.Context) {
	project, ok := ac.apiProject(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c, "doc_id")
	if !ok {
		return
	}

	userID := GetUserID(c)
	if userID == auth.DefaultUserID {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: auth.ErrAuthRequired.Error()})
		return
	}

	var req AnnotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	var (
		annotation any
		err        error
	)
	switch project.ProjectType {
	case entities.ProjectTypeDocumentClassification:
		if req.LabelID == 0 {
			respondBadRequest(c, "label_id is required")
			return
		}
		a := &entities.DocumentAnnotation{DocumentID: docID, UserID: userID, LabelID: req.LabelID, Prob: req.Prob, Manual: true}
		annotation, err = a, ac.store.AddDocumentAnnotation(project, a)

	case entities.ProjectTypeSequenceLabeling:
		if req.LabelID == 0 || req.StartOffset == nil || req.EndOffset == nil {
			respondBadRequest(c, "label_id, start_offset and end_offset are required")
			return
		}
		a := &entities.SequenceAnnotation{
			DocumentID:  docID,
			UserID:      userID,
			LabelID:     req.LabelID,
			StartOffset: *req.StartOffset,
			EndOffset:   *req.EndOffset,
			Prob:        req.Prob,
			Manual:      true,
		}
		annotation, err = a, ac.store.AddSequenceAnnotation(project, a)

	case entities.ProjectTypeSeq2seq:
		text := strings.TrimSpace(req.Text)
		if text == "" {
			respondBadRequest(c, "text is required")
			return
		}
		a := &entities.Seq2seqAnnotation{DocumentID: docID, UserID: userID, Text: text, Prob: req.Prob, Manual: true}
		annotation, err = a, ac.store.AddSeq2seqAnnotation(project, a)

	default:
		err = projects.ErrWrongProjectType
	}

	switch {
	case err == nil:
		respondCreated(c, annotation)
	case errors.Is(err, projects.ErrInvalidSpan), errors.Is(err, projects.ErrWrongProjectType):
		respondBadRequest(c, err.Error())
	case isNotFound(err):
		respondNotFound(c, "document or label")
	default:
		respondInternalError(c, err, "create annotation")
	}
}

// Stats returns annotation progress of a project.
// GET /api/projects/:project_id/stats
func (ac *APIController) Stats(c *gin.Context) {
	project, ok := ac.apiProject(c)
	if !ok {
		return
	}

	stats, err := ac.store.GetProjectStats(project)
	if err != nil {
		respondInternalError(c, err, "project stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
