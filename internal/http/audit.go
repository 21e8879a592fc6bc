package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/doclabel/internal/entities"
)

const defaultEventLimit = 20

// AuditReader exposes the recorded import, export and login events.
type AuditReader interface {
	GetProjectEvents(projectID uint, limit int) ([]entities.AuditEvent, error)
	CountFailures(eventType entities.AuditEventType) (int64, error)
}

type AuditController struct {
	store  ProjectGetter
	events AuditReader
}

func NewAuditController(store ProjectGetter, events AuditReader) *AuditController {
	return &AuditController{store: store, events: events}
}

// ProjectEvents returns the latest imports and exports of a project and
// how many of them failed.
// GET /api/projects/:project_id/events?limit=N
func (ac *AuditController) ProjectEvents(c *gin.Context) {
	id, ok := parseIDParam(c, "project_id")
	if !ok {
		return
	}
	if _, err := ac.store.GetProjectByID(id); err != nil {
		if isNotFound(err) {
			respondNotFound(c, "project")
		} else {
			respondInternalError(c, err, "load project")
		}
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultEventLimit)))
	if err != nil || limit < 1 || limit > 100 {
		respondBadRequest(c, "limit must be between 1 and 100")
		return
	}

	events, err := ac.events.GetProjectEvents(id, limit)
	if err != nil {
		respondInternalError(c, err, "project events")
		return
	}
	failed := 0
	for _, e := range events {
		if e.Failed() {
			failed++
		}
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "failed": failed})
}

// FailureSummary counts failed imports, exports and logins.
// GET /api/audit/failures
func (ac *AuditController) FailureSummary(c *gin.Context) {
	summary := make(map[entities.AuditEventType]int64, 3)
	for _, eventType := range []entities.AuditEventType{entities.AuditEventImport, entities.AuditEventExport, entities.AuditEventAuth} {
		count, err := ac.events.CountFailures(eventType)
		if err != nil {
			respondInternalError(c, err, "count audit failures")
			return
		}
		summary[eventType] = count
	}
	c.JSON(http.StatusOK, summary)
}
