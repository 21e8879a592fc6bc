package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
)

// TaskRunner enqueues maintenance tasks and reports their progress.
type TaskRunner interface {
	EnqueueAuditCleanup(ctx context.Context, retentionDays int) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// statusTimeout bounds the queue lookup behind GET /api/tasks/:id.
const statusTimeout = 5 * time.Second

// TasksController lets admins trigger audit retention by hand and follow the run.
type TasksController struct {
	runner        TaskRunner
	retentionDays int
}

func NewTasksController(runner TaskRunner, retentionDays int) *TasksController {
	return &TasksController{runner: runner, retentionDays: retentionDays}
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	id := c.Param("id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), statusTimeout)
	defer cancel()

	status, err := tc.runner.Status(ctx, id)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": taskStatusToString(status)})
}

// RunAuditCleanup handles POST /api/tasks/cleanup_audit_events/run
func (tc *TasksController) RunAuditCleanup(c *gin.Context) {
	id, err := tc.runner.EnqueueAuditCleanup(c.Request.Context(), tc.retentionDays)
	if err != nil {
		respondInternalError(c, err, "enqueue audit cleanup")
		return
	}

	log.Printf("[TASK] Audit cleanup %s requested by user %d (retention %d days)", id, GetUserID(c), tc.retentionDays)
	c.JSON(http.StatusAccepted, gin.H{
		"task_id": id,
		"type":    "cleanup_audit_events",
		"message": "task enqueued",
	})
}

var taskStatusNames = map[backlite.TaskStatus]string{
	backlite.TaskStatusPending:  "pending",
	backlite.TaskStatusRunning:  "running",
	backlite.TaskStatusSuccess:  "success",
	backlite.TaskStatusFailure:  "failure",
	backlite.TaskStatusNotFound: "not_found",
}

func taskStatusToString(status backlite.TaskStatus) string {
	if name, ok := taskStatusNames[status]; ok {
		return name
	}
	return "unknown"
}
