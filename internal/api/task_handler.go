package api

import (
	"net/http"

	"github.com/calebsw/lettermill-api/internal/api/shared"
	"github.com/calebsw/lettermill-api/internal/scheduler"
)

// TaskHandler exposes the scheduler pass over HTTP
type TaskHandler struct {
	scheduler *scheduler.Scheduler
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(s *scheduler.Scheduler) *TaskHandler {
	return &TaskHandler{
		scheduler: s,
	}
}

// ProcessDue handles POST /api/tasks/process-due requests. It runs one
// scheduler pass synchronously; overlapping with the cron-driven pass is
// safe because task claims are atomic.
func (h *TaskHandler) ProcessDue(w http.ResponseWriter, r *http.Request) {
	processed, err := h.scheduler.ProcessScheduledTasks(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to process scheduled tasks", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ProcessDueResponse{
		Message:   "Scheduled tasks processed",
		Processed: processed,
	})
}
