package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/urbansense/siteimpact/internal/repository"
	"github.com/urbansense/siteimpact/pkg/response"
)

// RunsHandler serves the history of recorded analysis runs.
type RunsHandler struct {
	runs *repository.RunsRepository
}

// NewRunsHandler creates a new runs handler
func NewRunsHandler(runs *repository.RunsRepository) *RunsHandler {
	return &RunsHandler{runs: runs}
}

// ListRuns handles GET /api/v1/runs
func (h *RunsHandler) ListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 0 {
		response.BadRequest(c, "Invalid limit parameter")
		return
	}

	runs, err := h.runs.List(limit)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, runs)
}
