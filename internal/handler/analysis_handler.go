package handler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/urbansense/siteimpact/internal/service"
	"github.com/urbansense/siteimpact/pkg/response"
)

// runTimeout bounds one background pipeline execution. Upstream fetches for a
// full multi-month window can take minutes.
const runTimeout = 30 * time.Minute

// AnalysisHandler triggers pipeline runs and serves the latest result.
// One run at a time; results are replaced wholesale when a run finishes.
type AnalysisHandler struct {
	svc *service.AnalysisService

	mu      sync.Mutex
	running bool
	result  *service.Result
	lastErr error
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(svc *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

// TriggerRun handles POST /api/v1/analysis/run
func (h *AnalysisHandler) TriggerRun(c *gin.Context) {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		response.Conflict(c, "an analysis run is already in progress")
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.run()

	response.Accepted(c, "analysis run started")
}

func (h *AnalysisHandler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	result, err := h.svc.Run(ctx)

	h.mu.Lock()
	h.running = false
	h.lastErr = err
	if err == nil {
		h.result = result
	}
	h.mu.Unlock()

	if err != nil {
		log.Printf("analysis run failed: %v", err)
	}
}

// Status handles GET /api/v1/analysis/status
func (h *AnalysisHandler) Status(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	status := gin.H{
		"running":    h.running,
		"has_result": h.result != nil,
	}
	if h.lastErr != nil {
		status["last_error"] = h.lastErr.Error()
	}
	if h.result != nil {
		status["run_id"] = h.result.RunID
		if len(h.result.FailedSensors) > 0 {
			status["failed_sensors"] = h.result.FailedSensors
		}
	}
	response.Success(c, status)
}

// latest returns the most recent completed result, or nil.
func (h *AnalysisHandler) latest() *service.Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

// GetSensors handles GET /api/v1/analysis/sensors
func (h *AnalysisHandler) GetSensors(c *gin.Context) {
	result := h.latest()
	if result == nil {
		response.NotFound(c, "no completed analysis run")
		return
	}
	response.Success(c, sensorsFeatureCollection(result))
}

// GetRoads handles GET /api/v1/analysis/roads
func (h *AnalysisHandler) GetRoads(c *gin.Context) {
	result := h.latest()
	if result == nil {
		response.NotFound(c, "no completed analysis run")
		return
	}
	response.Success(c, gin.H{
		"roads":  roadsFeatureCollection(result.Roads),
		"report": result.RouteReport,
	})
}

// GetCorrelation handles GET /api/v1/analysis/correlation
func (h *AnalysisHandler) GetCorrelation(c *gin.Context) {
	result := h.latest()
	if result == nil || result.Correlation == nil {
		response.NotFound(c, "no correlation matrix available")
		return
	}
	response.Success(c, result.Correlation)
}

// GetDecomposition handles GET /api/v1/analysis/decomposition
func (h *AnalysisHandler) GetDecomposition(c *gin.Context) {
	result := h.latest()
	if result == nil || result.Decomposition == nil {
		response.NotFound(c, "no decomposition available")
		return
	}
	response.Success(c, decompositionView(result.Decomposition))
}

// GetScenario handles GET /api/v1/analysis/scenario
func (h *AnalysisHandler) GetScenario(c *gin.Context) {
	result := h.latest()
	if result == nil {
		response.NotFound(c, "no completed analysis run")
		return
	}
	response.Success(c, result.Scenario)
}

// GetCleanReport handles GET /api/v1/analysis/clean-report
func (h *AnalysisHandler) GetCleanReport(c *gin.Context) {
	result := h.latest()
	if result == nil {
		response.NotFound(c, "no completed analysis run")
		return
	}
	response.Success(c, result.CleanReport)
}
