package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urbansense/siteimpact/internal/viz"
	"github.com/urbansense/siteimpact/pkg/response"
)

// CorrelationChart handles GET /api/v1/charts/correlation, rendering the
// heatmap as a standalone HTML page.
func (h *AnalysisHandler) CorrelationChart(c *gin.Context) {
	result := h.latest()
	if result == nil || result.Correlation == nil {
		response.NotFound(c, "no correlation matrix available")
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := viz.RenderCorrelation(c.Writer, result.Correlation); err != nil {
		_ = c.Error(err)
	}
}

// DecompositionChart handles GET /api/v1/charts/decomposition
func (h *AnalysisHandler) DecompositionChart(c *gin.Context) {
	result := h.latest()
	if result == nil || result.Decomposition == nil {
		response.NotFound(c, "no decomposition available")
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := viz.RenderDecomposition(c.Writer, result.Decomposition); err != nil {
		_ = c.Error(err)
	}
}

// SeasonalProfilesChart handles GET /api/v1/charts/seasonal-profiles
func (h *AnalysisHandler) SeasonalProfilesChart(c *gin.Context) {
	result := h.latest()
	if result == nil || result.Decomposition == nil {
		response.NotFound(c, "no decomposition available")
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := viz.RenderSeasonalProfiles(c.Writer, result.Decomposition); err != nil {
		_ = c.Error(err)
	}
}
