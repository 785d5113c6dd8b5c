package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/urbansense/siteimpact/internal/handler"
	"github.com/urbansense/siteimpact/internal/middleware"
)

// SetupRouter wires the viewer endpoints. The trigger endpoint is rate
// limited because one run holds the upstream APIs for minutes.
func SetupRouter(analysis *handler.AnalysisHandler, runs *handler.RunsHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Site Impact API is running",
		})
	})

	api := r.Group("/api/v1")
	{
		a := api.Group("/analysis")
		{
			a.POST("/run", middleware.RateLimit(2, time.Minute), analysis.TriggerRun)
			a.GET("/status", analysis.Status)
			a.GET("/sensors", analysis.GetSensors)
			a.GET("/roads", analysis.GetRoads)
			a.GET("/correlation", analysis.GetCorrelation)
			a.GET("/decomposition", analysis.GetDecomposition)
			a.GET("/scenario", analysis.GetScenario)
			a.GET("/clean-report", analysis.GetCleanReport)
		}

		charts := api.Group("/charts")
		{
			charts.GET("/correlation", analysis.CorrelationChart)
			charts.GET("/decomposition", analysis.DecompositionChart)
			charts.GET("/seasonal-profiles", analysis.SeasonalProfilesChart)
		}

		if runs != nil {
			api.GET("/runs", runs.ListRuns)
		}
	}

	return r
}
