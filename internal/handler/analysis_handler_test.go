package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbansense/siteimpact/internal/models"
	"github.com/urbansense/siteimpact/internal/service"
	"github.com/urbansense/siteimpact/internal/spatial"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(h gin.HandlerFunc, method string) *httptest.ResponseRecorder {
	r := gin.New()
	r.Handle(method, "/x", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, "/x", nil))
	return w
}

func TestStatusBeforeAnyRun(t *testing.T) {
	h := NewAnalysisHandler(nil)

	w := performRequest(h.Status, http.MethodGet)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Running   bool `json:"running"`
			HasResult bool `json:"has_result"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Data.Running)
	assert.False(t, body.Data.HasResult)
}

func TestViewsWithoutResultReturn404(t *testing.T) {
	h := NewAnalysisHandler(nil)

	for _, fn := range []gin.HandlerFunc{
		h.GetSensors, h.GetRoads, h.GetCorrelation,
		h.GetDecomposition, h.GetScenario, h.GetCleanReport,
	} {
		w := performRequest(fn, http.MethodGet)
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
}

func TestGetSensorsGeoJSON(t *testing.T) {
	h := NewAnalysisHandler(nil)
	h.result = &service.Result{
		Boundary: spatial.Polygon{
			{Lon: -1.7, Lat: 54.9},
			{Lon: -1.5, Lat: 54.9},
			{Lon: -1.5, Lat: 55.1},
		},
		Sensors: []models.SensorLocation{
			{ID: "PER_AIRMON_1", Broker: "aq_mesh_api", Type: models.TypeAirQuality, Location: spatial.Point{Lon: -1.61, Lat: 54.98}},
		},
		AirSensors: []string{"PER_AIRMON_1"},
	}

	w := performRequest(h.GetSensors, http.MethodGet)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Type     string    `json:"type"`
			Center   []float64 `json:"center"`
			Features []struct {
				Geometry struct {
					Type string `json:"type"`
				} `json:"geometry"`
				Properties map[string]any `json:"properties"`
			} `json:"features"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "FeatureCollection", body.Data.Type)
	require.Len(t, body.Data.Features, 2)
	assert.Equal(t, "Point", body.Data.Features[0].Geometry.Type)
	assert.Equal(t, "air_quality", body.Data.Features[0].Properties["selected_as"])
	assert.Equal(t, "Polygon", body.Data.Features[1].Geometry.Type)

	// Map centre is the geodesic midpoint of the boundary bounding box.
	require.Len(t, body.Data.Center, 2)
	assert.InDelta(t, -1.6, body.Data.Center[0], 0.001)
	assert.InDelta(t, 55.0, body.Data.Center[1], 0.001)
}

func TestGetRoadsIncludesFallbackFlag(t *testing.T) {
	h := NewAnalysisHandler(nil)
	h.result = &service.Result{
		Roads: []models.RoadGeometry{
			{
				Link:        models.RoadLink{SensorID: "PER_NE_CAJT_A"},
				Routed:      spatial.MultiLine{{{Lon: -1.62, Lat: 54.98}, {Lon: -1.61, Lat: 54.99}}},
				RoadLengthM: 1234,
				Fallback:    true,
			},
		},
		RouteReport: models.RouteReport{Fallbacks: []models.RouteFallback{{SensorID: "PER_NE_CAJT_A", Reason: "no path"}}},
	}

	w := performRequest(h.GetRoads, http.MethodGet)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MultiLineString")
	assert.Contains(t, w.Body.String(), `"fallback":true`)
}

func TestTriggerRunConflictWhileRunning(t *testing.T) {
	h := NewAnalysisHandler(nil)
	h.running = true

	w := performRequest(h.TriggerRun, http.MethodPost)
	assert.Equal(t, http.StatusConflict, w.Code)
}
