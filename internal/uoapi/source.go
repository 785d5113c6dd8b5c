package uoapi

import (
	"context"
	"time"

	"github.com/urbansense/siteimpact/internal/models"
	"github.com/urbansense/siteimpact/internal/spatial"
)

// SensorDataSource is the capability the analysis pipeline depends on for
// upstream data, so the core never touches concrete network calls.
type SensorDataSource interface {
	// FetchSensorLocations returns every sensor the provider knows about.
	FetchSensorLocations(ctx context.Context) ([]models.SensorLocation, error)

	// FetchRoadLinks returns the straight-line link geometries for the given
	// traffic sensors.
	FetchRoadLinks(ctx context.Context, sensorIDs []string) ([]models.RoadLink, error)

	// FetchTimeseries returns the readings of one sensor between two times.
	FetchTimeseries(ctx context.Context, sensorID string, start, end time.Time) ([]models.SensorReading, error)

	// FetchBoundary returns the boundary polygon of a named area.
	FetchBoundary(ctx context.Context, area string) (spatial.Polygon, error)
}
