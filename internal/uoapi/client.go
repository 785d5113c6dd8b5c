package uoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/urbansense/siteimpact/internal/models"
	"github.com/urbansense/siteimpact/internal/spatial"
)

// timeseriesPageLimit caps one page of readings; large windows are paged
// with limit/offset to keep individual requests from failing.
const timeseriesPageLimit = 1000

// Client fetches sensor metadata and time series from the Urban Observatory
// API, and boundary polygons from an ArcGIS feature service.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	boundaryURL string
}

// NewClient constructs a Client. If httpClient is nil, one with a 30 second
// timeout is used.
func NewClient(httpClient *http.Client, baseURL, boundaryURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		boundaryURL: boundaryURL,
	}
}

type sensorsResponse struct {
	Sensors []sensorRecord `json:"Sensors"`
}

type sensorRecord struct {
	SensorName  string   `json:"Sensor_Name"`
	BrokerName  string   `json:"Broker_Name"`
	CentroidLon *float64 `json:"Sensor_Centroid_Longitude"`
	CentroidLat *float64 `json:"Sensor_Centroid_Latitude"`
	LocationWKT string   `json:"Location_WKT"`
}

// FetchSensorLocations retrieves the full sensor list. A sensor without a
// name or centroid geometry is a fatal upstream integrity violation, not
// silently defaulted.
func (c *Client) FetchSensorLocations(ctx context.Context) ([]models.SensorLocation, error) {
	var payload sensorsResponse
	if err := c.getJSON(ctx, c.sensorsURL(), &payload); err != nil {
		return nil, fmt.Errorf("fetch sensor locations: %w", err)
	}

	out := make([]models.SensorLocation, 0, len(payload.Sensors))
	for _, s := range payload.Sensors {
		if s.SensorName == "" {
			return nil, fmt.Errorf("sensor record without Sensor_Name")
		}
		if s.CentroidLon == nil || s.CentroidLat == nil {
			return nil, fmt.Errorf("sensor %q has no centroid geometry", s.SensorName)
		}
		out = append(out, models.SensorLocation{
			ID:     s.SensorName,
			Broker: s.BrokerName,
			Location: spatial.Point{
				Lon: *s.CentroidLon,
				Lat: *s.CentroidLat,
			},
		})
	}
	return out, nil
}

// FetchRoadLinks retrieves straight-line link geometries (Location_WKT) for
// the requested traffic sensors.
func (c *Client) FetchRoadLinks(ctx context.Context, sensorIDs []string) ([]models.RoadLink, error) {
	var payload sensorsResponse
	if err := c.getJSON(ctx, c.sensorsURL(), &payload); err != nil {
		return nil, fmt.Errorf("fetch road links: %w", err)
	}

	wanted := make(map[string]bool, len(sensorIDs))
	for _, id := range sensorIDs {
		wanted[id] = true
	}

	out := make([]models.RoadLink, 0, len(sensorIDs))
	for _, s := range payload.Sensors {
		if !wanted[s.SensorName] {
			continue
		}
		line, err := parseWKTLine(s.LocationWKT)
		if err != nil {
			return nil, fmt.Errorf("sensor %q: %w", s.SensorName, err)
		}
		out = append(out, models.RoadLink{SensorID: s.SensorName, Line: line})
	}
	return out, nil
}

type readingsResponse struct {
	Readings []readingRecord `json:"Readings"`
}

type readingRecord struct {
	Variable  string   `json:"Variable"`
	Timestamp string   `json:"Timestamp"`
	Value     *float64 `json:"Value"`
	Flagged   bool     `json:"Flagged"`
}

// FetchTimeseries retrieves a sensor's readings between two times, paging
// with limit/offset until the provider runs out of rows.
func (c *Client) FetchTimeseries(ctx context.Context, sensorID string, start, end time.Time) ([]models.SensorReading, error) {
	var out []models.SensorReading
	offset := 0

	for {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(timeseriesPageLimit))
		q.Set("offset", strconv.Itoa(offset))
		q.Set("start", start.Format(time.RFC3339))
		q.Set("end", end.Format(time.RFC3339))

		endpoint := fmt.Sprintf("%s/sensors/%s/data/json?%s", c.baseURL, url.PathEscape(sensorID), q.Encode())

		var payload readingsResponse
		if err := c.getJSON(ctx, endpoint, &payload); err != nil {
			return nil, fmt.Errorf("fetch timeseries for %s: %w", sensorID, err)
		}

		if len(payload.Readings) == 0 {
			break
		}

		for _, r := range payload.Readings {
			if r.Value == nil {
				continue
			}
			ts, err := parseTimestamp(r.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("sensor %s: %w", sensorID, err)
			}
			out = append(out, models.SensorReading{
				SensorID:  sensorID,
				Variable:  r.Variable,
				Timestamp: ts,
				Value:     *r.Value,
				Flagged:   r.Flagged,
			})
		}

		if len(payload.Readings) < timeseriesPageLimit {
			break
		}
		offset += timeseriesPageLimit
	}

	return out, nil
}

func (c *Client) sensorsURL() string {
	// limit=-1 disables provider-side pagination for the metadata listing.
	return c.baseURL + "/sensors/json?limit=-1"
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// parseTimestamp accepts the two timestamp layouts the provider emits.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}
