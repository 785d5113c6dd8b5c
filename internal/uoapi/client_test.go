package uoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSensorLocations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sensors/json", r.URL.Path)
		assert.Equal(t, "-1", r.URL.Query().Get("limit"))
		fmt.Fprint(w, `{"Sensors":[
			{"Sensor_Name":"PER_AIRMON_1","Broker_Name":"aq_mesh_api","Sensor_Centroid_Longitude":-1.61,"Sensor_Centroid_Latitude":54.98},
			{"Sensor_Name":"PER_NE_CAJT_2","Broker_Name":"NE Travel Data API","Sensor_Centroid_Longitude":-1.62,"Sensor_Centroid_Latitude":54.99}
		]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "")
	out, err := c.FetchSensorLocations(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "PER_AIRMON_1", out[0].ID)
	assert.Equal(t, "aq_mesh_api", out[0].Broker)
	assert.Equal(t, -1.61, out[0].Location.Lon)
	assert.Equal(t, 54.98, out[0].Location.Lat)
}

func TestFetchSensorLocationsMissingCentroid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Sensors":[{"Sensor_Name":"PER_AIRMON_1","Broker_Name":"aq_mesh_api"}]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "")
	_, err := c.FetchSensorLocations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no centroid geometry")
}

func TestFetchRoadLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Sensors":[
			{"Sensor_Name":"PER_NE_CAJT_A","Broker_Name":"NE Travel Data API","Sensor_Centroid_Longitude":-1.6,"Sensor_Centroid_Latitude":54.9,"Location_WKT":"LINESTRING (-1.62 54.98, -1.615 54.985, -1.61 54.99)"},
			{"Sensor_Name":"PER_NE_CAJT_B","Broker_Name":"NE Travel Data API","Sensor_Centroid_Longitude":-1.6,"Sensor_Centroid_Latitude":54.9,"Location_WKT":"LINESTRING (-1.60 54.97, -1.59 54.96)"}
		]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "")
	out, err := c.FetchRoadLinks(context.Background(), []string{"PER_NE_CAJT_A"})
	require.NoError(t, err)
	require.Len(t, out, 1)

	link := out[0]
	assert.Equal(t, "PER_NE_CAJT_A", link.SensorID)
	// Intermediate vertices are dropped; only the endpoints survive.
	assert.Equal(t, -1.62, link.Line.Start.Lon)
	assert.Equal(t, 54.98, link.Line.Start.Lat)
	assert.Equal(t, -1.61, link.Line.End.Lon)
	assert.Equal(t, 54.99, link.Line.End.Lat)
}

func TestFetchTimeseriesPagination(t *testing.T) {
	const pageSize = timeseriesPageLimit
	total := pageSize + 3

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sensors/PER_AIRMON_1/data/json", r.URL.Path)

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		count := pageSize
		if offset+count > total {
			count = total - offset
		}
		if count < 0 {
			count = 0
		}

		readings := make([]map[string]any, 0, count)
		for i := 0; i < count; i++ {
			readings = append(readings, map[string]any{
				"Variable":  "NO2",
				"Timestamp": time.Date(2023, 5, 5, 0, 0, offset+i, 0, time.UTC).Format("2006-01-02 15:04:05"),
				"Value":     float64(offset + i),
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"Readings": readings})
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "")
	out, err := c.FetchTimeseries(context.Background(), "PER_AIRMON_1",
		time.Date(2023, 5, 5, 0, 0, 0, 0, time.UTC), time.Date(2023, 5, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, out, total)
	assert.Equal(t, "NO2", out[0].Variable)
	assert.Equal(t, float64(total-1), out[total-1].Value)
}

func TestFetchTimeseriesSkipsNullValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Readings":[
			{"Variable":"NO2","Timestamp":"2023-05-05 10:00:00","Value":4.5,"Flagged":true},
			{"Variable":"NO2","Timestamp":"2023-05-05 11:00:00","Value":null}
		]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "")
	out, err := c.FetchTimeseries(context.Background(), "PER_AIRMON_1",
		time.Date(2023, 5, 5, 0, 0, 0, 0, time.UTC), time.Date(2023, 5, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 4.5, out[0].Value)
	assert.True(t, out[0].Flagged)
	assert.Equal(t, time.Date(2023, 5, 5, 10, 0, 0, 0, time.UTC), out[0].Timestamp)
}

func TestFetchTimeseriesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "")
	_, err := c.FetchTimeseries(context.Background(), "PER_AIRMON_1", time.Time{}, time.Time{})
	assert.Error(t, err)
}

func TestFetchBoundaryPolygon(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "LAD23NM = 'Newcastle upon Tyne'", r.URL.Query().Get("where"))
		assert.Equal(t, "geojson", r.URL.Query().Get("f"))
		fmt.Fprint(w, `{"features":[{"geometry":{"type":"Polygon","coordinates":[[[-1.7,54.9],[-1.5,54.9],[-1.5,55.1],[-1.7,55.1],[-1.7,54.9]]]}}]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), "", srv.URL)
	poly, err := c.FetchBoundary(context.Background(), "Newcastle upon Tyne")
	require.NoError(t, err)
	require.Len(t, poly, 5)
	assert.Equal(t, -1.7, poly[0].Lon)
	assert.Equal(t, 54.9, poly[0].Lat)
}

func TestFetchBoundaryMultiPolygonPicksLargest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"features":[{"geometry":{"type":"MultiPolygon","coordinates":[
			[[[0,0],[1,0],[0,1],[0,0]]],
			[[[-1.7,54.9],[-1.5,54.9],[-1.5,55.1],[-1.7,55.1],[-1.7,54.9]]]
		]}}]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), "", srv.URL)
	poly, err := c.FetchBoundary(context.Background(), "Newcastle upon Tyne")
	require.NoError(t, err)
	assert.Len(t, poly, 5)
}

func TestFetchBoundaryNoFeature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"features":[]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), "", srv.URL)
	_, err := c.FetchBoundary(context.Background(), "Nowhere")
	assert.Error(t, err)
}

func TestWhereClause(t *testing.T) {
	assert.Equal(t, "LAD23NM = 'Newcastle upon Tyne'", whereClause("Newcastle upon Tyne"))
	assert.Equal(t, "LAD23NM = 'King''s Lynn'", whereClause("King's Lynn"))
	assert.Equal(t, "POP > 100000", whereClause("POP > 100000"))
}

func TestParseWKTLine(t *testing.T) {
	line, err := parseWKTLine("LINESTRING (-1.62 54.98, -1.61 54.99)")
	require.NoError(t, err)
	assert.Equal(t, -1.62, line.Start.Lon)
	assert.Equal(t, 54.99, line.End.Lat)

	_, err = parseWKTLine("POINT (-1.62 54.98)")
	assert.Error(t, err)

	_, err = parseWKTLine("LINESTRING (-1.62 54.98)")
	assert.Error(t, err)

	_, err = parseWKTLine("LINESTRING (-1.62)")
	assert.Error(t, err)
}
