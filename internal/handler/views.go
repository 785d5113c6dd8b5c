package handler

import (
	"math"
	"time"

	"github.com/urbansense/siteimpact/internal/models"
	"github.com/urbansense/siteimpact/internal/service"
	"github.com/urbansense/siteimpact/internal/spatial"
	"github.com/urbansense/siteimpact/internal/timeseries"
)

// geoJSON shapes for the map views. NaN never reaches these: encoding/json
// rejects it, so nullable cells are encoded as nil pointers instead.

type featureCollection struct {
	Type string `json:"type"`
	// Center is a foreign member carrying the suggested map centre as
	// [lon, lat], the geodesic midpoint of the boundary bounding box.
	Center   []float64 `json:"center,omitempty"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string         `json:"type"`
	Geometry   geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

func sensorsFeatureCollection(result *service.Result) featureCollection {
	selected := make(map[string]string, len(result.AirSensors)+len(result.VehicleIDs))
	for _, id := range result.AirSensors {
		selected[id] = "air_quality"
	}
	for _, id := range result.VehicleIDs {
		selected[id] = "vehicle"
	}

	features := make([]feature, 0, len(result.Sensors)+1)
	for _, s := range result.Sensors {
		props := map[string]any{
			"sensor_id":   s.ID,
			"broker_name": s.Broker,
			"sensor_type": string(s.Type),
		}
		if group, ok := selected[s.ID]; ok {
			props["selected_as"] = group
		}
		features = append(features, feature{
			Type:       "Feature",
			Geometry:   pointGeometry(s.Location),
			Properties: props,
		})
	}

	fc := featureCollection{Type: "FeatureCollection"}
	if len(result.Boundary) > 0 {
		features = append(features, feature{
			Type:       "Feature",
			Geometry:   polygonGeometry(result.Boundary),
			Properties: map[string]any{"role": "boundary"},
		})

		minLon, minLat, maxLon, maxLat := result.Boundary.BoundingBox()
		center := spatial.Midpoint(spatial.Point{Lon: minLon, Lat: minLat}, spatial.Point{Lon: maxLon, Lat: maxLat})
		fc.Center = []float64{center.Lon, center.Lat}
	}

	fc.Features = features
	return fc
}

func roadsFeatureCollection(roads []models.RoadGeometry) featureCollection {
	features := make([]feature, 0, len(roads))
	for _, r := range roads {
		features = append(features, feature{
			Type:     "Feature",
			Geometry: multiLineGeometry(r.Routed),
			Properties: map[string]any{
				"sensor_id":     r.Link.SensorID,
				"road_length_m": r.RoadLengthM,
				"fallback":      r.Fallback,
			},
		})
	}
	return featureCollection{Type: "FeatureCollection", Features: features}
}

func pointGeometry(p spatial.Point) geometry {
	return geometry{Type: "Point", Coordinates: []float64{p.Lon, p.Lat}}
}

func polygonGeometry(poly spatial.Polygon) geometry {
	ring := make([][]float64, 0, len(poly)+1)
	for _, p := range poly {
		ring = append(ring, []float64{p.Lon, p.Lat})
	}
	if len(poly) > 0 && poly[0] != poly[len(poly)-1] {
		ring = append(ring, []float64{poly[0].Lon, poly[0].Lat})
	}
	return geometry{Type: "Polygon", Coordinates: [][][]float64{ring}}
}

func multiLineGeometry(m spatial.MultiLine) geometry {
	coords := make([][][]float64, 0, len(m))
	for _, line := range m {
		part := make([][]float64, 0, len(line))
		for _, p := range line {
			part = append(part, []float64{p.Lon, p.Lat})
		}
		coords = append(coords, part)
	}
	return geometry{Type: "MultiLineString", Coordinates: coords}
}

type decompositionPayload struct {
	Index      []string              `json:"index"`
	Components map[string][]*float64 `json:"components"`
	Order      []string              `json:"order"`
}

func decompositionView(d *timeseries.DecompositionResult) decompositionPayload {
	index := make([]string, len(d.Index))
	for i, t := range d.Index {
		index[i] = t.Format(time.RFC3339)
	}

	order, series := d.Components()
	components := make(map[string][]*float64, len(series))
	for name, values := range series {
		out := make([]*float64, len(values))
		for i, v := range values {
			out[i] = nullable(v)
		}
		components[name] = out
	}

	return decompositionPayload{Index: index, Components: components, Order: order}
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
