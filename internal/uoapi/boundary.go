package uoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/urbansense/siteimpact/internal/spatial"
)

type boundaryResponse struct {
	Features []struct {
		Geometry struct {
			Type        string          `json:"type"`
			Coordinates json.RawMessage `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// FetchBoundary retrieves the boundary polygon of a named local-authority
// area as GeoJSON and returns its exterior ring. For a MultiPolygon the
// largest part's exterior ring is used.
func (c *Client) FetchBoundary(ctx context.Context, area string) (spatial.Polygon, error) {
	q := url.Values{}
	q.Set("where", whereClause(area))
	q.Set("outFields", "*")
	q.Set("outSR", "4326")
	q.Set("f", "geojson")

	var payload boundaryResponse
	if err := c.getJSON(ctx, c.boundaryURL+"?"+q.Encode(), &payload); err != nil {
		return nil, fmt.Errorf("fetch boundary for %q: %w", area, err)
	}

	if len(payload.Features) == 0 {
		return nil, fmt.Errorf("no boundary feature returned for %q", area)
	}

	geom := payload.Features[0].Geometry
	ring, err := exteriorRing(geom.Type, geom.Coordinates)
	if err != nil {
		return nil, fmt.Errorf("boundary for %q: %w", area, err)
	}

	poly := make(spatial.Polygon, 0, len(ring))
	for _, coord := range ring {
		if len(coord) < 2 {
			return nil, fmt.Errorf("boundary for %q has malformed coordinate", area)
		}
		poly = append(poly, spatial.Point{Lon: coord[0], Lat: coord[1]})
	}

	return poly, nil
}

func exteriorRing(geomType string, coords json.RawMessage) ([][]float64, error) {
	switch geomType {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(coords, &rings); err != nil {
			return nil, fmt.Errorf("decode polygon: %w", err)
		}
		if len(rings) == 0 {
			return nil, fmt.Errorf("polygon has no rings")
		}
		return rings[0], nil
	case "MultiPolygon":
		var parts [][][][]float64
		if err := json.Unmarshal(coords, &parts); err != nil {
			return nil, fmt.Errorf("decode multipolygon: %w", err)
		}
		var best [][]float64
		for _, part := range parts {
			if len(part) > 0 && len(part[0]) > len(best) {
				best = part[0]
			}
		}
		if best == nil {
			return nil, fmt.Errorf("multipolygon has no rings")
		}
		return best, nil
	default:
		return nil, fmt.Errorf("unsupported geometry %q", geomType)
	}
}

// whereClause wraps a bare area name into an attribute filter; expressions
// containing an operator pass through untouched.
func whereClause(area string) string {
	if strings.ContainsAny(area, "=<>") {
		return area
	}
	return fmt.Sprintf("LAD23NM = '%s'", strings.ReplaceAll(area, "'", "''"))
}
