package uoapi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urbansense/siteimpact/internal/spatial"
)

// parseWKTLine extracts the endpoints of a WKT LINESTRING. Intermediate
// vertices are dropped: the link is the straight line between the sensors,
// and road snapping reconstructs the street path.
func parseWKTLine(wkt string) (spatial.Line, error) {
	s := strings.TrimSpace(wkt)
	upper := strings.ToUpper(s)
	if !strings.HasPrefix(upper, "LINESTRING") {
		return spatial.Line{}, fmt.Errorf("unsupported WKT geometry %q", firstToken(s))
	}

	open := strings.Index(s, "(")
	closing := strings.LastIndex(s, ")")
	if open < 0 || closing < open {
		return spatial.Line{}, fmt.Errorf("malformed WKT %q", s)
	}

	coords := strings.Split(s[open+1:closing], ",")
	if len(coords) < 2 {
		return spatial.Line{}, fmt.Errorf("WKT linestring needs at least two points")
	}

	start, err := parseWKTPoint(coords[0])
	if err != nil {
		return spatial.Line{}, err
	}
	end, err := parseWKTPoint(coords[len(coords)-1])
	if err != nil {
		return spatial.Line{}, err
	}

	return spatial.Line{Start: start, End: end}, nil
}

func parseWKTPoint(pair string) (spatial.Point, error) {
	fields := strings.Fields(strings.TrimSpace(pair))
	if len(fields) < 2 {
		return spatial.Point{}, fmt.Errorf("malformed WKT coordinate %q", pair)
	}

	lon, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return spatial.Point{}, fmt.Errorf("malformed WKT longitude %q", fields[0])
	}
	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return spatial.Point{}, fmt.Errorf("malformed WKT latitude %q", fields[1])
	}

	return spatial.Point{Lon: lon, Lat: lat}, nil
}

func firstToken(s string) string {
	if i := strings.IndexAny(s, " ("); i > 0 {
		return s[:i]
	}
	return s
}
