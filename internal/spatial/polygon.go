package spatial

// Polygon is a closed exterior ring of geographic points. Rings do not need
// an explicit closing vertex.
type Polygon []Point

// Contains checks whether a point lies inside the polygon using ray casting.
func (poly Polygon) Contains(p Point) bool {
	if len(poly) < 3 {
		return false
	}

	inside := false
	j := len(poly) - 1

	for i := 0; i < len(poly); i++ {
		if ((poly[i].Lat > p.Lat) != (poly[j].Lat > p.Lat)) &&
			(p.Lon < (poly[j].Lon-poly[i].Lon)*(p.Lat-poly[i].Lat)/(poly[j].Lat-poly[i].Lat)+poly[i].Lon) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// BoundingBox calculates the bounding box of the polygon.
// Returns (minLon, minLat, maxLon, maxLat).
func (poly Polygon) BoundingBox() (minLon, minLat, maxLon, maxLat float64) {
	if len(poly) == 0 {
		return 0, 0, 0, 0
	}

	minLon, maxLon = poly[0].Lon, poly[0].Lon
	minLat, maxLat = poly[0].Lat, poly[0].Lat

	for _, p := range poly[1:] {
		if p.Lon < minLon {
			minLon = p.Lon
		}
		if p.Lon > maxLon {
			maxLon = p.Lon
		}
		if p.Lat < minLat {
			minLat = p.Lat
		}
		if p.Lat > maxLat {
			maxLat = p.Lat
		}
	}

	return minLon, minLat, maxLon, maxLat
}
