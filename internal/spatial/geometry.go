package spatial

// Point represents a geographic position in lon/lat degrees.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// LineString is an ordered sequence of geographic points.
type LineString []Point

// MultiLine is a collection of line strings forming one geometry.
type MultiLine []LineString

// Line is a straight two-endpoint segment between sensor locations.
type Line struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// AsMultiLine converts a straight segment into a single-part MultiLine.
func (l Line) AsMultiLine() MultiLine {
	return MultiLine{LineString{l.Start, l.End}}
}

// LengthM calculates the great-circle length of the segment in meters. A
// single segment needs no local grid; the sphere is exact enough here.
func (l Line) LengthM() float64 {
	return HaversineDistance(l.Start, l.End)
}

// Centroid calculates the vertex centroid of a multi-line geometry.
func (m MultiLine) Centroid() Point {
	var sumLon, sumLat float64
	var n int
	for _, ls := range m {
		for _, p := range ls {
			sumLon += p.Lon
			sumLat += p.Lat
			n++
		}
	}
	if n == 0 {
		return Point{}
	}
	return Point{Lon: sumLon / float64(n), Lat: sumLat / float64(n)}
}

// LengthM calculates the physical length of the geometry in meters using a
// planar projection centred on the geometry's own centroid, so lengths stay
// accurate regardless of where the geometry sits.
func (m MultiLine) LengthM() float64 {
	crs := NewLocalCRS(m.Centroid())
	var total float64
	for _, ls := range m {
		for i := 1; i < len(ls); i++ {
			x1, y1 := crs.Project(ls[i-1])
			x2, y2 := crs.Project(ls[i])
			total += planarDistance(x1, y1, x2, y2)
		}
	}
	return total
}
