package spatial

import "math"

// PlanarCRS is a local meter-based grid anchored at an origin point. Distance
// ranking and length computation always happen in a planar CRS; geographic
// degrees are never compared directly.
type PlanarCRS struct {
	Origin          Point
	metersPerDegLat float64
	metersPerDegLon float64
}

// NewPlanarCRS builds a planar grid anchored at the given origin.
func NewPlanarCRS(origin Point) PlanarCRS {
	latRad := origin.Lat * math.Pi / 180

	// Degree-to-meter conversion factors at the origin latitude.
	kLat := 111132.92 - 559.82*math.Cos(2*latRad) + 1.175*math.Cos(4*latRad)
	kLon := 111412.84*math.Cos(latRad) - 93.5*math.Cos(3*latRad)

	return PlanarCRS{
		Origin:          origin,
		metersPerDegLat: kLat,
		metersPerDegLon: kLon,
	}
}

// NewLocalCRS builds a planar grid centred on an arbitrary geometry centroid.
func NewLocalCRS(centroid Point) PlanarCRS {
	return NewPlanarCRS(centroid)
}

// Project converts a geographic point to planar x/y meters.
func (c PlanarCRS) Project(p Point) (x, y float64) {
	x = (p.Lon - c.Origin.Lon) * c.metersPerDegLon
	y = (p.Lat - c.Origin.Lat) * c.metersPerDegLat
	return x, y
}

// Unproject converts planar x/y meters back to a geographic point.
func (c PlanarCRS) Unproject(x, y float64) Point {
	return Point{
		Lon: c.Origin.Lon + x/c.metersPerDegLon,
		Lat: c.Origin.Lat + y/c.metersPerDegLat,
	}
}

// DistanceM calculates the planar distance in meters between two geographic
// points after projection.
func (c PlanarCRS) DistanceM(a, b Point) float64 {
	x1, y1 := c.Project(a)
	x2, y2 := c.Project(b)
	return planarDistance(x1, y1, x2, y2)
}

func planarDistance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}
