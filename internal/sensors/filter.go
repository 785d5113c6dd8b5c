package sensors

import (
	"github.com/urbansense/siteimpact/internal/models"
	"github.com/urbansense/siteimpact/internal/spatial"
)

// FilterByBroker keeps only sensors belonging to the named brokers.
func FilterByBroker(locations []models.SensorLocation, brokers []string) []models.SensorLocation {
	wanted := make(map[string]bool, len(brokers))
	for _, b := range brokers {
		wanted[b] = true
	}

	out := make([]models.SensorLocation, 0, len(locations))
	for _, loc := range locations {
		if wanted[loc.Broker] {
			out = append(out, loc)
		}
	}
	return out
}

// FilterWithinBoundary keeps only sensors located inside the boundary
// polygon (spatial inner join).
func FilterWithinBoundary(locations []models.SensorLocation, boundary spatial.Polygon) []models.SensorLocation {
	out := make([]models.SensorLocation, 0, len(locations))
	for _, loc := range locations {
		if boundary.Contains(loc.Location) {
			out = append(out, loc)
		}
	}
	return out
}
