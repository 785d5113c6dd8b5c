package sensors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/urbansense/siteimpact/internal/models"
	"github.com/urbansense/siteimpact/internal/spatial"
)

// EmptyResultError signals that a filter left no usable sensor records.
type EmptyResultError struct {
	Filter string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no sensors matched filter %q", e.Filter)
}

// FindClosest returns up to n sensor ids in ascending distance from the
// target point. Categories may name brokers (e.g. "aq_mesh_api") or derived
// sensor types (e.g. "Air Quality"); an empty set keeps every sensor.
// Distances are ranked in the supplied planar CRS, never in geographic
// degrees. Ties keep input order (stable sort). Requesting more sensors than
// exist returns all of them without error.
func FindClosest(locations []models.SensorLocation, target spatial.Point, categories []string, crs spatial.PlanarCRS, n int) ([]string, error) {
	wanted := make(map[string]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}

	type candidate struct {
		id   string
		dist float64
	}

	candidates := make([]candidate, 0, len(locations))
	for _, loc := range locations {
		if len(wanted) > 0 && !wanted[loc.Broker] && !wanted[string(loc.Type)] {
			continue
		}
		candidates = append(candidates, candidate{
			id:   loc.ID,
			dist: crs.DistanceM(target, loc.Location),
		})
	}

	if len(candidates) == 0 {
		return nil, &EmptyResultError{Filter: strings.Join(categories, ",")}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})

	if n < 0 {
		n = 0
	}
	if n > len(candidates) {
		n = len(candidates)
	}

	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = candidates[i].id
	}
	return ids, nil
}
