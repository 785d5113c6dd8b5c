package roadnet

import (
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/graph/path"

	"github.com/urbansense/siteimpact/internal/models"
	"github.com/urbansense/siteimpact/internal/spatial"
)

// RouteLinks snaps each straight-line sensor link onto the street graph via
// the shortest path by physical length between the endpoints' nearest graph
// nodes. A link that cannot be routed keeps its straight-line geometry: this
// is a recoverable per-record condition, logged and collected into the
// report, never fatal to the batch. Output order matches input order.
func RouteLinks(g *Graph, links []models.RoadLink) ([]models.RoadGeometry, models.RouteReport) {
	out := make([]models.RoadGeometry, 0, len(links))
	var report models.RouteReport

	for _, link := range links {
		routed, err := routeLink(g, link)
		if err != nil {
			log.Printf("road routing fallback for sensor %s: %v", link.SensorID, err)
			report.Fallbacks = append(report.Fallbacks, models.RouteFallback{
				SensorID: link.SensorID,
				Reason:   err.Error(),
			})
			out = append(out, models.RoadGeometry{
				Link:        link,
				Routed:      link.Line.AsMultiLine(),
				RoadLengthM: link.Line.LengthM(),
				Fallback:    true,
			})
			continue
		}

		report.Routed++
		out = append(out, models.RoadGeometry{
			Link:        link,
			Routed:      routed,
			RoadLengthM: routed.LengthM(),
		})
	}

	return out, report
}

func routeLink(g *Graph, link models.RoadLink) (spatial.MultiLine, error) {
	from, err := g.NearestNode(link.Line.Start)
	if err != nil {
		return nil, fmt.Errorf("start node lookup: %w", err)
	}
	to, err := g.NearestNode(link.Line.End)
	if err != nil {
		return nil, fmt.Errorf("end node lookup: %w", err)
	}

	shortest := path.DijkstraFrom(g.g.Node(from), g.g)
	nodes, weight := shortest.To(to)
	if len(nodes) == 0 || math.IsInf(weight, 1) {
		return nil, fmt.Errorf("no path between nodes %d and %d", from, to)
	}

	line := make(spatial.LineString, len(nodes))
	for i, n := range nodes {
		line[i] = g.point(n.ID())
	}
	if len(line) < 2 {
		// Both endpoints snapped to the same node; nothing to draw.
		return nil, fmt.Errorf("degenerate path at node %d", from)
	}

	return spatial.MultiLine{line}, nil
}
