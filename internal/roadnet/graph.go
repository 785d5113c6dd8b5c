package roadnet

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/urbansense/siteimpact/internal/osm"
	"github.com/urbansense/siteimpact/internal/spatial"
)

// ErrNoNodes signals an empty street graph.
var ErrNoNodes = errors.New("street graph has no nodes")

// Graph is a street network projected into a planar CRS, with edges weighted
// by physical segment length in meters.
type Graph struct {
	g      *simple.WeightedUndirectedGraph
	crs    spatial.PlanarCRS
	points map[int64]spatial.Point
}

// BuildGraph constructs a weighted street graph from a fetched network. Edge
// weights are planar segment lengths, so shortest paths minimize physical
// distance.
func BuildGraph(net *osm.StreetNetwork, crs spatial.PlanarCRS) *Graph {
	g := &Graph{
		g:      simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
		crs:    crs,
		points: make(map[int64]spatial.Point, len(net.Nodes)),
	}

	for id, node := range net.Nodes {
		g.points[id] = node.Location
	}

	for _, way := range net.Ways {
		for i := 1; i < len(way.NodeIDs); i++ {
			from, to := way.NodeIDs[i-1], way.NodeIDs[i]
			if from == to {
				continue
			}
			a, okA := g.points[from]
			b, okB := g.points[to]
			if !okA || !okB {
				continue
			}
			w := crs.DistanceM(a, b)
			g.g.SetWeightedEdge(simple.WeightedEdge{
				F: simple.Node(from),
				T: simple.Node(to),
				W: w,
			})
		}
	}

	return g
}

// NodeCount returns the number of vertices present in the graph.
func (g *Graph) NodeCount() int {
	return g.g.Nodes().Len()
}

// NearestNode finds the graph vertex closest to a geographic point, ranked
// in the graph's planar CRS.
func (g *Graph) NearestNode(p spatial.Point) (int64, error) {
	best := int64(-1)
	bestDist := math.Inf(1)

	nodes := g.g.Nodes()
	for nodes.Next() {
		id := nodes.Node().ID()
		d := g.crs.DistanceM(p, g.points[id])
		// Tie-break on id so lookup order never depends on map iteration.
		if d < bestDist || (d == bestDist && id < best) {
			best = id
			bestDist = d
		}
	}

	if best < 0 {
		return 0, ErrNoNodes
	}
	return best, nil
}

// point returns the geographic location of a graph vertex.
func (g *Graph) point(id int64) spatial.Point {
	return g.points[id]
}
