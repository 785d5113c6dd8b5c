package osm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/serjvanilla/go-overpass"

	"github.com/urbansense/siteimpact/internal/spatial"
)

// routableHighways selects the way classes that carry vehicle traffic.
const routableHighways = "motorway|trunk|primary|secondary|tertiary|unclassified|residential"

// Node is one street-graph vertex.
type Node struct {
	ID       int64
	Location spatial.Point
}

// Way is an ordered chain of node ids along one street.
type Way struct {
	ID      int64
	NodeIDs []int64
}

// StreetNetwork is the raw routable graph for an area, as fetched.
type StreetNetwork struct {
	Nodes map[int64]Node
	Ways  []Way
}

// Client fetches street networks from an Overpass endpoint.
type Client struct {
	client  *overpass.Client
	timeout time.Duration
}

// NewClient builds an Overpass client against the given endpoint. A
// non-positive timeout falls back to two minutes; Overpass queries over a
// city bounding box are slow.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	httpClient := &http.Client{Timeout: timeout}
	client := overpass.NewWithSettings(endpoint, 1, httpClient)
	return &Client{
		client:  &client,
		timeout: timeout,
	}
}

// FetchStreetNetwork retrieves the routable street ways within a bounding
// box (minLat, minLon, maxLat, maxLon).
func (c *Client) FetchStreetNetwork(ctx context.Context, minLat, minLon, maxLat, maxLon float64) (*StreetNetwork, error) {
	bbox := fmt.Sprintf("%f,%f,%f,%f", minLat, minLon, maxLat, maxLon)
	query := fmt.Sprintf(`
		[out:json];
		way["highway"~"%s"](%s);
		(._;>;);
		out body;
	`, routableHighways, bbox)

	// The overpass client has no context hook; the HTTP client timeout
	// bounds the call.
	result, err := c.client.Query(query)
	if err != nil {
		return nil, fmt.Errorf("overpass street query failed: %w", err)
	}

	return convertResult(&result), nil
}

func convertResult(result *overpass.Result) *StreetNetwork {
	net := &StreetNetwork{
		Nodes: make(map[int64]Node, len(result.Nodes)),
	}

	for _, node := range result.Nodes {
		if node == nil {
			continue
		}
		net.Nodes[node.ID] = Node{
			ID:       node.ID,
			Location: spatial.Point{Lon: node.Lon, Lat: node.Lat},
		}
	}

	for _, way := range result.Ways {
		if way == nil || len(way.Nodes) < 2 {
			continue
		}
		ids := make([]int64, 0, len(way.Nodes))
		for _, n := range way.Nodes {
			if n == nil {
				continue
			}
			ids = append(ids, n.ID)
		}
		if len(ids) < 2 {
			continue
		}
		net.Ways = append(net.Ways, Way{ID: way.ID, NodeIDs: ids})
	}

	return net
}
