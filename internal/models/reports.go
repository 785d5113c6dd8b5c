package models

import "time"

// ColumnCleanReport counts what cleaning did to one wide-series column.
// These are observability signals, not control flow.
type ColumnCleanReport struct {
	NegativesRemoved int `json:"negatives_removed"`
	OutliersRemoved  int `json:"outliers_removed"`
	GapsFilled       int `json:"gaps_filled"`
	NullsRemaining   int `json:"nulls_remaining"`
}

// CleanReport aggregates per-column cleaning counters.
type CleanReport map[string]ColumnCleanReport

// RouteFallback records one road link that could not be routed and fell back
// to its straight-line geometry.
type RouteFallback struct {
	SensorID string `json:"sensor_id"`
	Reason   string `json:"reason"`
}

// RouteReport summarizes a road-routing batch.
type RouteReport struct {
	Routed    int             `json:"routed"`
	Fallbacks []RouteFallback `json:"fallbacks,omitempty"`
}

// ScenarioDates holds the two comparison timestamps picked for a scenario
// assessment: the peak Thursday-evening slot and the first populated
// Monday-morning baseline.
type ScenarioDates struct {
	Peak      time.Time `json:"peak"`
	PeakValue float64   `json:"peak_value"`
	Baseline  time.Time `json:"baseline"`
}
