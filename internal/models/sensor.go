package models

import (
	"time"

	"github.com/urbansense/siteimpact/internal/spatial"
)

// SensorType is the categorical class derived from a sensor's name prefix.
type SensorType string

const (
	TypeAirQuality SensorType = "Air Quality"
	TypePeople     SensorType = "People"
	TypeVehicles   SensorType = "Vehicles"
	TypeBuilding   SensorType = "Building"
	TypeOther      SensorType = "Other"
)

// SensorLocation describes one sensor's metadata. Fetched once per run and
// immutable afterward; Type is a derived annotation, never persisted.
type SensorLocation struct {
	ID       string        `json:"sensor_id"`
	Broker   string        `json:"broker_name"`
	Location spatial.Point `json:"location"`
	Type     SensorType    `json:"sensor_type,omitempty"`
}

// SensorReading is a single observation. Timestamps are timezone-naive and
// assumed UTC-consistent across sources.
type SensorReading struct {
	SensorID  string    `json:"sensor_id"`
	Variable  string    `json:"variable"`
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Flagged   bool      `json:"flagged"`
}

// RoadLink is a straight-line link between two traffic sensors, identified by
// the sensor that reports journey times over it.
type RoadLink struct {
	SensorID string       `json:"sensor_id"`
	Line     spatial.Line `json:"line"`
}

// RoadGeometry is a road link after routing. If routing failed, Routed equals
// the original straight line and Fallback is set.
type RoadGeometry struct {
	Link        RoadLink          `json:"link"`
	Routed      spatial.MultiLine `json:"routed"`
	RoadLengthM float64           `json:"road_length_m"`
	Fallback    bool              `json:"fallback"`
}
