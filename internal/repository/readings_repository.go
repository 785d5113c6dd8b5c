package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/urbansense/siteimpact/internal/models"
)

// ReadingsRepository handles archive storage of sensor readings.
type ReadingsRepository struct {
	db *sql.DB
}

// NewReadingsRepository creates a new readings repository.
func NewReadingsRepository(db *sql.DB) *ReadingsRepository {
	return &ReadingsRepository{db: db}
}

// Upsert stores readings, replacing any existing row for the same
// (sensor, variable, timestamp) key.
func (r *ReadingsRepository) Upsert(readings []models.SensorReading) error {
	if len(readings) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO readings (sensor_id, variable, timestamp, value, flagged)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(sensor_id, variable, timestamp) DO UPDATE SET
			value = excluded.value,
			flagged = excluded.flagged
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, reading := range readings {
		flagged := 0
		if reading.Flagged {
			flagged = 1
		}
		if _, err := stmt.Exec(
			reading.SensorID,
			reading.Variable,
			reading.Timestamp.UTC().Unix(),
			reading.Value,
			flagged,
		); err != nil {
			return fmt.Errorf("upsert reading %s/%s: %w", reading.SensorID, reading.Variable, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

// Load retrieves readings for the given sensors between two times, ordered
// by timestamp.
func (r *ReadingsRepository) Load(sensorIDs []string, start, end time.Time) ([]models.SensorReading, error) {
	if len(sensorIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(sensorIDs))
	placeholders = placeholders[:len(placeholders)-1]

	query := fmt.Sprintf(`
		SELECT sensor_id, variable, timestamp, value, flagged
		FROM readings
		WHERE sensor_id IN (%s) AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp, sensor_id, variable
	`, placeholders)

	args := make([]interface{}, 0, len(sensorIDs)+2)
	for _, id := range sensorIDs {
		args = append(args, id)
	}
	args = append(args, start.UTC().Unix(), end.UTC().Unix())

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	defer rows.Close()

	var out []models.SensorReading
	for rows.Next() {
		var reading models.SensorReading
		var ts int64
		var flagged int
		if err := rows.Scan(&reading.SensorID, &reading.Variable, &ts, &reading.Value, &flagged); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		reading.Timestamp = time.Unix(ts, 0).UTC()
		reading.Flagged = flagged != 0
		out = append(out, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate readings: %w", err)
	}

	return out, nil
}
