package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urbansense/siteimpact/internal/models"
)

// ImportArchiveCSV reads an archive export (Timestamp, Sensor_Name, Variable,
// Value, Flagged columns, any order) and returns the readings belonging to
// the given sensors. Rows with an unparseable value are skipped; a missing
// required column is fatal.
func ImportArchiveCSV(path string, sensorIDs []string) ([]models.SensorReading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	defer f.Close()

	wanted := make(map[string]bool, len(sensorIDs))
	for _, id := range sensorIDs {
		wanted[id] = true
	}

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read archive header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Timestamp", "Sensor_Name", "Variable", "Value"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("archive %s missing column %q", path, required)
		}
	}
	flaggedIdx, hasFlagged := col["Flagged"]

	var out []models.SensorReading
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read archive row: %w", err)
		}

		sensorID := record[col["Sensor_Name"]]
		if len(wanted) > 0 && !wanted[sensorID] {
			continue
		}

		ts, err := parseArchiveTimestamp(record[col["Timestamp"]])
		if err != nil {
			return nil, fmt.Errorf("archive %s: %w", path, err)
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(record[col["Value"]]), 64)
		if err != nil {
			continue
		}

		flagged := false
		if hasFlagged {
			flagged = parseArchiveBool(record[flaggedIdx])
		}

		out = append(out, models.SensorReading{
			SensorID:  sensorID,
			Variable:  record[col["Variable"]],
			Timestamp: ts,
			Value:     value,
			Flagged:   flagged,
		})
	}

	return out, nil
}

func parseArchiveTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

func parseArchiveBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "t", "yes":
		return true
	}
	return false
}
