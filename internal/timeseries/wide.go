package timeseries

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// DuplicateKeyError signals an ambiguous pivot: more than one reading maps to
// the same (timestamp, sensor, variable) cell. This is an upstream data
// integrity violation and is never resolved by last-write-wins.
type DuplicateKeyError struct {
	SensorID  string
	Variable  string
	Timestamp time.Time
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate reading for sensor %q variable %q at %s",
		e.SensorID, e.Variable, e.Timestamp.Format(time.RFC3339))
}

// ColumnName builds the wide-series column name for a sensor/variable pair.
func ColumnName(sensorID, variable string) string {
	return sensorID + "_" + variable
}

// ToWide pivots a long series so each (sensor, variable) pair becomes one
// column, with one row per distinct timestamp. Cells with no reading hold
// NaN. Columns are ordered lexicographically.
func ToWide(long LongSeries) (*WideSeries, error) {
	stamps := make(map[time.Time]bool)
	columns := make(map[string]bool)
	for _, r := range long {
		stamps[r.Timestamp] = true
		columns[ColumnName(r.SensorID, r.Variable)] = true
	}

	index := make([]time.Time, 0, len(stamps))
	for t := range stamps {
		index = append(index, t)
	}
	sort.Slice(index, func(i, j int) bool { return index[i].Before(index[j]) })

	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)

	pos := make(map[time.Time]int, len(index))
	for i, t := range index {
		pos[t] = i
	}

	w := NewWideSeries(index)
	for _, name := range names {
		vals := make([]float64, len(index))
		for i := range vals {
			vals[i] = math.NaN()
		}
		w.Columns = append(w.Columns, name)
		w.data[name] = vals
	}

	type cell struct {
		name string
		row  int
	}
	seen := make(map[cell]bool, len(long))

	for _, r := range long {
		c := cell{ColumnName(r.SensorID, r.Variable), pos[r.Timestamp]}
		if seen[c] {
			return nil, &DuplicateKeyError{
				SensorID:  r.SensorID,
				Variable:  r.Variable,
				Timestamp: r.Timestamp,
			}
		}
		seen[c] = true
		w.data[c.name][c.row] = r.Value
	}

	return w, nil
}
