package timeseries

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/urbansense/siteimpact/internal/models"
)

// LongSeries is an ordered sequence of readings in long form: one row per
// (sensor, variable, timestamp) observation.
type LongSeries []models.SensorReading

// SortByTime orders readings by timestamp, breaking ties by sensor then
// variable so output is deterministic.
func (ls LongSeries) SortByTime() {
	sort.SliceStable(ls, func(i, j int) bool {
		if !ls[i].Timestamp.Equal(ls[j].Timestamp) {
			return ls[i].Timestamp.Before(ls[j].Timestamp)
		}
		if ls[i].SensorID != ls[j].SensorID {
			return ls[i].SensorID < ls[j].SensorID
		}
		return ls[i].Variable < ls[j].Variable
	})
}

// WideSeries is a timestamp-indexed table with one float64 column per
// {sensor}_{variable} pair. Missing cells hold NaN. All transformations
// return new tables; a WideSeries is never mutated in place by the pipeline.
type WideSeries struct {
	Index   []time.Time
	Columns []string
	data    map[string][]float64
}

// NewWideSeries builds an empty table over the given index.
func NewWideSeries(index []time.Time) *WideSeries {
	return &WideSeries{
		Index: index,
		data:  make(map[string][]float64),
	}
}

// AddColumn attaches a column aligned to the index. The slice length must
// match the index length.
func (w *WideSeries) AddColumn(name string, values []float64) error {
	if len(values) != len(w.Index) {
		return fmt.Errorf("column %q has %d values for %d timestamps", name, len(values), len(w.Index))
	}
	if _, exists := w.data[name]; exists {
		return fmt.Errorf("column %q already present", name)
	}
	w.Columns = append(w.Columns, name)
	w.data[name] = values
	return nil
}

// Column returns the values of a named column, or false if absent. The
// returned slice is the backing storage; callers must not modify it.
func (w *WideSeries) Column(name string) ([]float64, bool) {
	v, ok := w.data[name]
	return v, ok
}

// NumRows returns the number of timestamps in the table.
func (w *WideSeries) NumRows() int {
	return len(w.Index)
}

// Clone returns a deep copy, so downstream stages can transform without
// aliasing the source table.
func (w *WideSeries) Clone() *WideSeries {
	out := &WideSeries{
		Index:   append([]time.Time(nil), w.Index...),
		Columns: append([]string(nil), w.Columns...),
		data:    make(map[string][]float64, len(w.data)),
	}
	for name, vals := range w.data {
		out.data[name] = append([]float64(nil), vals...)
	}
	return out
}

// Slice returns a new table restricted to timestamps in [start, end].
func (w *WideSeries) Slice(start, end time.Time) *WideSeries {
	lo := sort.Search(len(w.Index), func(i int) bool { return !w.Index[i].Before(start) })
	hi := sort.Search(len(w.Index), func(i int) bool { return w.Index[i].After(end) })

	out := NewWideSeries(append([]time.Time(nil), w.Index[lo:hi]...))
	for _, name := range w.Columns {
		vals := append([]float64(nil), w.data[name][lo:hi]...)
		out.Columns = append(out.Columns, name)
		out.data[name] = vals
	}
	return out
}

// Join combines two tables over the union of their timestamps. Column names
// must be disjoint; rows absent from one side become NaN.
func (w *WideSeries) Join(other *WideSeries) (*WideSeries, error) {
	for _, name := range other.Columns {
		if _, exists := w.data[name]; exists {
			return nil, fmt.Errorf("join: column %q present on both sides", name)
		}
	}

	union := make(map[time.Time]bool, len(w.Index)+len(other.Index))
	for _, t := range w.Index {
		union[t] = true
	}
	for _, t := range other.Index {
		union[t] = true
	}

	index := make([]time.Time, 0, len(union))
	for t := range union {
		index = append(index, t)
	}
	sort.Slice(index, func(i, j int) bool { return index[i].Before(index[j]) })

	out := NewWideSeries(index)
	out.appendReindexed(w, index)
	out.appendReindexed(other, index)
	return out, nil
}

func (w *WideSeries) appendReindexed(src *WideSeries, index []time.Time) {
	pos := make(map[time.Time]int, len(src.Index))
	for i, t := range src.Index {
		pos[t] = i
	}
	for _, name := range src.Columns {
		vals := make([]float64, len(index))
		srcVals := src.data[name]
		for i, t := range index {
			if j, ok := pos[t]; ok {
				vals[i] = srcVals[j]
			} else {
				vals[i] = math.NaN()
			}
		}
		w.Columns = append(w.Columns, name)
		w.data[name] = vals
	}
}

// IsNull reports whether a cell holds no value.
func IsNull(v float64) bool {
	return math.IsNaN(v)
}

// nonNull extracts the non-null values of a column.
func nonNull(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !IsNull(v) {
			out = append(out, v)
		}
	}
	return out
}
