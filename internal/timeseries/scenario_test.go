package timeseries

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2023-05-01 was a Monday.
var scenarioStart = time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)

func scenarioSeries(t *testing.T) *WideSeries {
	t.Helper()
	index := hourlyIndex(scenarioStart, 24*14)
	values := make([]float64, len(index))
	for i := range values {
		values[i] = 1
	}
	w := NewWideSeries(index)
	require.NoError(t, w.AddColumn("s1_Journey Time", values))
	return w
}

func setAt(t *testing.T, w *WideSeries, name string, at time.Time, v float64) {
	t.Helper()
	vals, ok := w.Column(name)
	require.True(t, ok)
	for i, ts := range w.Index {
		if ts.Equal(at) {
			vals[i] = v
			return
		}
	}
	t.Fatalf("timestamp %s not in index", at)
}

func TestScenarioDatesPicksPeakAndBaseline(t *testing.T) {
	w := scenarioSeries(t)
	firstThursday := time.Date(2023, 5, 4, 17, 0, 0, 0, time.UTC)
	secondThursday := time.Date(2023, 5, 11, 17, 0, 0, 0, time.UTC)
	setAt(t, w, "s1_Journey Time", firstThursday, 42)
	setAt(t, w, "s1_Journey Time", secondThursday, 40)

	out, err := ScenarioDates(w, "Journey Time")
	require.NoError(t, err)

	assert.Equal(t, firstThursday, out.Peak)
	assert.Equal(t, 42.0, out.PeakValue)
	assert.Equal(t, time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC), out.Baseline)
}

func TestScenarioDatesSkipsNullBaseline(t *testing.T) {
	w := scenarioSeries(t)
	setAt(t, w, "s1_Journey Time", time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC), math.NaN())

	out, err := ScenarioDates(w, "Journey Time")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 5, 8, 10, 0, 0, 0, time.UTC), out.Baseline)
}

func TestScenarioDatesNoPeakData(t *testing.T) {
	w := scenarioSeries(t)
	setAt(t, w, "s1_Journey Time", time.Date(2023, 5, 4, 17, 0, 0, 0, time.UTC), math.NaN())
	setAt(t, w, "s1_Journey Time", time.Date(2023, 5, 11, 17, 0, 0, 0, time.UTC), math.NaN())

	_, err := ScenarioDates(w, "Journey Time")
	require.Error(t, err)

	var noData *NoDataError
	require.ErrorAs(t, err, &noData)
	assert.Equal(t, time.Thursday, noData.Weekday)
	assert.Equal(t, 17, noData.Hour)
}

func TestScenarioDatesNoMatchingColumns(t *testing.T) {
	w := scenarioSeries(t)
	_, err := ScenarioDates(w, "Speed")
	assert.Error(t, err)
}
