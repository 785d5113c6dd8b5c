package timeseries

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourlyIndex(start time.Time, n int) []time.Time {
	index := make([]time.Time, n)
	for i := range index {
		index[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return index
}

func TestCleanReindexesAndInterpolates(t *testing.T) {
	// Hour 3 is missing from the index; hour 1 holds a negative.
	index := []time.Time{ts(0, 0), ts(1, 0), ts(2, 0), ts(4, 0)}
	w := NewWideSeries(index)
	require.NoError(t, w.AddColumn("s1_NO2", []float64{1, -5, 3, 5}))

	out, report, err := Clean(w, time.Hour, 6)
	require.NoError(t, err)

	// Complete hourly calendar over [min, max].
	assert.Equal(t, hourlyIndex(ts(0, 0), 5), out.Index)

	vals, ok := out.Column("s1_NO2")
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{1, 2, 3, 4, 5}, vals, 1e-9)

	col := report["s1_NO2"]
	assert.Equal(t, 1, col.NegativesRemoved)
	assert.Equal(t, 0, col.OutliersRemoved)
	assert.Equal(t, 2, col.GapsFilled)
	assert.Equal(t, 0, col.NullsRemaining)
}

func TestCleanRemovesExtremeOutliers(t *testing.T) {
	values := []float64{10, 10, 10, 10, 10, 10, 10, 1000, 10, 10}
	w := NewWideSeries(hourlyIndex(ts(0, 0), len(values)))
	require.NoError(t, w.AddColumn("s1_NO2", values))

	out, report, err := Clean(w, time.Hour, 6)
	require.NoError(t, err)

	vals, _ := out.Column("s1_NO2")
	for _, v := range vals {
		assert.Equal(t, 10.0, v)
	}
	assert.Equal(t, 1, report["s1_NO2"].OutliersRemoved)
}

func TestCleanLeavesLongGaps(t *testing.T) {
	values := []float64{1, math.NaN(), math.NaN(), math.NaN(), 5}
	w := NewWideSeries(hourlyIndex(ts(0, 0), len(values)))
	require.NoError(t, w.AddColumn("s1_NO2", values))

	out, report, err := Clean(w, time.Hour, 2)
	require.NoError(t, err)

	vals, _ := out.Column("s1_NO2")
	assert.True(t, IsNull(vals[1]))
	assert.True(t, IsNull(vals[2]))
	assert.True(t, IsNull(vals[3]))

	col := report["s1_NO2"]
	assert.Equal(t, 0, col.GapsFilled)
	assert.Equal(t, 3, col.NullsRemaining)
}

func TestCleanNeverExtrapolatesEnds(t *testing.T) {
	values := []float64{math.NaN(), 2, 3, math.NaN()}
	w := NewWideSeries(hourlyIndex(ts(0, 0), len(values)))
	require.NoError(t, w.AddColumn("s1_NO2", values))

	out, _, err := Clean(w, time.Hour, 6)
	require.NoError(t, err)

	vals, _ := out.Column("s1_NO2")
	assert.True(t, IsNull(vals[0]))
	assert.True(t, IsNull(vals[3]))
}

func TestCleanDoesNotModifyInput(t *testing.T) {
	values := []float64{1, -5, 3}
	w := NewWideSeries(hourlyIndex(ts(0, 0), len(values)))
	require.NoError(t, w.AddColumn("s1_NO2", values))

	_, _, err := Clean(w, time.Hour, 6)
	require.NoError(t, err)

	orig, _ := w.Column("s1_NO2")
	assert.Equal(t, -5.0, orig[1])
}

func TestCleanRejectsEmptyInput(t *testing.T) {
	w := NewWideSeries(nil)
	_, _, err := Clean(w, time.Hour, 6)
	assert.Error(t, err)
}

func TestCleanRejectsNonPositiveFrequency(t *testing.T) {
	w := NewWideSeries(hourlyIndex(ts(0, 0), 2))
	require.NoError(t, w.AddColumn("c", []float64{1, 2}))

	_, _, err := Clean(w, 0, 6)
	assert.Error(t, err)
}

func TestInterpolateGapsUnlimited(t *testing.T) {
	values := []float64{0, math.NaN(), math.NaN(), math.NaN(), 8}
	filled := interpolateGaps(values, -1)

	assert.Equal(t, 3, filled)
	assert.InDeltaSlice(t, []float64{0, 2, 4, 6, 8}, values, 1e-9)
}
