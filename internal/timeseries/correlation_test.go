package timeseries

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelatePerfectPairs(t *testing.T) {
	w := NewWideSeries(hourlyIndex(ts(0, 0), 5))
	require.NoError(t, w.AddColumn("a", []float64{1, 2, 3, 4, 5}))
	require.NoError(t, w.AddColumn("b", []float64{2, 4, 6, 8, 10}))
	require.NoError(t, w.AddColumn("c", []float64{5, 4, 3, 2, 1}))

	m := Correlate(w)

	assert.InDelta(t, 1.0, m.At("a", "a"), 1e-9)
	assert.InDelta(t, 1.0, m.At("a", "b"), 1e-9)
	assert.InDelta(t, -1.0, m.At("a", "c"), 1e-9)
	assert.InDelta(t, m.At("b", "a"), m.At("a", "b"), 1e-12)
}

func TestCorrelatePairwiseComplete(t *testing.T) {
	nan := math.NaN()
	w := NewWideSeries(hourlyIndex(ts(0, 0), 5))
	require.NoError(t, w.AddColumn("a", []float64{1, 2, nan, 4, 5}))
	require.NoError(t, w.AddColumn("b", []float64{2, 4, 100, 8, 10}))

	// The row where a is null is excluded, so the pair is still perfect.
	m := Correlate(w)
	assert.InDelta(t, 1.0, m.At("a", "b"), 1e-9)
}

func TestCorrelateInsufficientOverlap(t *testing.T) {
	nan := math.NaN()
	w := NewWideSeries(hourlyIndex(ts(0, 0), 4))
	require.NoError(t, w.AddColumn("a", []float64{1, nan, nan, nan}))
	require.NoError(t, w.AddColumn("b", []float64{2, 4, 6, 8}))

	m := Correlate(w)
	assert.True(t, math.IsNaN(m.At("a", "b")))
	assert.True(t, math.IsNaN(m.At("a", "a")))
	assert.InDelta(t, 1.0, m.At("b", "b"), 1e-9)
}

func TestCorrelateAtUnknownColumn(t *testing.T) {
	w := NewWideSeries(hourlyIndex(ts(0, 0), 3))
	require.NoError(t, w.AddColumn("a", []float64{1, 2, 3}))

	m := Correlate(w)
	assert.True(t, math.IsNaN(m.At("a", "missing")))
}

func TestCorrelationMatrixMarshalsNaNAsNull(t *testing.T) {
	nan := math.NaN()
	w := NewWideSeries(hourlyIndex(ts(0, 0), 4))
	require.NoError(t, w.AddColumn("a", []float64{1, nan, nan, nan}))
	require.NoError(t, w.AddColumn("b", []float64{2, 4, 6, 8}))

	raw, err := json.Marshal(Correlate(w))
	require.NoError(t, err)

	var decoded struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, []string{"a", "b"}, decoded.Columns)
	assert.Nil(t, decoded.Values[0][0])
	require.NotNil(t, decoded.Values[1][1])
	assert.Equal(t, 1.0, *decoded.Values[1][1])
}
