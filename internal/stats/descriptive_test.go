package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-9)
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev([]float64{5}))
	assert.InDelta(t, 1.0, StdDev([]float64{1, 2, 3}), 1e-9)
}

func TestQuartilesOfConstantData(t *testing.T) {
	q1, q2, q3 := Quartiles([]float64{7, 7, 7, 7})
	assert.Equal(t, 7.0, q1)
	assert.Equal(t, 7.0, q2)
	assert.Equal(t, 7.0, q3)
}

func TestQuantileDoesNotModifyInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Quantile(values, 0.5)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestOutlierBoundsConstantData(t *testing.T) {
	lower, upper := OutlierBounds([]float64{10, 10, 10, 10}, 3.0)
	assert.Equal(t, 10.0, lower)
	assert.Equal(t, 10.0, upper)
}

func TestOutlierBoundsWidenWithK(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	l15, u15 := OutlierBounds(values, 1.5)
	l30, u30 := OutlierBounds(values, 3.0)

	assert.Less(t, l30, l15)
	assert.Greater(t, u30, u15)
}

func TestPearsonCorrelation(t *testing.T) {
	assert.InDelta(t, 1.0, PearsonCorrelation([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-9)
	assert.InDelta(t, -1.0, PearsonCorrelation([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-9)
}
