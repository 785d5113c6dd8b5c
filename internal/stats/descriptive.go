package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// StdDev calculates the sample standard deviation.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

// Quantile calculates the q-th quantile (0-1) with linear interpolation
// between closest ranks.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if q < 0 {
		q = 0
	}
	if q > 1 {
		q = 1
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return stat.Quantile(q, stat.LinInterp, sorted, nil)
}

// Quartiles returns the three quartiles (Q1, median, Q3).
func Quartiles(values []float64) (q1, q2, q3 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 = stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	q2 = stat.Quantile(0.5, stat.LinInterp, sorted, nil)
	q3 = stat.Quantile(0.75, stat.LinInterp, sorted, nil)
	return q1, q2, q3
}

// OutlierBounds calculates the lower and upper bounds for outliers using the
// IQR method with multiplier k (1.5 for the classic rule, 3.0 for extreme
// outliers only).
func OutlierBounds(values []float64, k float64) (lower, upper float64) {
	q1, _, q3 := Quartiles(values)
	iqr := q3 - q1

	lower = q1 - k*iqr
	upper = q3 + k*iqr
	return lower, upper
}
