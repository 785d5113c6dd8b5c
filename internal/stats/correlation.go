package stats

import (
	"gonum.org/v1/gonum/stat"
)

// PearsonCorrelation calculates the Pearson correlation coefficient between
// two equal-length variables. Returns 0 when either variable is constant or
// fewer than two observations are available.
func PearsonCorrelation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return 0
	}
	return stat.Correlation(x, y, nil)
}
