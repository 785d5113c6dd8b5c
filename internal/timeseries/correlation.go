package timeseries

import (
	"encoding/json"
	"math"

	"github.com/urbansense/siteimpact/internal/stats"
)

// CorrelationMatrix is a symmetric table of Pearson coefficients keyed by
// wide-series column pairs.
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// MarshalJSON encodes NaN cells as null; encoding/json rejects NaN.
func (m *CorrelationMatrix) MarshalJSON() ([]byte, error) {
	values := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]*float64, len(row))
		for j := range row {
			if !math.IsNaN(row[j]) {
				v := row[j]
				values[i][j] = &v
			}
		}
	}
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{Columns: m.Columns, Values: values})
}

// At returns the coefficient for a column pair, or NaN if either is unknown.
func (m *CorrelationMatrix) At(a, b string) float64 {
	ai, bi := -1, -1
	for i, name := range m.Columns {
		if name == a {
			ai = i
		}
		if name == b {
			bi = i
		}
	}
	if ai < 0 || bi < 0 {
		return math.NaN()
	}
	return m.Values[ai][bi]
}

// Correlate computes the Pearson correlation between every pair of columns
// over their pairwise-complete observations (rows where both cells are
// non-null). Pairs with fewer than two complete observations, and columns
// without enough data for a variance, yield NaN.
func Correlate(w *WideSeries) *CorrelationMatrix {
	n := len(w.Columns)
	m := &CorrelationMatrix{
		Columns: append([]string(nil), w.Columns...),
		Values:  make([][]float64, n),
	}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		ci := w.data[w.Columns[i]]
		if len(nonNull(ci)) >= 2 {
			m.Values[i][i] = 1
		} else {
			m.Values[i][i] = math.NaN()
		}

		for j := i + 1; j < n; j++ {
			cj := w.data[w.Columns[j]]
			r := pairwiseCorrelation(ci, cj)
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}

	return m
}

func pairwiseCorrelation(a, b []float64) float64 {
	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(b))
	for i := range a {
		if !IsNull(a[i]) && !IsNull(b[i]) {
			x = append(x, a[i])
			y = append(y, b[i])
		}
	}
	if len(x) < 2 {
		return math.NaN()
	}
	return stats.PearsonCorrelation(x, y)
}
