package timeseries

import (
	"fmt"
	"slices"
	"sort"
	"time"
)

// DefaultPeriods are the seasonal cycle lengths, in buckets, for an
// hourly-resolution series: daily, weekly and approximately monthly.
var DefaultPeriods = []int{24, 168, 730}

// periodLabels maps known cycle lengths to semantic component names.
var periodLabels = map[int]string{
	24:   "Daily",
	168:  "Weekly",
	730:  "Monthly",
	8760: "Yearly",
}

// DecompositionResult is an additive multi-seasonal decomposition aligned to
// the input index: Original == Trend + sum(Seasonal) + Residual at every row.
type DecompositionResult struct {
	Index          []time.Time
	Original       []float64
	Trend          []float64
	SeasonalLabels []string
	Seasonal       map[string][]float64
	Periods        map[string]int
	Residual       []float64
}

// Components returns the result as an ordered column map, Original first and
// residual last, for tabular export.
func (d *DecompositionResult) Components() ([]string, map[string][]float64) {
	names := []string{"Original", "trend"}
	cols := map[string][]float64{
		"Original": d.Original,
		"trend":    d.Trend,
	}
	for _, label := range d.SeasonalLabels {
		names = append(names, label)
		cols[label] = d.Seasonal[label]
	}
	names = append(names, "residual")
	cols["residual"] = d.Residual
	return names, cols
}

// Decompose runs an MSTL-style additive decomposition of a single series with
// one seasonal component per period. Remaining nulls are interpolated first,
// since decomposition cannot tolerate them; the reconstruction invariant then
// holds against the gap-filled series. Periods too long for the series
// (fewer than two full cycles) are skipped.
func Decompose(index []time.Time, values []float64, periods []int) (*DecompositionResult, error) {
	if len(index) != len(values) {
		return nil, fmt.Errorf("decompose: %d timestamps for %d values", len(index), len(values))
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("decompose: empty series")
	}

	original := fillForDecomposition(values)

	// A duplicate period would register the same label twice and break the
	// additive reconstruction.
	ps := append([]int(nil), periods...)
	sort.Ints(ps)
	ps = slices.Compact(ps)

	result := &DecompositionResult{
		Index:    append([]time.Time(nil), index...),
		Original: original,
		Seasonal: make(map[string][]float64),
		Periods:  make(map[string]int),
	}

	// Extract seasonal components shortest cycle first, each from the series
	// with previous components removed.
	work := append([]float64(nil), original...)
	maxUsable := 0
	for _, p := range ps {
		if p < 2 || len(work) < 2*p {
			continue
		}
		seasonal := extractSeasonal(work, p)
		label := periodLabel(p)
		result.SeasonalLabels = append(result.SeasonalLabels, label)
		result.Seasonal[label] = seasonal
		result.Periods[label] = p
		for i := range work {
			work[i] -= seasonal[i]
		}
		maxUsable = p
	}

	// Trend is a centred moving average of the deseasonalised series, with
	// edge windows shrunk to the available points.
	window := maxUsable
	if window < 2 {
		window = len(work)
	}
	result.Trend = movingAverage(work, window)

	result.Residual = make([]float64, len(work))
	for i := range work {
		result.Residual[i] = work[i] - result.Trend[i]
	}

	return result, nil
}

// extractSeasonal estimates the additive seasonal component of one period:
// detrend by centred moving average, average the detrended values per phase,
// centre the phase means to zero, and tile them over the series.
func extractSeasonal(values []float64, period int) []float64 {
	trend := movingAverage(values, period)

	phaseSum := make([]float64, period)
	phaseCount := make([]int, period)
	for i, v := range values {
		phase := i % period
		phaseSum[phase] += v - trend[i]
		phaseCount[phase]++
	}

	means := make([]float64, period)
	var total float64
	for p := 0; p < period; p++ {
		if phaseCount[p] > 0 {
			means[p] = phaseSum[p] / float64(phaseCount[p])
		}
		total += means[p]
	}

	// Centre so the seasonal component sums to zero over one cycle.
	offset := total / float64(period)
	for p := range means {
		means[p] -= offset
	}

	out := make([]float64, len(values))
	for i := range values {
		out[i] = means[i%period]
	}
	return out
}

// movingAverage computes a centred moving average with the window shrunk near
// the edges, so every position has a defined value.
func movingAverage(values []float64, window int) []float64 {
	n := len(values)
	out := make([]float64, n)
	if window < 1 {
		window = 1
	}
	half := window / 2

	// Prefix sums for O(1) window means.
	prefix := make([]float64, n+1)
	for i, v := range values {
		prefix[i+1] = prefix[i] + v
	}

	for i := 0; i < n; i++ {
		lo := i - half
		hi := i + half
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		out[i] = (prefix[hi+1] - prefix[lo]) / float64(hi-lo+1)
	}
	return out
}

// periodLabel names a seasonal component by cycle length.
func periodLabel(period int) string {
	if label, ok := periodLabels[period]; ok {
		return label
	}
	return fmt.Sprintf("Seasonal%d", period)
}
