package timeseries

import "math"

// interpolateGaps fills null runs of length <= maxGap by linear interpolation
// between the bounding valid values. Runs longer than maxGap, and runs
// touching either end of the series (no bounding value on one side), are left
// untouched — values are never extrapolated. maxGap < 0 means no limit.
// Returns the number of cells filled; the slice is modified in place.
func interpolateGaps(values []float64, maxGap int) int {
	filled := 0
	n := len(values)

	i := 0
	for i < n {
		if !math.IsNaN(values[i]) {
			i++
			continue
		}

		// Null run [i, j).
		j := i
		for j < n && math.IsNaN(values[j]) {
			j++
		}

		runLen := j - i
		hasLeft := i > 0
		hasRight := j < n

		if hasLeft && hasRight && (maxGap < 0 || runLen <= maxGap) {
			left := values[i-1]
			right := values[j]
			span := float64(runLen + 1)
			for k := i; k < j; k++ {
				frac := float64(k-i+1) / span
				values[k] = left + (right-left)*frac
				filled++
			}
		}

		i = j
	}

	return filled
}

// fillForDecomposition makes a series null-free: interior gaps are linearly
// interpolated without a gap limit and leading/trailing runs are extended
// from the nearest valid value. Returns a copy; the input is not modified.
func fillForDecomposition(values []float64) []float64 {
	out := append([]float64(nil), values...)
	interpolateGaps(out, -1)

	// Extend ends from the nearest observation.
	first := -1
	for i, v := range out {
		if !math.IsNaN(v) {
			first = i
			break
		}
	}
	if first < 0 {
		return out
	}
	last := -1
	for i := len(out) - 1; i >= 0; i-- {
		if !math.IsNaN(out[i]) {
			last = i
			break
		}
	}
	for i := 0; i < first; i++ {
		out[i] = out[first]
	}
	for i := last + 1; i < len(out); i++ {
		out[i] = out[last]
	}
	return out
}
