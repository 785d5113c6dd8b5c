package timeseries

import (
	"fmt"
	"strings"
	"time"

	"github.com/urbansense/siteimpact/internal/models"
)

// Scenario slots are fixed day/hour policies: the Thursday evening commute
// peak and a quiet Monday morning baseline. A known simplification — the
// slots are not configurable.
const (
	peakWeekday     = time.Thursday
	peakHour        = 17
	baselineWeekday = time.Monday
	baselineHour    = 10
)

// NoDataError signals that no populated row exists for the searched
// day-of-week/hour slot.
type NoDataError struct {
	Weekday time.Weekday
	Hour    int
	Suffix  string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no data for columns *_%s at %s %02d:00", e.Suffix, e.Weekday, e.Hour)
}

// ScenarioDates picks the two comparison timestamps for a scenario
// assessment over all columns whose name ends with the variable suffix:
// the Thursday-17:00 row holding the maximum value (peak congestion or
// pollution proxy), and the first Monday-10:00 row with any data (baseline).
func ScenarioDates(w *WideSeries, variableSuffix string) (models.ScenarioDates, error) {
	cols := matchingColumns(w, variableSuffix)
	if len(cols) == 0 {
		return models.ScenarioDates{}, fmt.Errorf("no columns match suffix %q", variableSuffix)
	}

	var out models.ScenarioDates
	foundPeak := false

	for i, t := range w.Index {
		if t.Weekday() != peakWeekday || t.Hour() != peakHour {
			continue
		}
		for _, name := range cols {
			v := w.data[name][i]
			if IsNull(v) {
				continue
			}
			if !foundPeak || v > out.PeakValue {
				out.Peak = t
				out.PeakValue = v
				foundPeak = true
			}
		}
	}
	if !foundPeak {
		return models.ScenarioDates{}, &NoDataError{Weekday: peakWeekday, Hour: peakHour, Suffix: variableSuffix}
	}

	for i, t := range w.Index {
		if t.Weekday() != baselineWeekday || t.Hour() != baselineHour {
			continue
		}
		for _, name := range cols {
			if !IsNull(w.data[name][i]) {
				out.Baseline = t
				return out, nil
			}
		}
	}

	return models.ScenarioDates{}, &NoDataError{Weekday: baselineWeekday, Hour: baselineHour, Suffix: variableSuffix}
}

func matchingColumns(w *WideSeries, suffix string) []string {
	var cols []string
	for _, name := range w.Columns {
		if strings.HasSuffix(name, "_"+suffix) {
			cols = append(cols, name)
		}
	}
	return cols
}
