package timeseries

import (
	"time"

	"github.com/urbansense/siteimpact/internal/models"
)

// Resample aggregates irregular readings to a fixed frequency. Within each
// (sensor, variable) group, readings are bucketed into fixed-width windows
// aligned to the epoch; value becomes the bucket mean and flagged the bucket
// OR. Buckets with no readings are absent from the output, not zero-filled.
func Resample(long LongSeries, freq time.Duration) LongSeries {
	type groupKey struct {
		sensor   string
		variable string
	}
	type bucket struct {
		sum     float64
		count   int
		flagged bool
	}

	groups := make(map[groupKey]map[time.Time]*bucket)
	for _, r := range long {
		key := groupKey{r.SensorID, r.Variable}
		buckets, ok := groups[key]
		if !ok {
			buckets = make(map[time.Time]*bucket)
			groups[key] = buckets
		}

		ts := bucketStart(r.Timestamp, freq)
		b, ok := buckets[ts]
		if !ok {
			b = &bucket{}
			buckets[ts] = b
		}
		b.sum += r.Value
		b.count++
		b.flagged = b.flagged || r.Flagged
	}

	out := make(LongSeries, 0, len(long))
	for key, buckets := range groups {
		for ts, b := range buckets {
			out = append(out, models.SensorReading{
				SensorID:  key.sensor,
				Variable:  key.variable,
				Timestamp: ts,
				Value:     b.sum / float64(b.count),
				Flagged:   b.flagged,
			})
		}
	}

	out.SortByTime()
	return out
}

// bucketStart floors a timestamp to its bucket boundary. Boundaries are
// multiples of freq counted from the Unix epoch, not from Go's zero time,
// so frequencies that do not divide the year-1 to 1970 span stay aligned.
func bucketStart(t time.Time, freq time.Duration) time.Time {
	if freq <= 0 {
		return t
	}
	step := int64(freq)
	nanos := t.UnixNano()
	nanos -= ((nanos % step) + step) % step
	return time.Unix(0, nanos).UTC()
}
