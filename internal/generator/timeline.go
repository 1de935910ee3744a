package generator

import (
	"time"
)

// Timeline returns every instant from start to end, both inclusive, spaced
// by interval.
func Timeline(start, end time.Time, interval time.Duration) ([]time.Time, error) {
	if end.Before(start) {
		return nil, &ConfigurationError{Field: "end", Reason: "window ends before it starts"}
	}
	if interval <= 0 {
		return nil, &ConfigurationError{Field: "interval", Reason: "must be positive"}
	}

	count := int(end.Sub(start)/interval) + 1
	timestamps := make([]time.Time, 0, count)
	for ts := start; !ts.After(end); ts = ts.Add(interval) {
		timestamps = append(timestamps, ts)
	}

	return timestamps, nil
}
