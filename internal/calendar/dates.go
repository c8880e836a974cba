// Package calendar holds the pure date helpers the booking core is built
// on: UTC day iteration, canonical day keys and wall-clock session start
// construction. Stays are bucketed by UTC day throughout the platform.
package calendar

import (
	"fmt"
	"iter"
	"time"
)

// DayUTC truncates t to UTC midnight.
func DayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EachDayUTC yields every UTC-midnight day covering [start, end), exclusive
// of end's day when end is already midnight. The sequence is lazy, finite
// and restartable; it is empty when start >= end.
func EachDayUTC(start, end time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if !start.Before(end) {
			return
		}
		// Comparing each midnight against end itself keeps a midnight end
		// exclusive while a partial end day still yields its day.
		for d := DayUTC(start); d.Before(end); d = d.AddDate(0, 0, 1) {
			if !yield(d) {
				return
			}
		}
	}
}

// DateKey formats t as the canonical YYYY-MM-DD day key in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// CombineDateTime places an "HH:MM" wall-clock time onto the given
// calendar day in day's location. Used by the materializer to compute a
// session's start from its template.
func CombineDateTime(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse start time %q: %w", hhmm, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

// DateKeySet builds a lookup of day keys, used for blackout checks.
func DateKeySet(dates []time.Time) map[string]struct{} {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[DateKey(d)] = struct{}{}
	}
	return set
}
