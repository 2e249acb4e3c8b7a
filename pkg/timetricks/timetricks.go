package timetricks

import (
	"time"
)

const (
	dayFormat = "20060102"
)

// SameDay is true when t and t2 fall on the same calendar date, each read in
// its own location.
func SameDay(t time.Time, t2 time.Time) bool {
	return t.Format(dayFormat) == t2.Format(dayFormat)
}

// TrimClock returns midnight at the start of t's day.
func TrimClock(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// LocalMinute reads t in loc and drops anything finer than a minute, matching
// the resolution NOAA reports at.
func LocalMinute(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Truncate(time.Minute)
}
