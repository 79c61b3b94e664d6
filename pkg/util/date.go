package util

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// DateOf returns the calendar date of t as seen in loc, as midnight UTC.
// Stored date columns use the same representation so they compare directly.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TruncateDate drops the clock part of a stored date value, keeping the
// calendar date the driver returned it in.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}
