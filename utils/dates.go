package utils

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time. All calendar
// dates in the system are normalized this way so range comparisons behave.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(s))
}

// ParseDateDefault parses s, falling back to def on empty or invalid input.
func ParseDateDefault(s string, def time.Time) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		return DateOf(def)
	}
	return d
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the current UTC calendar date.
func Today() time.Time {
	return DateOf(time.Now())
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
