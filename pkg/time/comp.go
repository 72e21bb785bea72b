// Package time contains the time helpers used throughout grandfatherson:
// normalization of date-like values to UTC, calendar truncation and
// arithmetic, and ISO 8601 duration parsing.
package time

import "time"

// Between returns true if t is between a and b inclusive.
// The order of a and b doesn't matter.
func Between(t, a, b time.Time) bool {
	if b.Before(a) {
		a, b = b, a
	}
	return !t.Before(a) && !t.After(b)
}
