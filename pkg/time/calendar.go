package time

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors" // Wrap errors with stacktrace.
)

// DaysInWeek is the number of days in a week.
const DaysInWeek = 7

// Calendar primitives. All of them work in UTC: the input is converted
// to UTC before truncation, so bucket boundaries never depend on the
// local timezone.

// StartOfSecond returns t truncated to the start of its second.
func StartOfSecond(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// StartOfMinute returns t truncated to the start of its minute.
func StartOfMinute(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}

// StartOfHour returns t truncated to the start of its hour.
func StartOfHour(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)
}

// StartOfDay returns t truncated to midnight.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfMonth returns midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// StartOfYear returns midnight on January 1st of t's year.
func StartOfYear(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

// AddSeconds adds n seconds to t. n may be negative.
func AddSeconds(t time.Time, n int) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second()+n, t.Nanosecond(), time.UTC)
}

// AddMinutes adds n minutes to t. n may be negative.
func AddMinutes(t time.Time, n int) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute()+n, t.Second(), t.Nanosecond(), time.UTC)
}

// AddHours adds n hours to t. n may be negative.
func AddHours(t time.Time, n int) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour()+n, t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// AddDays adds n calendar days to t. n may be negative.
func AddDays(t time.Time, n int) time.Time {
	return t.UTC().AddDate(0, 0, n)
}

// AddMonths adds n calendar months to t. n may be negative.
// Like time.AddDate, a day that doesn't exist in the target month
// overflows into the next one (Oct 31 + 1 month = Dec 1).
func AddMonths(t time.Time, n int) time.Time {
	return t.UTC().AddDate(0, n, 0)
}

// AddYears adds n calendar years to t. n may be negative.
// February 29th overflows to March 1st in non-leap years.
func AddYears(t time.Time, n int) time.Time {
	return t.UTC().AddDate(n, 0, 0)
}

// Mod returns n modulo m as a value in [0, m), unlike the % operator
// which keeps the sign of n. m must be positive.
func Mod(n, m int) int {
	return ((n % m) + m) % m
}

// ParseWeekday parses an English weekday name ("saturday", "Sat") or
// its number in [0, 6] with 0 = Sunday.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= DaysInWeek {
			return 0, errors.Errorf("weekday %d out of range [0, 6]", n)
		}
		return time.Weekday(n), nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return 0, errors.Errorf("unknown weekday %q", s)
}
