package retention

import (
	"time"

	ptime "github.com/mintel/grandfatherson/pkg/time"
)

// DefaultFirstWeekday is the day weeks start on when none is set.
const DefaultFirstWeekday = time.Saturday

// Options configures a single Unit's Start or Filter call.
type Options struct {
	// Count is the number of buckets to keep. Must not be negative.
	Count int

	// Now is the end of the retention window.
	// The zero Time means the current time when the call is made.
	Now time.Time

	// FirstWeekday is the day Weeks buckets begin on.
	// Nil means DefaultFirstWeekday.
	FirstWeekday *time.Weekday
}

// WeekStartsOn returns a pointer to d, for use as Options.FirstWeekday
// or Policy.FirstWeekday.
func WeekStartsOn(d time.Weekday) *time.Weekday {
	return &d
}

func (o Options) validate(field string) error {
	if o.Count < 0 {
		return &ConfigError{Field: field, Value: o.Count, Reason: errNegativeCount}
	}
	return validateWeekday(o.FirstWeekday)
}

func (o Options) now() time.Time {
	return resolveNow(o.Now)
}

func (o Options) firstWeekday() time.Weekday {
	return firstWeekdayOrDefault(o.FirstWeekday)
}

func validateWeekday(d *time.Weekday) error {
	if d != nil && (*d < time.Sunday || *d > time.Saturday) {
		return &ConfigError{Field: "first_weekday", Value: int(*d), Reason: "must be in [0, 6]"}
	}
	return nil
}

func firstWeekdayOrDefault(d *time.Weekday) time.Weekday {
	if d == nil {
		return DefaultFirstWeekday
	}
	return *d
}

// nowFunc returns the current time. Replaced in tests.
var nowFunc = time.Now

func resolveNow(now time.Time) time.Time {
	if now.IsZero() {
		return nowFunc().UTC()
	}
	return now.UTC()
}

// normalize returns a UTC copy of times, or a ValidationError
// for the first zero Time.
func normalize(times []time.Time) ([]time.Time, error) {
	out := make([]time.Time, len(times))
	for i, t := range times {
		if t.IsZero() {
			return nil, &ValidationError{Index: i, Value: t, Err: ptime.ErrInvalidTime}
		}
		out[i] = t.UTC()
	}
	return out, nil
}
