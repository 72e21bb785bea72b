package retention

import (
	"fmt"
	"sort"
	"time"

	ptime "github.com/mintel/grandfatherson/pkg/time"
)

// Unit is a calendar granularity at which instants are bucketed.
type Unit int

// Units, finest first.
const (
	Seconds Unit = iota
	Minutes
	Hours
	Days
	Weeks
	Months
	Years
)

// Units returns every Unit, finest first.
func Units() []Unit {
	return []Unit{Seconds, Minutes, Hours, Days, Weeks, Months, Years}
}

// unitFuncs is the capability table backing each Unit.
var unitFuncs = [...]struct {
	name string
	// mask truncates t to the start of its bucket.
	mask func(t time.Time, first time.Weekday) time.Time
	// start returns the start of the oldest of n buckets ending with the one containing now.
	start func(now time.Time, n int, first time.Weekday) time.Time
}{
	Seconds: {
		name:  "seconds",
		mask:  func(t time.Time, _ time.Weekday) time.Time { return ptime.StartOfSecond(t) },
		start: func(now time.Time, n int, _ time.Weekday) time.Time { return ptime.AddSeconds(ptime.StartOfSecond(now), -(n - 1)) },
	},
	Minutes: {
		name:  "minutes",
		mask:  func(t time.Time, _ time.Weekday) time.Time { return ptime.StartOfMinute(t) },
		start: func(now time.Time, n int, _ time.Weekday) time.Time { return ptime.AddMinutes(ptime.StartOfMinute(now), -(n - 1)) },
	},
	Hours: {
		name:  "hours",
		mask:  func(t time.Time, _ time.Weekday) time.Time { return ptime.StartOfHour(t) },
		start: func(now time.Time, n int, _ time.Weekday) time.Time { return ptime.AddHours(ptime.StartOfHour(now), -(n - 1)) },
	},
	Days: {
		name:  "days",
		mask:  func(t time.Time, _ time.Weekday) time.Time { return ptime.StartOfDay(t) },
		start: func(now time.Time, n int, _ time.Weekday) time.Time { return ptime.AddDays(ptime.StartOfDay(now), -(n - 1)) },
	},
	Weeks: {
		name: "weeks",
		mask: startOfWeek,
		start: func(now time.Time, n int, first time.Weekday) time.Time {
			return ptime.AddDays(startOfWeek(now, first), -(n-1)*ptime.DaysInWeek)
		},
	},
	Months: {
		name:  "months",
		mask:  func(t time.Time, _ time.Weekday) time.Time { return ptime.StartOfMonth(t) },
		start: func(now time.Time, n int, _ time.Weekday) time.Time { return ptime.AddMonths(ptime.StartOfMonth(now), -(n - 1)) },
	},
	Years: {
		name: "years",
		mask: func(t time.Time, _ time.Weekday) time.Time { return ptime.StartOfYear(t) },
		start: func(now time.Time, n int, _ time.Weekday) time.Time {
			return ptime.AddYears(ptime.StartOfYear(now), -(n - 1))
		},
	},
}

// startOfWeek returns midnight on the most recent first weekday on or before t.
func startOfWeek(t time.Time, first time.Weekday) time.Time {
	t = t.UTC()
	correction := ptime.Mod(int(t.Weekday())-int(first), ptime.DaysInWeek)
	return ptime.StartOfDay(ptime.AddDays(t, -correction))
}

func (u Unit) valid() bool { return u >= Seconds && u <= Years }

// String returns the lowercase plural name of u, e.g. "weeks".
func (u Unit) String() string {
	if !u.valid() {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitFuncs[u].name
}

// Mask truncates t to the start of the Unit bucket containing it, in UTC.
// firstWeekday is only consulted by Weeks.
//
// Mask is idempotent and monotonic.
func (u Unit) Mask(t time.Time, firstWeekday time.Weekday) time.Time {
	return unitFuncs[u].mask(t, firstWeekday)
}

// Start returns the earliest instant of the window of o.Count
// buckets that ends with the bucket containing o.Now.
// Counts reaching back past year 1 are capped there.
func (u Unit) Start(o Options) (time.Time, error) {
	if err := o.validate("count"); err != nil {
		return time.Time{}, err
	}
	return u.start(o.now(), o.Count, o.firstWeekday(), minStart), nil
}

// minStart bounds how far back a window reaches when no input is older.
var minStart = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

// start returns the window start of n buckets, with n capped so that
// the window reaches no further back than is needed to cover floor.
func (u Unit) start(now time.Time, n int, first time.Weekday, floor time.Time) time.Time {
	if max := u.maxCount(floor, now); n > max {
		n = max
	}
	return unitFuncs[u].start(now, n, first)
}

const maxInt = int(^uint(0) >> 1)

// maxCount returns a count of u buckets whose window starts at or
// before from. Any larger count selects the same instants from inputs
// no older than from, and could overflow the calendar arithmetic.
func (u Unit) maxCount(from, now time.Time) int {
	if !from.Before(now) {
		return 1
	}
	secs := now.Unix() - from.Unix()
	var n int64
	switch u {
	case Seconds:
		n = secs
	case Minutes:
		n = secs / 60
	case Hours:
		n = secs / (60 * 60)
	case Days:
		n = secs / (24 * 60 * 60)
	case Weeks:
		n = secs/(ptime.DaysInWeek*24*60*60) + 1
	case Months:
		n = int64(now.Year()-from.Year())*12 + int64(now.Month()-from.Month())
	case Years:
		n = int64(now.Year() - from.Year())
	}
	n += 2
	if n > int64(maxInt) {
		return maxInt
	}
	return int(n)
}

// Filter returns the subset of times kept under o.Count buckets of u:
// the oldest instant of each bucket in the window [Start, Now],
// ascending, followed by every instant after Now in input order.
// With a Count of 0 only the instants after Now are returned.
//
// Every element of times must be a non-zero Time. The input is not modified.
// Results are in UTC.
func (u Unit) Filter(times []time.Time, o Options) ([]time.Time, error) {
	in, err := normalize(times)
	if err != nil {
		return nil, err
	}
	if err := o.validate("count"); err != nil {
		return nil, err
	}
	return u.filter(in, o.Count, o.now(), o.firstWeekday()), nil
}

// filter implements Filter on inputs that are already validated and in UTC.
func (u Unit) filter(in []time.Time, n int, now time.Time, first time.Weekday) []time.Time {
	var future []time.Time
	window := make(timeseries, 0, len(in))
	floor := minStart
	for _, t := range in {
		if t.Before(floor) {
			floor = t
		}
	}
	start := u.start(now, n, first, floor)
	for _, t := range in {
		switch {
		case t.After(now):
			future = append(future, t)
		case n > 0 && ptime.Between(t, start, now):
			window = append(window, t)
		}
	}
	sort.Stable(window)

	out := make([]time.Time, 0, len(window)+len(future))
	var last time.Time
	for i, t := range window {
		m := u.Mask(t, first)
		if i == 0 || !m.Equal(last) {
			out = append(out, t)
			last = m
		}
	}
	return append(out, future...)
}
