package retention

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"
	"time"

	"github.com/stretchr/testify/assert" // Test assertions e.g. equality.

	ptime "github.com/mintel/grandfatherson/pkg/time"
)

// daysOf1999 returns midnight of every day in 1999.
func daysOf1999() []time.Time {
	days := make([]time.Time, 0, 365)
	for d := date(1999, time.January, 1, 0, 0, 0, 0); d.Year() == 1999; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// policyOf1999 is the policy of the last day of 1999.
func policyOf1999() Policy {
	return Policy{
		Days:         8,
		Weeks:        4,
		Months:       3,
		FirstWeekday: WeekStartsOn(time.Saturday),
		Now:          date(1999, time.December, 31, 0, 0, 0, 0),
	}
}

func TestKeep(t *testing.T) {
	t.Run("1999", func(t *testing.T) {
		got, err := Keep(policyOf1999(), daysOf1999())
		want := []time.Time{
			date(1999, time.October, 1, 0, 0, 0, 0),
			date(1999, time.November, 1, 0, 0, 0, 0),
			date(1999, time.December, 1, 0, 0, 0, 0),
			date(1999, time.December, 4, 0, 0, 0, 0),
			date(1999, time.December, 11, 0, 0, 0, 0),
			date(1999, time.December, 18, 0, 0, 0, 0),
			date(1999, time.December, 24, 0, 0, 0, 0),
			date(1999, time.December, 25, 0, 0, 0, 0),
			date(1999, time.December, 26, 0, 0, 0, 0),
			date(1999, time.December, 27, 0, 0, 0, 0),
			date(1999, time.December, 28, 0, 0, 0, 0),
			date(1999, time.December, 29, 0, 0, 0, 0),
			date(1999, time.December, 30, 0, 0, 0, 0),
			date(1999, time.December, 31, 0, 0, 0, 0),
		}
		if assert.NoError(t, err) {
			assert.Equal(t, want, got)
		}
	})

	t.Run("seconds", func(t *testing.T) {
		p := Policy{Seconds: 2, Now: date(2000, time.January, 1, 0, 0, 1, 999)}
		in := []time.Time{
			date(2000, time.January, 1, 0, 0, 1, 0),
			date(2000, time.January, 1, 0, 0, 0, 1),
			date(1999, time.December, 31, 23, 59, 59, 999),
			date(1999, time.December, 31, 23, 59, 57, 0),
			date(2000, time.January, 1, 0, 0, 1, 500),
		}
		got, err := Keep(p, in)
		if assert.NoError(t, err) {
			assert.Equal(t, []time.Time{
				date(2000, time.January, 1, 0, 0, 0, 1),
				date(2000, time.January, 1, 0, 0, 1, 0),
			}, got)
		}
	})

	t.Run("empty_policy_keeps_future", func(t *testing.T) {
		now := date(2000, time.January, 1, 0, 0, 0, 0)
		later := date(2001, time.January, 1, 0, 0, 0, 0)
		got, err := Keep(Policy{Now: now}, []time.Time{now, later, later, now.Add(-time.Hour)})
		if assert.NoError(t, err) {
			assert.Equal(t, []time.Time{later}, got)
		}
	})

	t.Run("empty_input", func(t *testing.T) {
		got, err := Keep(policyOf1999(), nil)
		if assert.NoError(t, err) {
			assert.Empty(t, got)
		}
	})

	t.Run("negative_count", func(t *testing.T) {
		_, err := Keep(Policy{Weeks: -1}, daysOf1999())
		var cerr *ConfigError
		if assert.True(t, errors.As(err, &cerr)) {
			assert.Equal(t, "weeks", cerr.Field)
			assert.Equal(t, -1, cerr.Value)
		}
	})

	t.Run("bad_weekday", func(t *testing.T) {
		_, err := Keep(Policy{Weeks: 1, FirstWeekday: WeekStartsOn(-1)}, daysOf1999())
		var cerr *ConfigError
		if assert.True(t, errors.As(err, &cerr)) {
			assert.Equal(t, "first_weekday", cerr.Field)
		}
	})

	t.Run("invalid_time", func(t *testing.T) {
		in := append(daysOf1999(), time.Time{})
		_, err := Keep(policyOf1999(), in)
		var verr *ValidationError
		if assert.True(t, errors.As(err, &verr)) {
			assert.Equal(t, 365, verr.Index)
		}
	})

	t.Run("quick", func(t *testing.T) {
		hasProperties := func(p Policy, times []time.Time) bool {
			got, err := Keep(p, times)
			if !assert.NoError(t, err) {
				return false
			}
			pass := assertTimeseriesSorted(t, got)
			pass = pass && assert.Subset(t, times, got)

			// Keep is the union of every Unit's Filter.
			union := timeseries{}
			for _, u := range Units() {
				f, err := u.Filter(times, p.Options(u))
				pass = pass && assert.NoError(t, err)
				union = append(union, f...)
			}
			union.squash()
			pass = pass && assert.Equal(t, []time.Time(union), got)

			// Keeping more of any Unit never drops a time.
			u := Units()[rand.Intn(len(Units()))]
			more := p
			more.SetCount(u, p.Count(u)+1)
			gotMore, err := Keep(more, times)
			pass = pass && assert.NoError(t, err)
			pass = pass && assert.Subset(t, gotMore, got)
			return pass
		}
		testValues := func(v []reflect.Value, r *rand.Rand) {
			p, times := randomPolicyAndTimes(r)
			v[0] = reflect.ValueOf(p)
			v[1] = reflect.ValueOf(times)
		}
		c := &quick.Config{Values: testValues, MaxCount: 200}
		if err := quick.Check(hasProperties, c); err != nil {
			t.Error(err)
		}
	})
}

func TestDelete(t *testing.T) {
	t.Run("1999", func(t *testing.T) {
		got, err := Delete(policyOf1999(), daysOf1999())
		if assert.NoError(t, err) {
			assert.Len(t, got, 365-14)
			assert.NotContains(t, got, date(1999, time.December, 31, 0, 0, 0, 0))
			assert.Contains(t, got, date(1999, time.September, 30, 0, 0, 0, 0))
		}
	})

	t.Run("input_order", func(t *testing.T) {
		p := Policy{Days: 1, Now: date(2000, time.January, 2, 12, 0, 0, 0)}
		in := []time.Time{
			date(1999, time.December, 3, 0, 0, 0, 0),
			date(2000, time.January, 2, 6, 0, 0, 0),
			date(1999, time.December, 1, 0, 0, 0, 0),
			date(2000, time.January, 2, 1, 0, 0, 0),
			date(1999, time.December, 1, 0, 0, 0, 0),
		}
		got, err := Delete(p, in)
		if assert.NoError(t, err) {
			assert.Equal(t, []time.Time{in[0], in[1], in[2], in[4]}, got)
		}
	})

	t.Run("other_zone", func(t *testing.T) {
		plus2 := time.FixedZone("UTC+2", 2*60*60)
		p := Policy{Days: 1, Now: date(2000, time.January, 1, 12, 0, 0, 0)}
		in := []time.Time{
			time.Date(2000, time.January, 1, 2, 0, 0, 0, plus2), // Midnight UTC.
			time.Date(2000, time.January, 1, 1, 0, 0, 0, plus2), // 23:00 UTC on Dec 31.
		}
		got, err := Delete(p, in)
		if assert.NoError(t, err) {
			assert.Equal(t, []time.Time{date(1999, time.December, 31, 23, 0, 0, 0)}, got)
		}
	})

	t.Run("negative_count", func(t *testing.T) {
		_, err := Delete(Policy{Years: -2}, nil)
		var cerr *ConfigError
		assert.True(t, errors.As(err, &cerr))
	})

	t.Run("quick", func(t *testing.T) {
		hasProperties := func(p Policy, times []time.Time) bool {
			kept, err := Keep(p, times)
			if !assert.NoError(t, err) {
				return false
			}
			deleted, err := Delete(p, times)
			if !assert.NoError(t, err) {
				return false
			}
			keptSet := timeseries(kept).set()
			pass := true
			for _, d := range deleted {
				_, ok := keptSet[d.UnixNano()]
				pass = pass && assert.False(t, ok, "%s both kept and deleted", d)
			}
			// Every input is either kept or deleted.
			all := append(append(timeseries(nil), kept...), deleted...)
			all.squash()
			want := append(timeseries(nil), times...)
			want.squash()
			pass = pass && assert.Equal(t, want, all)
			return pass
		}
		testValues := func(v []reflect.Value, r *rand.Rand) {
			p, times := randomPolicyAndTimes(r)
			v[0] = reflect.ValueOf(p)
			v[1] = reflect.ValueOf(times)
		}
		c := &quick.Config{Values: testValues, MaxCount: 200}
		if err := quick.Check(hasProperties, c); err != nil {
			t.Error(err)
		}
	})
}

func TestParse(t *testing.T) {
	got, err := Parse("1995-12-25", int64(819849600000), date(1995, time.December, 25, 0, 0, 0, 0))
	if assert.NoError(t, err) {
		assert.Len(t, got, 3)
		for _, g := range got {
			assert.Equal(t, date(1995, time.December, 25, 0, 0, 0, 0), g)
		}
	}

	_, err = Parse("1995-12-25", "boom")
	var verr *ValidationError
	if assert.True(t, errors.As(err, &verr)) {
		assert.Equal(t, 1, verr.Index)
		assert.Equal(t, "boom", verr.Value)
		assert.True(t, errors.Is(err, ptime.ErrInvalidTime))
	}
}

func TestKeepValues(t *testing.T) {
	p := Policy{Days: 2, Now: date(2000, time.January, 1, 12, 0, 0, 0)}
	got, err := KeepValues(p,
		"1995-12-25",
		"2013-02-08 09:30:26.123",
		"2016-10-12T19:31:38Z",
		"1999-12-31T10:00:00",
		"1999-12-31 08:00",
	)
	if assert.NoError(t, err) {
		assert.Equal(t, []time.Time{
			date(1999, time.December, 31, 8, 0, 0, 0),
			date(2013, time.February, 8, 9, 30, 26, 123),
			date(2016, time.October, 12, 19, 31, 38, 0),
		}, got)
	}

	_, err = KeepValues(p, "boom")
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = KeepValues(Policy{Days: -1}, "boom")
	var cerr *ConfigError
	assert.True(t, errors.As(err, &cerr), "policy is validated before values")
}

func TestDeleteValues(t *testing.T) {
	p := Policy{Days: 1, Now: date(2000, time.January, 1, 12, 0, 0, 0)}
	got, err := DeleteValues(p, "1999-12-31", "2000-01-01", "2000-01-01T06:00:00Z")
	if assert.NoError(t, err) {
		assert.Equal(t, []time.Time{
			date(1999, time.December, 31, 0, 0, 0, 0),
			date(2000, time.January, 1, 6, 0, 0, 0),
		}, got)
	}
}

// randomPolicyAndTimes returns a random Policy and a set of times
// spread around its Now.
func randomPolicyAndTimes(r *rand.Rand) (Policy, []time.Time) {
	now := randomTime(r)
	p := Policy{
		Now:          now,
		FirstWeekday: WeekStartsOn(time.Weekday(r.Intn(7))),
	}
	for _, u := range Units() {
		if r.Intn(3) > 0 {
			p.SetCount(u, r.Intn(8))
		}
	}
	var times []time.Time
	for _, u := range Units() {
		times = append(times, randomTimesNear(r, u, now, r.Intn(15))...)
	}
	r.Shuffle(len(times), func(i, j int) {
		times[i], times[j] = times[j], times[i]
	})
	return p, times
}

func BenchmarkKeep(b *testing.B) {
	p := policyOf1999()
	days := daysOf1999()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Keep(p, days); err != nil {
			b.Fatal(err)
		}
	}
}
