package retention

import (
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"
	"time"

	"github.com/stretchr/testify/assert" // Test assertions e.g. equality.
)

func Test_timeseries_squash(t *testing.T) {
	t.Run("small", func(t *testing.T) {
		var empty timeseries
		empty.squash()
		assert.Empty(t, empty)

		one := timeseries{date(2000, time.January, 1, 0, 0, 0, 0)}
		one.squash()
		assert.Len(t, one, 1)
	})

	t.Run("same_instant_other_zone", func(t *testing.T) {
		utc := date(2000, time.January, 1, 0, 0, 0, 0)
		ts := timeseries{utc.In(time.FixedZone("UTC+2", 2*60*60)), utc}
		ts.squash()
		assert.Len(t, ts, 1)
	})

	t.Run("quick", func(t *testing.T) {
		hasProperties := func(times []time.Time) bool {
			ts := append(timeseries(nil), times...)
			ts.squash()
			pass := assertTimeseriesSorted(t, ts)
			pass = pass && assert.Subset(t, times, []time.Time(ts))
			pass = pass && assert.Subset(t, []time.Time(ts), times)
			return pass
		}
		testValues := func(v []reflect.Value, r *rand.Rand) {
			times := randomTimeseriesBetween(
				r, r.Intn(50),
				date(1999, time.January, 1, 0, 0, 0, 0),
				date(2000, time.January, 1, 0, 0, 0, 0),
			)
			// Sprinkle in duplicates.
			for i := r.Intn(len(times) + 1); i > 0; i-- {
				times = append(times, times[r.Intn(len(times))])
			}
			r.Shuffle(len(times), func(i, j int) {
				times[i], times[j] = times[j], times[i]
			})
			v[0] = reflect.ValueOf([]time.Time(times))
		}
		c := &quick.Config{Values: testValues}
		if err := quick.Check(hasProperties, c); err != nil {
			t.Error(err)
		}
	})
}

func Test_timeseries_set(t *testing.T) {
	a := date(2000, time.January, 1, 0, 0, 0, 0)
	b := date(2000, time.January, 1, 0, 0, 0, 1)
	s := timeseries{a, b, a.In(time.FixedZone("UTC-5", -5*60*60))}.set()
	assert.Len(t, s, 2)
	assert.Contains(t, s, a.UnixNano())
	assert.Contains(t, s, b.UnixNano())
}

// randomTimeseriesBetween returns a random timeseries of length n
// between start and end times.
func randomTimeseriesBetween(r *rand.Rand, n int, start, end time.Time) timeseries {
	if end.Before(start) {
		end, start = start, end
	}
	diff := end.Sub(start) + 1
	ts := make(timeseries, 0, n)
	for len(ts) < n {
		d := time.Duration(float64(diff) * r.Float64())
		ts = append(ts, start.Add(d))
	}
	return ts
}

// assertTimeseriesSorted asserts that a timeseries is in
// strictly ascending order.
func assertTimeseriesSorted(t *testing.T, ts timeseries) bool {
	pass := true
	for i := 0; i < len(ts)-1; i++ {
		pass = pass && assert.True(
			t, ts[i].Before(ts[i+1]),
			"timeseries isn't sorted: %s (index %d) -> %s (index %d)",
			ts[i], i, ts[i+1], i+1,
		)
	}
	return pass
}

func Benchmark_timeseries_squash(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	times := randomTimeseriesBetween(
		r, 1000,
		date(1999, time.January, 1, 0, 0, 0, 0),
		date(2000, time.January, 1, 0, 0, 0, 0),
	)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ts := append(timeseries(nil), times...)
		ts.squash()
	}
}
