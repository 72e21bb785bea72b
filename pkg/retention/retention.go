// Package retention implements a stateless grandfather-father-son algorithm
// for deciding which of a set of timestamped snapshots to keep.
//
// A Policy names how many distinct buckets of each calendar Unit to keep:
// the N most recent years, M most recent months, and so on down to seconds.
// Within each bucket the oldest snapshot is the one kept. A snapshot is
// kept if any Unit keeps it. Snapshots dated after Now are always kept.
//
// All bucketing is done in UTC.
//
// Example Use:
//
// 	p := retention.Policy{
// 		Days:   7,
// 		Weeks:  4,
// 		Months: 12,
// 	}
// 	snapshotTimes := ListSnapshots()
// 	toDelete, err := retention.Delete(p, snapshotTimes)
// 	if err != nil {
// 		return err
// 	}
// 	DeleteSnapshots(toDelete)
//
package retention

import (
	"time"

	"golang.org/x/sync/errgroup" // Run the per-unit filters concurrently.

	ptime "github.com/mintel/grandfatherson/pkg/time"
)

// keepOrder is the order per-unit results are concatenated in.
var keepOrder = [...]Unit{Years, Months, Weeks, Days, Hours, Minutes, Seconds}

// Keep takes a list of times that snapshots were taken at and
// returns which ones should be kept under p.
//
// Times will be returned in ascending order, in UTC,
// without duplicates. The input is not modified.
func Keep(p Policy, snapshots []time.Time) ([]time.Time, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	in, err := normalize(snapshots)
	if err != nil {
		return nil, err
	}
	return keep(p, in, resolveNow(p.Now)), nil
}

func keep(p Policy, in []time.Time, now time.Time) []time.Time {
	first := firstWeekdayOrDefault(p.FirstWeekday)
	results := make([][]time.Time, len(keepOrder))
	var g errgroup.Group
	for i, u := range keepOrder {
		i, u := i, u
		g.Go(func() error {
			results[i] = u.filter(in, p.Count(u), now, first)
			return nil
		})
	}
	_ = g.Wait() // filter doesn't fail once inputs are validated.

	n := 0
	for _, r := range results {
		n += len(r)
	}
	kept := make(timeseries, 0, n)
	for _, r := range results {
		kept = append(kept, r...)
	}
	kept.squash()
	return kept
}

// Delete takes a list of times that snapshots were taken at and
// returns which ones should be deleted under p: those Keep doesn't return.
//
// Times will be returned in UTC, in the order they were given.
// If a time appears more than once in snapshots and isn't kept,
// each occurrence is returned.
func Delete(p Policy, snapshots []time.Time) ([]time.Time, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	in, err := normalize(snapshots)
	if err != nil {
		return nil, err
	}
	kept := timeseries(keep(p, in, resolveNow(p.Now))).set()
	out := make([]time.Time, 0, len(in)-len(kept))
	for _, t := range in {
		if _, ok := kept[t.UnixNano()]; !ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// Parse normalizes date-like values into UTC Times.
// See github.com/mintel/grandfatherson/pkg/time.Normalize for
// the accepted types and formats.
//
// The first value that can't be parsed is returned as a *ValidationError.
func Parse(values ...interface{}) ([]time.Time, error) {
	out := make([]time.Time, len(values))
	for i, v := range values {
		t, err := ptime.Normalize(v)
		if err != nil {
			return nil, &ValidationError{Index: i, Value: v, Err: err}
		}
		out[i] = t
	}
	return out, nil
}

// KeepValues is like Keep, but takes date-like values. See Parse.
func KeepValues(p Policy, values ...interface{}) ([]time.Time, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	in, err := Parse(values...)
	if err != nil {
		return nil, err
	}
	return Keep(p, in)
}

// DeleteValues is like Delete, but takes date-like values. See Parse.
func DeleteValues(p Policy, values ...interface{}) ([]time.Time, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	in, err := Parse(values...)
	if err != nil {
		return nil, err
	}
	return Delete(p, in)
}
