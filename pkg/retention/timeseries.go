package retention

import (
	"sort"
	"time"
)

// timeseries is a slice of Times that can be sorted oldest first.
type timeseries []time.Time

// Implement sort.Interface:

func (s timeseries) Len() int           { return len(s) }
func (s timeseries) Less(i, j int) bool { return s[i].Before(s[j]) }
func (s timeseries) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// squash stable-sorts the timeseries and removes consecutive
// duplicates, keeping the first of each run of equal Times.
func (sp *timeseries) squash() {
	s := *sp
	if len(s) < 2 {
		return
	}
	sort.Stable(s)
	out := s[:1]
	for _, t := range s[1:] {
		if !t.Equal(out[len(out)-1]) {
			out = append(out, t)
		}
	}
	*sp = out
}

// set returns the Times in s keyed by UnixNano.
// Equal Times in different locations share a key.
func (s timeseries) set() map[int64]struct{} {
	m := make(map[int64]struct{}, len(s))
	for _, t := range s {
		m[t.UnixNano()] = struct{}{}
	}
	return m
}
