package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus" // Prometheus metrics.
)

// VecTimer is a helper type to time functions.
// It is similar to prometheus.Timer, but takes a prometheus.ObserverVec,
// and labels the observation with the outcome of the timed call.
// Use NewVecTimer to create new instances.
type VecTimer struct {
	begin time.Time
	vec   prometheus.ObserverVec
}

// NewVecTimer creates a new VecTimer. The provided ObserverVec is used to observe a
// duration in seconds. Timer is usually used to time a function call in the
// following way:
//    func TimeMe() (err error) {
//        timer := NewVecTimer(myHistogramVec)
//        defer func() { timer.ObserveErr(err) }()
//        // Do actual work.
//    }
func NewVecTimer(v prometheus.ObserverVec) *VecTimer {
	return &VecTimer{
		begin: time.Now(),
		vec:   v,
	}
}

// ObserveErr sets a label equal to LabelStatus based on the err value and records the
// duration passed since the VecTimer was created.
// The observed duration is also returned.
//
// Note that this method is only guaranteed to never observe negative durations
// if used with Go1.9+.
func (t *VecTimer) ObserveErr(err error) time.Duration {
	d := time.Since(t.begin)
	if t.vec != nil {
		status := StatusSuccess
		if err != nil {
			status = StatusError
		}
		t.vec.With(prometheus.Labels{LabelStatus: status}).Observe(d.Seconds())
	}
	return d
}
