package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus" // Prometheus metrics.
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert" // Test assertions e.g. equality.
)

func TestVecTimer(t *testing.T) {
	newVec := func() *prometheus.SummaryVec {
		return prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       "timer_seconds",
			Help:       "Test timer.",
			Objectives: DefaultObjectives,
		}, []string{LabelStatus})
	}

	count := func(vec *prometheus.SummaryVec, status string) uint64 {
		var m dto.Metric
		o := vec.With(prometheus.Labels{LabelStatus: status}).(prometheus.Metric)
		if !assert.NoError(t, o.Write(&m)) {
			return 0
		}
		return m.GetSummary().GetSampleCount()
	}

	t.Run("ObserveErr", func(t *testing.T) {
		vec := newVec()
		fakeErr := errors.New("bad things!")
		func() {
			var err error
			timer := NewVecTimer(vec)
			defer func() { timer.ObserveErr(err) }()
			err = fakeErr
		}()
		assert.Equal(t, uint64(1), count(vec, StatusError))
		assert.Equal(t, uint64(0), count(vec, StatusSuccess))

		d := NewVecTimer(vec).ObserveErr(nil)
		assert.True(t, d >= 0)
		assert.Equal(t, uint64(1), count(vec, StatusSuccess))
	})

	t.Run("nil", func(t *testing.T) {
		timer := NewVecTimer(nil)
		assert.NotPanics(t, func() { timer.ObserveErr(nil) })
	})
}
