package rotator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"                   // Prometheus metrics.
	promtest "github.com/prometheus/client_golang/prometheus/testutil" // Prometheus metrics testing.
	cron "github.com/robfig/cron/v3"                                   // Job scheduling.
	"github.com/stretchr/testify/assert"                               // Test assertions e.g. equality.
	"go.uber.org/zap"                                                  // Logging.
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mintel/grandfatherson/pkg/ctxlog"    // Logger carried in Context.
	"github.com/mintel/grandfatherson/pkg/retention" // Which snapshots to keep.
)

func TestDefaultSchedule(t *testing.T) {
	tests := []struct {
		name   string
		policy retention.Policy
		want   string
	}{
		{"empty", retention.Policy{}, ""},
		{"seconds", retention.Policy{Seconds: 10, Years: 1}, "@every 1s"},
		{"minutes", retention.Policy{Minutes: 10}, "@every 1m"},
		{"hours", retention.Policy{Hours: 24, Days: 7}, "@hourly"},
		{"days", retention.Policy{Days: 7, Weeks: 4}, "@daily"},
		{"weeks", retention.Policy{Weeks: 4}, "0 0 * * 6"},
		{"weeks_monday", retention.Policy{Weeks: 4, FirstWeekday: retention.WeekStartsOn(time.Monday)}, "0 0 * * 1"},
		{"months", retention.Policy{Months: 12, Years: 3}, "@monthly"},
		{"years", retention.Policy{Years: 3}, "@yearly"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultSchedule(tt.policy)
			assert.Equal(t, tt.want, got)
			if got != "" {
				_, err := ParseSchedule(got)
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseSchedule(t *testing.T) {
	now := time.Date(2019, time.May, 5, 5, 26, 13, 0, time.UTC)

	t.Run("iso8601", func(t *testing.T) {
		s, err := ParseSchedule("PT6H")
		if assert.NoError(t, err) {
			assert.Equal(t, now.Add(6*time.Hour), s.Next(now))
		}
	})

	t.Run("every", func(t *testing.T) {
		s, err := ParseSchedule("@every 90s")
		if assert.NoError(t, err) {
			assert.Equal(t, now.Add(90*time.Second), s.Next(now))
		}
	})

	t.Run("hourly", func(t *testing.T) {
		s, err := ParseSchedule("@hourly")
		if assert.NoError(t, err) {
			next := s.Next(now)
			assert.True(t, next.After(now))
			assert.True(t, next.Sub(now) <= time.Hour)
			assert.Equal(t, 0, next.Minute())
			assert.Equal(t, 0, next.Second())
		}
	})

	t.Run("standard", func(t *testing.T) {
		s, err := ParseSchedule("CRON_TZ=UTC 30 2 * * *")
		if assert.NoError(t, err) {
			assert.Equal(t, time.Date(2019, time.May, 6, 2, 30, 0, 0, time.UTC), s.Next(now).UTC())
		}
	})

	for _, spec := range []string{"PT0S", "P1X", "every day", "61 * * * *"} {
		spec := spec
		t.Run("invalid_"+spec, func(t *testing.T) {
			_, err := ParseSchedule(spec)
			assert.Error(t, err)
		})
	}
}

func TestCronLogger(t *testing.T) {
	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "skipped_total",
		Help: "Test counter.",
	})
	core, logs := observer.New(zapcore.DebugLevel)
	cl := newCronLogger(ctxlog.WithLogger(context.Background(), zap.New(core)), skipped)

	started := make(chan struct{})
	release := make(chan struct{})
	job := cron.NewChain(cron.SkipIfStillRunning(cl)).Then(cron.FuncJob(func() {
		close(started)
		<-release
	}))

	done := make(chan struct{})
	go func() {
		job.Run()
		close(done)
	}()
	<-started
	job.Run() // Skipped, since the first run hasn't finished.
	close(release)
	<-done

	assert.Equal(t, 1.0, promtest.ToFloat64(skipped))
	if skips := logs.FilterMessage("skipped rotation because the previous one is still running").All(); assert.Len(t, skips, 1) {
		assert.Equal(t, "cron", skips[0].LoggerName)
		assert.Equal(t, zapcore.WarnLevel, skips[0].Level)
	}
	assert.NotPanics(t, func() {
		cl.Info("start", "entry", 1)
		cl.Error(errors.New("bad things!"), "panic", "entry", 1)
	})
	assert.Equal(t, 1.0, promtest.ToFloat64(skipped))
}
