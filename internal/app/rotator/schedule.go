package rotator

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"                          // Wrap errors with stacktrace.
	"github.com/prometheus/client_golang/prometheus" // Prometheus metrics.
	cron "github.com/robfig/cron/v3"                 // Job scheduling.
	"go.uber.org/zap"                                // Logging.

	"github.com/mintel/grandfatherson/pkg/ctxlog"    // Logger carried in Context.
	"github.com/mintel/grandfatherson/pkg/retention" // Which snapshots to keep.
	ptime "github.com/mintel/grandfatherson/pkg/time"
)

// DefaultSchedule returns a cron spec that rotates once per the
// finest Unit p keeps. It returns "" if p keeps nothing.
func DefaultSchedule(p retention.Policy) string {
	u, ok := p.MinUnit()
	if !ok {
		return ""
	}
	switch u {
	case retention.Seconds:
		return "@every 1s"
	case retention.Minutes:
		return "@every 1m"
	case retention.Hours:
		return "@hourly"
	case retention.Days:
		return "@daily"
	case retention.Weeks:
		d := retention.DefaultFirstWeekday
		if p.FirstWeekday != nil {
			d = *p.FirstWeekday
		}
		return fmt.Sprintf("0 0 * * %d", d)
	case retention.Months:
		return "@monthly"
	default:
		return "@yearly"
	}
}

// ParseSchedule parses a standard cron spec, a descriptor like
// "@daily" or "@every 1h", or an ISO 8601 duration like "P1D".
func ParseSchedule(spec string) (cron.Schedule, error) {
	if strings.HasPrefix(spec, "P") {
		d, err := ptime.ParseISO8601D(spec)
		if err != nil {
			return nil, err
		}
		if d <= 0 {
			return nil, errors.Errorf("schedule %s must be positive", spec)
		}
		return cron.Every(d), nil
	}
	s, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid schedule %q", spec)
	}
	return s, nil
}

// cronLogger adapts a zap Logger to cron.Logger.
// Jobs skipped by cron.SkipIfStillRunning are counted.
type cronLogger struct {
	logger  *zap.SugaredLogger
	skipped prometheus.Counter
}

func newCronLogger(ctx context.Context, skipped prometheus.Counter) *cronLogger {
	return &cronLogger{
		logger:  ctxlog.S(ctxlog.WithName(ctx, "cron")),
		skipped: skipped,
	}
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	if msg == "skip" {
		l.skipped.Inc()
		l.logger.Warnw("skipped rotation because the previous one is still running", keysAndValues...)
		return
	}
	l.logger.Debugw(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
