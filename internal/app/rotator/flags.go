package rotator

import (
	"time"

	"github.com/pkg/errors"                  // Wrap errors with stacktrace.
	cron "github.com/robfig/cron/v3"         // Job scheduling.
	kingpin "gopkg.in/alecthomas/kingpin.v2" // Command line flag parsing.

	"github.com/mintel/grandfatherson/internal/pkg/cmd" // Common command line app tools.
	"github.com/mintel/grandfatherson/pkg/retention"    // Which snapshots to keep.
)

const (
	defaultPort                   = 8080
	defaultLogLevel               = "INFO"
	defaultElasticsearchRetryInit = 150 * time.Millisecond
	defaultElasticsearchRetryMax  = 15 * time.Minute
)

// Flags holds command line flags for the
// rotator App.
type Flags struct {
	// Snapshot repository to use.
	Repository Repository

	// Which snapshots to keep.
	// Set once flags are parsed.
	Retention retention.Policy

	// When to rotate snapshots. Defaults to DefaultSchedule.
	Schedule string

	// If true, clean up old snapshots.
	Delete bool

	// If true, print one rotation and exit without
	// actually creating or deleting snapshots.
	DryRun bool

	// If true, don't create snapshots, only delete old ones.
	NoCreate bool

	schedule cron.Schedule // Parsed Schedule.

	*cmd.PolicyFlags
	*cmd.ElasticsearchFlags
	*cmd.MonitoringFlags
}

// NewFlags returns a new Flags.
func NewFlags(app *kingpin.Application) *Flags {
	var f Flags

	f.PolicyFlags = cmd.NewPolicyFlags(app)

	app.Flag("repo.name", "The name of the snapshot repository to use.").
		Required().
		Short('r').
		StringVar(&f.Repository.Name)

	app.Flag("repo.type", "Ensure a snapshot repository with this type and --repo.name exists.").
		StringVar(&f.Repository.Type)

	app.Flag("repo.settings", "Settings to create snapshot repository with. See also: --repo.name and --repo.type.").
		StringMapVar(&f.Repository.Settings)

	app.Flag("schedule", "When to rotate snapshots, as a cron spec or ISO 8601 duration. Defaults to once per the finest unit kept.").
		PlaceHolder("SPEC").
		StringVar(&f.Schedule)

	app.Flag("delete", "Delete old snapshots. Not enabled by default for safety.").
		Short('d').
		BoolVar(&f.Delete)

	app.Flag("dry-run", "If set, print actions without taking them.").
		BoolVar(&f.DryRun)

	app.Flag("no-create", "Don't create snapshots, only clean up old ones.").
		BoolVar(&f.NoCreate)

	app.Validate(func(*kingpin.Application) error {
		p, err := f.Policy()
		if err != nil {
			return err
		}
		if p.IsZero() {
			return errors.New("at least one of --seconds, --minutes, --hours, --days, --weeks, --months, --years must be set")
		}
		f.Retention = p
		if f.Schedule == "" {
			f.Schedule = DefaultSchedule(p)
		}
		f.schedule, err = ParseSchedule(f.Schedule)
		return err
	})

	f.ElasticsearchFlags = cmd.NewElasticsearchFlags(app, defaultElasticsearchRetryInit, defaultElasticsearchRetryMax)
	f.MonitoringFlags = cmd.NewMonitoringFlags(app, defaultPort, defaultLogLevel)

	return &f
}
