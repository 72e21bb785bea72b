// Package gfs implements the gfs command, which filters a list of
// snapshot timestamps through a retention.Policy.
package gfs

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"                  // Wrap errors with stacktrace.
	"go.uber.org/zap"                        // Logging.
	kingpin "gopkg.in/alecthomas/kingpin.v2" // Command line flag parsing.

	"github.com/mintel/grandfatherson/internal/pkg/cmd" // Common command line app tools.
	"github.com/mintel/grandfatherson/pkg/ctxlog"       // Logger carried in Context.
	"github.com/mintel/grandfatherson/pkg/retention"    // Which snapshots to keep.
)

const (
	Name  = "gfs"
	Usage = "Print which snapshot timestamps a grandfather-father-son retention policy keeps or deletes."
)

// App holds application state.
type App struct {
	*kingpin.Application

	flags *Flags // Command line flags
}

// NewApp returns a new App.
func NewApp() *App {
	app := &App{
		Application: kingpin.New(Name, Usage),
	}
	app.flags = NewFlags(app.Application)
	return app
}

// Main is the main method of App and should be called
// in main.main() after flag parsing, with the parsed command.
// Errors are printed to stderr and exit the process.
func (app *App) Main(command string, in io.Reader, out io.Writer) {
	logger := app.flags.NewLogger()
	ctx := ctxlog.WithLogger(context.Background(), logger)
	defer ctxlog.Sync(ctx)
	defer cmd.SetGlobalLogger(logger)()

	app.FatalIfError(app.Run(ctx, command, in, out), "")
}

// Run executes command, reading timestamps from the parsed
// arguments or in, and writing the result to out.
func (app *App) Run(ctx context.Context, command string, in io.Reader, out io.Writer) error {
	logger := ctxlog.L(ctx).With(zap.String("command", command))

	p, err := app.flags.Policy()
	if err != nil {
		return err
	}
	if p.IsZero() {
		logger.Warn("retention policy keeps nothing but future timestamps")
	}

	values, err := readValues(in, app.flags.Times, app.flags.JSONPath)
	if err != nil {
		return err
	}
	logger.Debug("read timestamps", zap.Int("count", len(values)))

	var result []time.Time
	switch command {
	case CommandKeep:
		result, err = retention.KeepValues(p, values...)
	case CommandDelete:
		result, err = retention.DeleteValues(p, values...)
	default:
		return errors.Errorf("unknown command %q", command)
	}
	if err != nil {
		return err
	}
	logger.Info("computed retention",
		zap.Int("input", len(values)),
		zap.Int("output", len(result)))

	return writeTimes(out, app.flags.Output, result)
}
