// Package rotator implements the rotator service, which takes
// Elasticsearch snapshots on a schedule and deletes the ones a
// grandfather-father-son retention policy doesn't keep.
package rotator

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	elastic "github.com/olivere/elastic/v7"          // Elasticsearch client.
	"github.com/prometheus/client_golang/prometheus" // Prometheus metrics.
	cron "github.com/robfig/cron/v3"                 // Job scheduling.
	"go.uber.org/zap"                                // Logging.
	kingpin "gopkg.in/alecthomas/kingpin.v2"         // Command line flag parsing.

	"github.com/mintel/grandfatherson/internal/pkg/cmd"     // Common command line app tools.
	"github.com/mintel/grandfatherson/internal/pkg/metrics" // Prometheus metrics tools.
	"github.com/mintel/grandfatherson/pkg/ctxlog"           // Logger carried in Context.
)

const (
	Name  = "rotator"
	Usage = "Take snapshots of an Elasticsearch cluster on a schedule, and clean up old ones with grandfather-father-son rotation."
)

// App holds application state.
type App struct {
	*kingpin.Application

	flags  *Flags           // Command line flags
	health *Healthchecks    // healthchecks HTTP handler
	inst   *Instrumentation // App-specific Prometheus metrics

	// API clients.
	clients struct {
		ElasticsearchHTTP *http.Client
		Elasticsearch     *elastic.Client
	}
}

// NewApp returns a new App.
func NewApp(r prometheus.Registerer) (*App, error) {
	namespace := cmd.BuildPromFQName("", Name)

	app := &App{
		Application: kingpin.New(filepath.Base(os.Args[0]), Usage),
		health:      NewHealthchecks(r, namespace),
	}
	app.flags = NewFlags(app.Application)

	// Add post-flag-parsing actions.
	// These should only return an error if that error
	// is related to user input in some way, since kingpin prints the
	// error in a way that suggests a user problem.

	// Instrument a HTTP client that will be used to connect
	// to Elasticsearch, and the metrics of the repository.
	// Don't create the Elasticsearch client itself since the
	// client makes an immediate call to Elasticsearch to check
	// the connection.
	app.Action(func(*kingpin.ParseContext) error {
		app.inst = NewInstrumentation(namespace, app.flags.Repository.Name)
		if err := metrics.RegisterOnce(r, app.inst); err != nil {
			panic("error registering metrics: " + err.Error())
		}
		constLabels := map[string]string{"recipient": "elasticsearch"}
		c, err := metrics.InstrumentHTTP(nil, r, namespace, constLabels)
		if err != nil {
			panic("error instrumenting HTTP client: " + err.Error())
		}
		app.clients.ElasticsearchHTTP = c
		return nil
	})

	return app, nil
}

// Main is the main method of App and should be called
// in main.main() after flag parsing.
func (app *App) Main(g prometheus.Gatherer) {
	logger := app.flags.NewLogger()
	ctx := ctxlog.WithLogger(context.Background(), logger)
	defer ctxlog.Sync(ctx)
	defer cmd.SetGlobalLogger(logger)()

	ctx, cancel := cmd.WithInterrupt(ctx)
	defer cancel()

	// Serve the healthchecks and Prometheus metrics.
	mux := app.flags.ConfigureMux(http.NewServeMux(), app.health.Handler, g)
	srv := app.flags.NewServer(mux)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("error serving healthchecks/metrics", zap.Error(err))
		}
	}()
	defer func() {
		if err := cmd.GracefulShutdown(srv, app.flags.ShutdownTimeout); err != nil {
			logger.Error("error shutting down healthchecks/metrics server", zap.Error(err))
		}
	}()

	// Set up Elasticsearch client.
	c, err := app.flags.NewElasticsearchClient(
		ctx,
		elastic.SetHttpClient(app.clients.ElasticsearchHTTP),
	)
	if err != nil {
		logger.Fatal("error connecting to Elasticsearch", zap.Error(err))
	}
	defer c.Stop()
	app.clients.Elasticsearch = c
	app.health.ElasticSessionCreated.Store(true)

	repo := NewRepositoryService(
		app.clients.Elasticsearch,
		&app.flags.Repository,
		app.flags.DryRun,
	)

	if app.flags.Repository.Type != "" {
		if err := repo.Ensure(ctx); err != nil {
			logger.Fatal("error while ensuring snapshot repository", zap.Error(err))
		}
	}

	rot := NewRotator(repo, app.flags.Retention, app.inst)
	rot.Create = !app.flags.NoCreate
	rot.Delete = app.flags.Delete

	if app.flags.DryRun {
		logger.Info("dry run, rotating once")
		if err := rot.Rotate(ctx); err != nil {
			logger.Fatal("error rotating snapshots", zap.Error(err))
		}
		return
	}

	cl := newCronLogger(ctx, app.inst.RunsSkipped)
	job := cron.NewChain(cron.SkipIfStillRunning(cl)).Then(cron.FuncJob(func() {
		if err := rot.Rotate(ctx); err != nil {
			logger.Error("error rotating snapshots", zap.Error(err))
		}
	}))
	scheduler := cron.New(cron.WithLogger(cl), cron.WithLocation(time.UTC))
	scheduler.Schedule(app.flags.schedule, job)
	logger.Info("rotating snapshots", zap.String("schedule", app.flags.Schedule))
	scheduler.Start()
	go job.Run()

	<-ctx.Done()
	logger.Info("waiting for running rotation to finish")
	<-scheduler.Stop().Done()
}
