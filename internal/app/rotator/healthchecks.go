package rotator

import (
	"github.com/mintel/healthcheck"                  // Healthchecks framework.
	"github.com/pkg/errors"                          // Wrap errors with stacktrace.
	"github.com/prometheus/client_golang/prometheus" // Prometheus metrics.
	"go.uber.org/atomic"                             // Atomic primitives.

	"github.com/mintel/grandfatherson/internal/pkg/cmd" // Common command line app tools.
)

// Healthchecks holds the healthchecks HTTP handler
// of the rotator App.
type Healthchecks struct {
	Handler healthcheck.Handler

	// Flag to be set true once a connection
	// to Elasticsearch is successfully established.
	ElasticSessionCreated atomic.Bool
}

// NewHealthchecks returns a new Healthchecks.
func NewHealthchecks(r prometheus.Registerer, namespace string) *Healthchecks {
	h := &Healthchecks{}
	h.Handler = cmd.NewHealthchecksHandler(r, namespace, map[string]healthcheck.Check{
		"elasticsearch-session": func() error {
			if !h.ElasticSessionCreated.Load() {
				return errors.New("Elasticsearch session not yet ready")
			}
			return nil
		},
	})
	return h
}
