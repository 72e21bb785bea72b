package cmd

import (
	"github.com/mintel/healthcheck"                  // Healthchecks framework.
	"github.com/prometheus/client_golang/prometheus" // Prometheus metrics.
)

// NewHealthchecksHandler returns a new healthcheck.Handler whose check
// statuses are exported as Prometheus metrics under namespace.
// It has a liveness check that always passes, and the given readiness checks.
func NewHealthchecksHandler(r prometheus.Registerer, namespace string, readiness map[string]healthcheck.Check) healthcheck.Handler {
	h := healthcheck.NewMetricsHandler(r, namespace)
	h.AddLivenessCheck("alive", func() error { return nil })
	for name, check := range readiness {
		h.AddReadinessCheck(name, check)
	}
	return h
}
