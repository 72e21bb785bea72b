package cmd

import (
	"github.com/prometheus/client_golang/prometheus" // Prometheus metrics.
)

// Namespace is the namespace to be used for Prometheus
// metrics throughout grandfatherson.
const Namespace = "grandfatherson"

// BuildPromFQName joins Namespace, subsystem and name
// into a fully qualified Prometheus metric name.
func BuildPromFQName(subsystem, name string) string {
	return prometheus.BuildFQName(Namespace, subsystem, name)
}
