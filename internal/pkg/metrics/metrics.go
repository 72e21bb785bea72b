// Package metrics hold constants and utilities for instrumenting grandfatherson
// with Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus" // Prometheus metrics.
)

// DefaultObjectives are default objectives for Prometheus Summary metrics.
var DefaultObjectives = map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001}

// RegisterOnce registers a set of Prometheus Collectors with r,
// ignoring AlreadyRegisteredErrors. The first other error is returned.
func RegisterOnce(r prometheus.Registerer, cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
