package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus" // Prometheus metrics.
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert" // Test assertions e.g. equality.
)

// gather returns the metrics gathered from g, keyed by family name.
func gather(t *testing.T, g prometheus.Gatherer) map[string][]*dto.Metric {
	mfs, err := g.Gather()
	if !assert.NoError(t, err, "error while gathering metric families") {
		return nil
	}
	out := make(map[string][]*dto.Metric, len(mfs))
	for _, mf := range mfs {
		out[mf.GetName()] = mf.Metric
	}
	return out
}

// assertMetricCount asserts that the families gathered from g whose
// names start with prefix hold want metrics between them.
func assertMetricCount(t *testing.T, g prometheus.Gatherer, prefix string, want int) {
	var count int
	for name, ms := range gather(t, g) {
		if strings.HasPrefix(name, prefix) {
			count += len(ms)
		}
	}
	assert.Equal(t, want, count, "wrong number of %s* metrics", prefix)
}

// labelValues returns the distinct values of label across every
// metric gathered from g. Metrics without the label count as "".
func labelValues(t *testing.T, g prometheus.Gatherer, label string) map[string]int {
	values := make(map[string]int)
	for _, ms := range gather(t, g) {
		for _, m := range ms {
			var v string
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label {
					v = lp.GetValue()
				}
			}
			values[v]++
		}
	}
	return values
}
