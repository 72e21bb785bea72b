package rotator

import (
	"github.com/prometheus/client_golang/prometheus" // Prometheus metrics.

	"github.com/mintel/grandfatherson/internal/pkg/metrics" // Prometheus metrics tools.
	"github.com/mintel/grandfatherson/pkg/retention"        // Which snapshots to keep.
)

// Instrumentation holds Prometheus metrics specific to
// the rotator App.
type Instrumentation struct {
	// Number of seconds spent on each rotation, by status.
	RunSeconds *prometheus.SummaryVec

	// Number of seconds spent creating snapshots.
	SnapshotCreationSeconds prometheus.Summary

	// Number of seconds spent deleting snapshots.
	SnapshotDeletionSeconds prometheus.Summary

	// A count of Elasticsearch snapshots created.
	SnapshotsCreated prometheus.Counter

	// A count of Elasticsearch snapshots deleted.
	SnapshotsDeleted prometheus.Counter

	// A count of rotations skipped
	// because a previous one was still running.
	RunsSkipped prometheus.Counter

	// Number of snapshots in the repository.
	Snapshots prometheus.Gauge

	// Number of snapshots the retention policy keeps.
	SnapshotsKept prometheus.Gauge

	// Retention policy counts, by unit.
	PolicyCount *prometheus.GaugeVec
}

// NewInstrumentation returns a new Instrumentation for
// snapshots in repository.
func NewInstrumentation(namespace, repository string) *Instrumentation {
	constLabels := prometheus.Labels{metrics.LabelRepository: repository}
	return &Instrumentation{
		RunSeconds: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Namespace:   namespace,
			Name:        "run_duration_seconds",
			Help:        "Number of seconds spent rotating snapshots.",
			Objectives:  metrics.DefaultObjectives,
			ConstLabels: constLabels,
		}, []string{metrics.LabelStatus}),
		SnapshotCreationSeconds: prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace:   namespace,
			Name:        "snapshot_creation_duration_seconds",
			Help:        "Number of seconds spent creating snapshots.",
			Objectives:  metrics.DefaultObjectives,
			ConstLabels: constLabels,
		}),
		SnapshotDeletionSeconds: prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace:   namespace,
			Name:        "snapshot_deletion_duration_seconds",
			Help:        "Number of seconds spent deleting snapshots.",
			Objectives:  metrics.DefaultObjectives,
			ConstLabels: constLabels,
		}),
		SnapshotsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "snapshots_created_total",
			Help:        "Count of Elasticsearch snapshots created.",
			ConstLabels: constLabels,
		}),
		SnapshotsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "snapshots_deleted_total",
			Help:        "Count of Elasticsearch snapshots deleted.",
			ConstLabels: constLabels,
		}),
		RunsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "runs_skipped_total",
			Help:        "Count of rotations skipped because the previous one was still running.",
			ConstLabels: constLabels,
		}),
		Snapshots: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "snapshots",
			Help:        "The number of snapshots in the repository.",
			ConstLabels: constLabels,
		}),
		SnapshotsKept: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "snapshots_kept",
			Help:        "The number of snapshots the retention policy keeps.",
			ConstLabels: constLabels,
		}),
		PolicyCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "policy_count",
			Help:        "Number of distinct units of time the retention policy keeps a snapshot from.",
			ConstLabels: constLabels,
		}, []string{metrics.LabelUnit}),
	}
}

// SetPolicy exports the counts of p.
func (m *Instrumentation) SetPolicy(p retention.Policy) {
	for _, u := range retention.Units() {
		m.PolicyCount.With(prometheus.Labels{metrics.LabelUnit: u.String()}).Set(float64(p.Count(u)))
	}
}

// Describe implements the prometheus.Collector interface.
func (m *Instrumentation) Describe(c chan<- *prometheus.Desc) {
	m.RunSeconds.Describe(c)
	m.SnapshotCreationSeconds.Describe(c)
	m.SnapshotDeletionSeconds.Describe(c)
	m.SnapshotsCreated.Describe(c)
	m.SnapshotsDeleted.Describe(c)
	m.RunsSkipped.Describe(c)
	m.Snapshots.Describe(c)
	m.SnapshotsKept.Describe(c)
	m.PolicyCount.Describe(c)
}

// Collect implements the prometheus.Collector interface.
func (m *Instrumentation) Collect(c chan<- prometheus.Metric) {
	m.RunSeconds.Collect(c)
	m.SnapshotCreationSeconds.Collect(c)
	m.SnapshotDeletionSeconds.Collect(c)
	m.SnapshotsCreated.Collect(c)
	m.SnapshotsDeleted.Collect(c)
	m.RunsSkipped.Collect(c)
	m.Snapshots.Collect(c)
	m.SnapshotsKept.Collect(c)
	m.PolicyCount.Collect(c)
}
