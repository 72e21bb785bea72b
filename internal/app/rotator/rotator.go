package rotator

import (
	"context"
	"time"

	"github.com/pkg/errors"                          // Wrap errors with stacktrace.
	"github.com/prometheus/client_golang/prometheus" // Prometheus metrics.
	"go.uber.org/zap"                                // Logging.

	"github.com/mintel/grandfatherson/internal/pkg/metrics" // Prometheus metrics tools.
	"github.com/mintel/grandfatherson/pkg/ctxlog"           // Logger carried in Context.
	"github.com/mintel/grandfatherson/pkg/retention"        // Which snapshots to keep.
)

// Rotator creates snapshots in a repository and deletes the
// ones a retention.Policy doesn't keep.
type Rotator struct {
	repo   RepositoryService
	policy retention.Policy
	inst   *Instrumentation

	// If true, take a new snapshot at the start of each rotation.
	Create bool

	// If true, delete the snapshots the policy doesn't keep.
	// Otherwise they are only logged.
	Delete bool

	now func() time.Time
}

// NewRotator returns a new Rotator. The Now of p is ignored;
// each rotation uses the time it starts at.
func NewRotator(repo RepositoryService, p retention.Policy, inst *Instrumentation) *Rotator {
	p.Now = time.Time{}
	inst.SetPolicy(p)
	return &Rotator{
		repo:   repo,
		policy: p,
		inst:   inst,
		Create: true,
		now:    time.Now,
	}
}

// Rotate runs one rotation.
func (r *Rotator) Rotate(ctx context.Context) (err error) {
	timer := metrics.NewVecTimer(r.inst.RunSeconds)
	defer func() { timer.ObserveErr(err) }()

	now := r.now().UTC()
	ctx = ctxlog.WithFields(ctx, zap.Time("run", now))
	logger := ctxlog.L(ctx)

	if r.Create {
		if err := r.create(ctx, now); err != nil {
			return err
		}
	}

	snapshots, err := r.repo.ListSnapshots(ctx)
	if err != nil {
		return err
	}
	r.inst.Snapshots.Set(float64(len(snapshots)))

	times := make([]time.Time, len(snapshots))
	for i, s := range snapshots {
		times[i] = s.Time
	}
	p := r.policy
	p.Now = now
	condemned, err := retention.Delete(p, times)
	if err != nil {
		return errors.Wrap(err, "error applying retention policy")
	}
	r.inst.SnapshotsKept.Set(float64(len(snapshots) - len(condemned)))
	logger.Debug("applied retention policy",
		zap.Int("snapshots", len(snapshots)),
		zap.Int("condemned", len(condemned)))

	set := make(map[int64]struct{}, len(condemned))
	for _, t := range condemned {
		set[t.UnixNano()] = struct{}{}
	}
	for _, s := range snapshots {
		if _, ok := set[s.Time.UnixNano()]; !ok {
			continue
		}
		if err := r.delete(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Rotator) create(ctx context.Context, now time.Time) error {
	logger := ctxlog.L(ctx)
	logger.Info("creating snapshot")
	timer := prometheus.NewTimer(r.inst.SnapshotCreationSeconds)
	s, err := r.repo.CreateSnapshot(ctx, now)
	if err != nil {
		return err
	}
	timer.ObserveDuration()
	r.inst.SnapshotsCreated.Inc()
	logger.Debug("finished creating snapshot",
		zap.String("snapshot", s.Name))
	return nil
}

func (r *Rotator) delete(ctx context.Context, s Snapshot) error {
	logger := ctxlog.L(ctx).With(zap.String("snapshot", s.Name))
	if !r.Delete {
		logger.Info("snapshot not kept by retention policy, set --delete to remove it")
		return nil
	}
	if s.State == SnapshotInProgress {
		logger.Warn("not deleting snapshot in progress")
		return nil
	}
	logger.Info("deleting snapshot")
	timer := prometheus.NewTimer(r.inst.SnapshotDeletionSeconds)
	if err := r.repo.DeleteSnapshot(ctx, s.Name); err != nil {
		return err
	}
	timer.ObserveDuration()
	r.inst.SnapshotsDeleted.Inc()
	logger.Debug("finished deleting snapshot")
	return nil
}
