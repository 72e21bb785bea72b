package rotator

import (
	"context"
	goerr "errors"
	"time"

	elastic "github.com/olivere/elastic/v7" // Elasticsearch client.
	"github.com/pkg/errors"                 // Wrap errors with stacktrace.
	"go.uber.org/zap"                       // Logging.

	"github.com/mintel/grandfatherson/pkg/ctxlog" // Logger carried in Context.
	ptime "github.com/mintel/grandfatherson/pkg/time"
)

// SnapshotFormat is the time layout snapshots are named with.
const SnapshotFormat = "2006-01-02-15-04-05"

// SnapshotInProgress is the State of a snapshot that hasn't finished.
const SnapshotInProgress = "IN_PROGRESS"

var (
	// ErrWrongType is returned by RepositoryService.Ensure when the
	// repository already exists but is of the wrong type.
	ErrWrongType = goerr.New("repository exists but is the wrong type")
)

// Repository represents an Elasticsearch snapshot repository.
//
// See also: https://www.elastic.co/guide/en/elasticsearch/reference/7.0/modules-snapshots.html#_repositories
type Repository struct {
	// The name of the repository.
	Name string

	// The type of the repository, such as "fs" or "s3".
	Type string

	// Settings for the repository.
	// Specific settings depend on Type.
	Settings map[string]string
}

// Snapshot is a snapshot in a Repository.
type Snapshot struct {
	Name  string
	Time  time.Time // When the snapshot was taken, in UTC.
	State string    // Such as "SUCCESS" or SnapshotInProgress.
}

// RepositoryService is an Elasticsearch client
// specific to a single snapshot repository.
type RepositoryService interface {
	// Ensure the snapshots repository exists with
	// given Name and Type. Settings are are not
	// checked. Returns ErrWrongType if a repository
	// with the correct Name but wrong Type exists.
	Ensure(context.Context) error

	// Create a snapshot named by formatting t
	// with SnapshotFormat.
	CreateSnapshot(ctx context.Context, t time.Time) (Snapshot, error)

	// List the snapshots in the repository.
	ListSnapshots(context.Context) ([]Snapshot, error)

	// Delete the named snapshot.
	DeleteSnapshot(ctx context.Context, name string) error
}

// NewRepositoryService returns a new RepositoryService.
func NewRepositoryService(c *elastic.Client, r *Repository, dryRun bool) RepositoryService {
	rs := &repositoryService{
		c: c,
		r: r,
	}
	if dryRun {
		return &nopRepositoryService{rs}
	}
	return rs
}

// repositoryService is the standard implementation of
// RepositoryService.
type repositoryService struct {
	c *elastic.Client
	r *Repository
}

func (s *repositoryService) Ensure(ctx context.Context) error {
	resp, err := s.c.SnapshotGetRepository(s.r.Name).Do(ctx)
	if err != nil && !elastic.IsNotFound(err) {
		// Unexpected error while checking if snapshot repository exists.
		return errors.Wrap(err, "error ensuring Elasticsearch snapshot repository")
	}
	existing, ok := resp[s.r.Name]
	if elastic.IsNotFound(err) || !ok {
		ctxlog.L(ctx).Info("creating snapshot repository",
			zap.String("repository", s.r.Name),
			zap.String("type", s.r.Type))
		scr := s.c.SnapshotCreateRepository(s.r.Name).Type(s.r.Type)
		for k, v := range s.r.Settings {
			scr = scr.Setting(k, v)
		}
		if _, err = scr.Do(ctx); err != nil {
			return errors.Wrap(err, "error creating Elasticsearch snapshot repository")
		}
		return nil
	}
	if existing.Type != s.r.Type {
		// Snapshot repository exists, but is of the wrong type e.g. fs != s3.
		return errors.Wrapf(ErrWrongType, "repository %s has type %s", s.r.Name, existing.Type)
	}
	return nil
}

func (s *repositoryService) CreateSnapshot(ctx context.Context, t time.Time) (Snapshot, error) {
	t = t.UTC().Truncate(time.Second)
	n := t.Format(SnapshotFormat)
	resp, err := s.c.SnapshotCreate(s.r.Name, n).WaitForCompletion(true).Do(ctx)
	if err != nil {
		return Snapshot{}, errors.Wrapf(err, "error creating snapshot %s", n)
	}
	snap := Snapshot{Name: n, Time: t}
	if resp.Snapshot != nil {
		snap.State = resp.Snapshot.State
	}
	return snap, nil
}

func (s *repositoryService) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	logger := ctxlog.L(ctx)
	r, err := s.c.SnapshotGet(s.r.Name).Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error listing snapshots")
	}
	snapshots := make([]Snapshot, 0, len(r.Snapshots))
	for _, snap := range r.Snapshots {
		t, err := snapshotTime(snap)
		if err != nil {
			logger.Warn("ignoring snapshot with unknown time",
				zap.String("snapshot", snap.Snapshot),
				zap.Error(err))
			continue
		}
		snapshots = append(snapshots, Snapshot{
			Name:  snap.Snapshot,
			Time:  t,
			State: snap.State,
		})
	}
	return snapshots, nil
}

// snapshotTime returns the time snap was taken at. Names in SnapshotFormat
// are used first, then the start time Elasticsearch recorded.
func snapshotTime(snap *elastic.Snapshot) (time.Time, error) {
	if t, err := time.Parse(SnapshotFormat, snap.Snapshot); err == nil {
		return t, nil
	}
	if snap.StartTimeInMillis == 0 {
		return time.Time{}, errors.Wrap(ptime.ErrInvalidTime, "no start time")
	}
	return ptime.Normalize(snap.StartTimeInMillis)
}

func (s *repositoryService) DeleteSnapshot(ctx context.Context, name string) error {
	_, err := s.c.SnapshotDelete(s.r.Name, name).Do(ctx)
	return errors.Wrapf(err, "error deleting snapshot %s", name)
}

// nopRepositoryService is a RepositoryService that
// does nothing for Ensure, CreateSnapshot, and DeleteSnapshot.
// Use for dry runs.
type nopRepositoryService struct {
	*repositoryService
}

func (s *nopRepositoryService) Ensure(ctx context.Context) error {
	return nil
}

func (s *nopRepositoryService) CreateSnapshot(ctx context.Context, t time.Time) (Snapshot, error) {
	t = t.UTC().Truncate(time.Second)
	return Snapshot{Name: t.Format(SnapshotFormat), Time: t}, nil
}

func (s *nopRepositoryService) DeleteSnapshot(ctx context.Context, name string) error {
	return nil
}
