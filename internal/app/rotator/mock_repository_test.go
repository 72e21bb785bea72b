package rotator

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock" // Mocking for tests.
)

// mockRepositoryService is a mock implementation of RepositoryService.
type mockRepositoryService struct {
	mock.Mock
}

func (m *mockRepositoryService) Ensure(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockRepositoryService) CreateSnapshot(ctx context.Context, t time.Time) (Snapshot, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(Snapshot), args.Error(1)
}

func (m *mockRepositoryService) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	args := m.Called(ctx)
	snapshots, _ := args.Get(0).([]Snapshot)
	return snapshots, args.Error(1)
}

func (m *mockRepositoryService) DeleteSnapshot(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
