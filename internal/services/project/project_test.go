package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/devprocess-manager/internal/models"
	"github.com/magabrotheeeer/devprocess-manager/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateProject(ctx context.Context, project models.Project) (string, error) {
	args := m.Called(ctx, project)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) GetProject(ctx context.Context, uid string) (*models.Project, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}
func (m *RepoMock) ListProjects(ctx context.Context, limit, offset int) ([]models.Project, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Project), args.Error(1)
}
func (m *RepoMock) CountProjects(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) UpdateProject(ctx context.Context, uid string, upd models.DummyProjectUpdate) (*models.Project, error) {
	args := m.Called(ctx, uid, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}
func (m *RepoMock) RemoveProject(ctx context.Context, uid string) (int64, error) {
	args := m.Called(ctx, uid)
	return args.Get(0).(int64), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestProjectService_Create_DefaultsStatusToActive(t *testing.T) {
	repo := new(RepoMock)
	svc := NewProjectService(repo, new(CacheMock), newNoopLogger())

	repo.On("CreateProject", mock.Anything, mock.MatchedBy(func(p models.Project) bool {
		return p.UID != "" && p.Status == models.ProjectStatusActive
	})).Return("uid-1", nil).Once()

	uid, err := svc.Create(context.Background(), models.DummyProject{Name: "Site redesign"})
	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)
	repo.AssertExpectations(t)
}

func TestProjectService_Create_KeepsExplicitStatus(t *testing.T) {
	repo := new(RepoMock)
	svc := NewProjectService(repo, new(CacheMock), newNoopLogger())

	repo.On("CreateProject", mock.Anything, mock.MatchedBy(func(p models.Project) bool {
		return p.Status == models.ProjectStatusPaused
	})).Return("uid-2", nil).Once()

	_, err := svc.Create(context.Background(), models.DummyProject{
		Name:   "Internal tooling",
		Status: models.ProjectStatusPaused,
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestProjectService_Read_CacheHitSkipsRepository(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := NewProjectService(repo, cache, newNoopLogger())

	cache.On("Get", "project:uid-1", mock.Anything).Return(true, nil).Once()

	_, err := svc.Read(context.Background(), "uid-1")
	require.NoError(t, err)
	repo.AssertNotCalled(t, "GetProject", mock.Anything, mock.Anything)
}

func TestProjectService_Update_NotFound(t *testing.T) {
	repo := new(RepoMock)
	svc := NewProjectService(repo, new(CacheMock), newNoopLogger())

	repo.On("UpdateProject", mock.Anything, "missing", mock.Anything).
		Return(nil, repository.ErrNotFound).Once()

	_, err := svc.Update(context.Background(), "missing", models.DummyProjectUpdate{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectService_Remove_Idempotent(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := NewProjectService(repo, cache, newNoopLogger())

	cache.On("Invalidate", "project:uid-1").Return(nil).Twice()
	repo.On("RemoveProject", mock.Anything, "uid-1").Return(int64(1), nil).Once()
	repo.On("RemoveProject", mock.Anything, "uid-1").Return(int64(0), nil).Once()

	deleted, err := svc.Remove(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Remove(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.False(t, deleted)
}
