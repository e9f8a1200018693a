package task

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/example/task-dashboard/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestModule creates a started module backed by a temporary SQLite file.
func createTestModule(t *testing.T) *Module {
	t.Helper()
	m := &Module{cfg: StoreConfig{Driver: DriverSQLite}, logger: &mockLogger{}}
	m.repo = setupTestRepo(t)
	m.service = NewService(m.repo, m.logger, WithClock(func() time.Time { return testNow }))
	return m
}

func TestModule_Name(t *testing.T) {
	m := NewModule(StoreConfig{}, &mockLogger{})
	assert.Equal(t, "task", m.Name())
	assert.Equal(t, DriverSQLite, m.cfg.Driver)
	assert.Len(t, m.EmitEvents(), 3)
}

func TestModule_StartUnsupportedDriver(t *testing.T) {
	m := NewModule(StoreConfig{Driver: "oracle"}, &mockLogger{})
	err := m.Start(context.Background())
	assert.Error(t, err)
	assert.Nil(t, m.Service())
}

func TestModule_Lifecycle(t *testing.T) {
	m := NewModule(StoreConfig{Driver: DriverSQLite, DBPath: t.TempDir() + "/tasks.db"}, &mockLogger{})
	ctx := context.Background()

	assert.False(t, m.Health(ctx).Healthy)

	require.NoError(t, m.Start(ctx))
	require.NotNil(t, m.Service())

	health := m.Health(ctx)
	assert.True(t, health.Healthy)
	assert.Equal(t, "sqlite", health.Details["driver"])

	require.NoError(t, m.Stop(ctx))
}

func TestServiceHandlers(t *testing.T) {
	m := createTestModule(t)
	ctx := context.Background()

	created, err := m.createTask(ctx, CreateTaskRequest{
		Title:       "Write report",
		Description: "Q3 summary",
		DueDate:     "2026-10-20",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, created.Task.Status)

	got, err := m.getTask(ctx, GetTaskRequest{ID: created.Task.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, created.Task.ID, got.Task.ID)

	status := string(domain.StatusCompleted)
	updated, err := m.updateTask(ctx, UpdateTaskRequest{ID: created.Task.ID, Status: &status}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Task.Status)

	list, err := m.listTasks(ctx, ListTasksRequest{StatusFilter: "completed"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, domain.DefaultLimit, list.Limit)
	assert.Equal(t, 1, list.Pages)

	deleted, err := m.deleteTask(ctx, DeleteTaskRequest{ID: created.Task.ID}, nil)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)

	deleted, err = m.deleteTask(ctx, DeleteTaskRequest{ID: created.Task.ID}, nil)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.False(t, deleted.Deleted)
}

func TestListTasksRequest_InvalidQuery(t *testing.T) {
	m := createTestModule(t)

	_, err := m.listTasks(context.Background(), ListTasksRequest{Order: "sideways"}, nil)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
