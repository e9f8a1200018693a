package activity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/example/task-dashboard/events"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any)         {}
func (m *mockLogger) Info(_ string, _ ...any)          {}
func (m *mockLogger) Warn(_ string, _ ...any)          {}
func (m *mockLogger) Error(_ string, _ ...any)         {}
func (m *mockLogger) With(_ ...any) types.Logger       { return m }
func (m *mockLogger) WithModule(_ string) types.Logger { return m }
func (m *mockLogger) WithError(_ error) types.Logger   { return m }

func TestFeed_RecentNewestFirst(t *testing.T) {
	f := NewFeed(3)
	assert.Empty(t, f.Recent(0))

	for i := 0; i < 5; i++ {
		f.Record(Entry{TaskID: fmt.Sprintf("t%d", i)})
	}

	assert.Equal(t, 3, f.Len())

	got := f.Recent(0)
	require.Len(t, got, 3)
	assert.Equal(t, "t4", got[0].TaskID)
	assert.Equal(t, "t3", got[1].TaskID)
	assert.Equal(t, "t2", got[2].TaskID)

	assert.Len(t, f.Recent(2), 2)
	assert.Len(t, f.Recent(10), 3)
}

func TestFeed_PartiallyFilled(t *testing.T) {
	f := NewFeed(4)
	f.Record(Entry{TaskID: "a"})
	f.Record(Entry{TaskID: "b"})

	got := f.Recent(0)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].TaskID)
	assert.Equal(t, "a", got[1].TaskID)
}

func TestModule_Handlers(t *testing.T) {
	m := NewModule(0, &mockLogger{})
	ctx := context.Background()
	now := time.Now()

	assert.Equal(t, "activity", m.Name())
	assert.Len(t, m.feed.entries, DefaultSize)

	require.NoError(t, m.handleTaskCreated(ctx, events.TaskCreatedEvent{TaskID: "1", Title: "a", Status: "pending", CreatedAt: now}, nil))
	require.NoError(t, m.handleTaskUpdated(ctx, events.TaskUpdatedEvent{TaskID: "1", Title: "a", Status: "completed", Fields: []string{"status"}, UpdatedAt: now}, nil))
	require.NoError(t, m.handleTaskDeleted(ctx, events.TaskDeletedEvent{TaskID: "1", DeletedAt: now}, nil))

	got := m.Recent(10)
	require.Len(t, got, 3)
	assert.Equal(t, KindDeleted, got[0].Kind)
	assert.Equal(t, KindUpdated, got[1].Kind)
	assert.Equal(t, []string{"status"}, got[1].Fields)
	assert.Equal(t, KindCreated, got[2].Kind)
	assert.Equal(t, "a", got[2].Title)
}
