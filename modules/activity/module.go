// Package activity records recent task changes by consuming task events.
package activity

import (
	"context"
	"fmt"

	"github.com/example/task-dashboard/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// DefaultSize is the number of entries kept when no size is configured.
const DefaultSize = 50

// Module subscribes to task events and keeps a bounded activity feed.
type Module struct {
	feed   *Feed
	logger types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module              = (*Module)(nil)
	_ mono.EventConsumerModule = (*Module)(nil)
)

// NewModule creates an activity module keeping at most size entries.
func NewModule(size int, logger types.Logger) *Module {
	if size < 1 {
		size = DefaultSize
	}
	return &Module{
		feed:   NewFeed(size),
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "activity"
}

// RegisterEventConsumers subscribes to the task events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers", "events", []string{"TaskCreated.v1", "TaskUpdated.v1", "TaskDeleted.v1"})
	return nil
}

func (m *Module) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.feed.Record(Entry{
		Kind:   KindCreated,
		TaskID: event.TaskID,
		Title:  event.Title,
		Status: event.Status,
		At:     event.CreatedAt,
	})
	m.logger.Info("Task created", "taskID", event.TaskID, "title", event.Title)
	return nil
}

func (m *Module) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	m.feed.Record(Entry{
		Kind:   KindUpdated,
		TaskID: event.TaskID,
		Title:  event.Title,
		Status: event.Status,
		Fields: event.Fields,
		At:     event.UpdatedAt,
	})
	m.logger.Info("Task updated", "taskID", event.TaskID, "fields", event.Fields)
	return nil
}

func (m *Module) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.feed.Record(Entry{
		Kind:   KindDeleted,
		TaskID: event.TaskID,
		At:     event.DeletedAt,
	})
	m.logger.Info("Task deleted", "taskID", event.TaskID)
	return nil
}

// Recent returns up to n entries, newest first.
func (m *Module) Recent(n int) []Entry {
	return m.feed.Recent(n)
}

// Start starts the module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Activity module started", "size", len(m.feed.entries))
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Activity module stopped", "recorded", m.feed.Len())
	return nil
}
