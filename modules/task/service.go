package task

import (
	"context"
	"fmt"
	"time"

	domain "github.com/example/task-dashboard/domain/task"
	"github.com/example/task-dashboard/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
)

// ListCache caches list results keyed by query.
type ListCache interface {
	// Load returns the cached result for q, calling fill on a miss.
	Load(ctx context.Context, q domain.ListQuery, fill func(context.Context) (*domain.ListResult, error)) (*domain.ListResult, error)
	// Invalidate drops every cached list result.
	Invalidate(ctx context.Context) error
}

// Service implements the task use cases on top of a Repository.
type Service struct {
	repo      domain.Repository
	validator *domain.Validator
	cache     ListCache
	eventBus  mono.EventBus
	now       func() time.Time
	logger    types.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables list result caching.
func WithCache(c ListCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithEventBus enables publishing of task events.
func WithEventBus(bus mono.EventBus) Option {
	return func(s *Service) { s.eventBus = bus }
}

// WithClock overrides the time source used for timestamps and the
// due date rule.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a task service.
func NewService(repo domain.Repository, logger types.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.validator = domain.NewValidator(s.now)
	return s
}

// List returns one page of tasks for q.
func (s *Service) List(ctx context.Context, q domain.ListQuery) (*domain.ListResult, error) {
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}

	if s.cache == nil {
		return s.repo.List(ctx, q)
	}
	return s.cache.Load(ctx, q, func(ctx context.Context) (*domain.ListResult, error) {
		return s.repo.List(ctx, q)
	})
}

// Get returns a single task.
func (s *Service) Get(ctx context.Context, id string) (*domain.Task, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", domain.ErrValidation)
	}
	return s.repo.FindByID(ctx, id)
}

// Create validates in and stores a new task.
func (s *Service) Create(ctx context.Context, in domain.CreateInput) (*domain.Task, error) {
	t, err := s.validator.Create(in)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	t.ID = uuid.New().String()
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := s.repo.Create(ctx, &t); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	if s.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:    t.ID,
			Title:     t.Title,
			Status:    string(t.Status),
			DueDate:   t.DueDate,
			CreatedAt: t.CreatedAt,
		}
		if err := events.TaskCreatedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish TaskCreated event", "taskID", t.ID, "error", err)
		}
	}

	s.logger.Info("Task created", "taskID", t.ID, "dueDate", t.DueDate.Format(time.DateOnly))
	return &t, nil
}

// Update applies the fields present in in to the task with the given ID.
func (s *Service) Update(ctx context.Context, id string, in domain.UpdateInput) (*domain.Task, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", domain.ErrValidation)
	}

	patch, err := s.validator.Update(in)
	if err != nil {
		return nil, err
	}

	t, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	if s.eventBus != nil {
		event := events.TaskUpdatedEvent{
			TaskID:    t.ID,
			Title:     t.Title,
			Status:    string(t.Status),
			Fields:    patchFields(patch),
			UpdatedAt: t.UpdatedAt,
		}
		if err := events.TaskUpdatedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish TaskUpdated event", "taskID", t.ID, "error", err)
		}
	}

	return t, nil
}

// Delete removes the task with the given ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", domain.ErrValidation)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)

	if s.eventBus != nil {
		event := events.TaskDeletedEvent{
			TaskID:    id,
			DeletedAt: s.now().UTC(),
		}
		if err := events.TaskDeletedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish TaskDeleted event", "taskID", id, "error", err)
		}
	}

	s.logger.Info("Task deleted", "taskID", id)
	return nil
}

// invalidate drops cached list pages after a mutation. A failure only
// leaves stale pages until their TTL expires, so it is logged and ignored.
func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate list cache", "error", err)
	}
}

func patchFields(p domain.Patch) []string {
	fields := make([]string, 0, 4)
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Description != nil {
		fields = append(fields, "description")
	}
	if p.Status != nil {
		fields = append(fields, "status")
	}
	if p.DueDate != nil {
		fields = append(fields, "dueDate")
	}
	return fields
}
