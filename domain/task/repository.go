package task

import "context"

// Repository is the persistence port for tasks.
type Repository interface {
	// Create stores a new task. The caller assigns the identifier.
	Create(ctx context.Context, t *Task) error

	// FindByID returns ErrNotFound when no task has the given identifier.
	FindByID(ctx context.Context, id string) (*Task, error)

	// List applies the query's filter, sort and page window and counts
	// matching and total records.
	List(ctx context.Context, q ListQuery) (*ListResult, error)

	// Update applies patch to the task and returns the stored result.
	// It returns ErrNotFound when no task has the given identifier.
	Update(ctx context.Context, id string, patch Patch) (*Task, error)

	// Delete removes the task. It returns ErrNotFound when it does not exist.
	Delete(ctx context.Context, id string) error

	// Ping checks connectivity to the underlying store.
	Ping(ctx context.Context) error

	// Close releases the store connection.
	Close() error
}
