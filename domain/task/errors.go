package task

import (
	"errors"
	"fmt"
)

// Sentinel errors for task operations.
var (
	// ErrNotFound is returned when no task matches the given identifier.
	ErrNotFound = errors.New("task not found")

	// ErrValidation is wrapped by every input validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrPastDueDate is returned when a new task is due before today.
	// It matches ErrValidation under errors.Is.
	ErrPastDueDate = fmt.Errorf("%w: due date cannot be in the past", ErrValidation)
)
