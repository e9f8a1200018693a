package task

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

func newTestValidator() *Validator {
	return NewValidator(func() time.Time { return fixedNow })
}

func strPtr(s string) *string { return &s }

func TestValidator_Create(t *testing.T) {
	v := newTestValidator()

	t.Run("valid task defaults status", func(t *testing.T) {
		task, err := v.Create(CreateInput{
			Title:       "Write report",
			Description: "Q3 summary",
			DueDate:     "2026-10-20",
		})
		require.NoError(t, err)

		assert.Equal(t, "Write report", task.Title)
		assert.Equal(t, StatusPending, task.Status)
		assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), task.DueDate)
	})

	t.Run("due today is accepted", func(t *testing.T) {
		_, err := v.Create(CreateInput{Title: "a", Description: "b", DueDate: "2026-10-19"})
		assert.NoError(t, err)
	})

	t.Run("RFC 3339 due date", func(t *testing.T) {
		task, err := v.Create(CreateInput{Title: "a", Description: "b", Status: StatusCompleted, DueDate: "2026-11-01T09:00:00Z"})
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, task.Status)
		assert.Equal(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), task.DueDate)
	})

	t.Run("past due date", func(t *testing.T) {
		_, err := v.Create(CreateInput{Title: "a", Description: "b", DueDate: "2026-10-18"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrPastDueDate))
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := v.Create(CreateInput{DueDate: "2026-10-20"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Contains(t, err.Error(), "title is required")
		assert.Contains(t, err.Error(), "description is required")
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := v.Create(CreateInput{Title: "a", Description: "b", Status: "done", DueDate: "2026-10-20"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status must be one of")
	})

	t.Run("malformed due date", func(t *testing.T) {
		_, err := v.Create(CreateInput{Title: "a", Description: "b", DueDate: "next week"})
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrPastDueDate))
		assert.Contains(t, err.Error(), "dueDate must be a date")
	})
}

func TestValidator_Update(t *testing.T) {
	v := newTestValidator()

	t.Run("partial update", func(t *testing.T) {
		status := StatusInProgress
		patch, err := v.Update(UpdateInput{Status: &status})
		require.NoError(t, err)

		assert.Nil(t, patch.Title)
		require.NotNil(t, patch.Status)
		assert.Equal(t, StatusInProgress, *patch.Status)
	})

	t.Run("past due date is allowed", func(t *testing.T) {
		patch, err := v.Update(UpdateInput{DueDate: strPtr("2020-01-01")})
		require.NoError(t, err)
		require.NotNil(t, patch.DueDate)
		assert.Equal(t, 2020, patch.DueDate.Year())
	})

	t.Run("empty title rejected", func(t *testing.T) {
		_, err := v.Update(UpdateInput{Title: strPtr("")})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("empty payload", func(t *testing.T) {
		patch, err := v.Update(UpdateInput{})
		require.NoError(t, err)
		assert.True(t, patch.Empty())
	})
}

func TestPatch_Apply(t *testing.T) {
	task := Task{Title: "old", Description: "keep", Status: StatusPending}
	status := StatusCompleted

	Patch{Title: strPtr("new"), Status: &status}.Apply(&task)

	assert.Equal(t, "new", task.Title)
	assert.Equal(t, "keep", task.Description)
	assert.Equal(t, StatusCompleted, task.Status)
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, StatusAll.Valid())
	assert.False(t, Status("done").Valid())
	assert.Equal(t, "pending|in-progress|completed", StatusNames("|"))
}
