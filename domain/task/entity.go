// Package task provides the task entity, the list query model and the
// repository port shared by the stores and the HTTP layer.
package task

import (
	"slices"
	"strings"
	"time"
)

// Status represents the state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"

	// StatusAll is the list filter value that disables status filtering.
	StatusAll Status = "all"
)

// Statuses lists every assignable status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether s is an assignable task status.
func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// StatusNames joins the assignable statuses with sep.
func StatusNames(sep string) string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, sep)
}

// Task is the core domain entity representing a to-do item.
type Task struct {
	ID          string    `gorm:"primarykey;size:36" bson:"_id" json:"id"`
	Title       string    `gorm:"size:255;not null;index" bson:"title" json:"title"`
	Description string    `gorm:"size:2000;not null" bson:"description" json:"description"`
	Status      Status    `gorm:"size:20;not null;default:pending;index" bson:"status" json:"status"`
	DueDate     time.Time `gorm:"not null;index" bson:"dueDate" json:"dueDate"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`

	// TitleSearch is the lowercased title the SQL store searches on.
	TitleSearch string `gorm:"size:255;not null;default:'';index" bson:"-" json:"-"`
}

// TableName returns the table name for the Task model.
func (Task) TableName() string {
	return "tasks"
}

// Patch holds the subset of fields an update replaces. Nil fields are left untouched.
type Patch struct {
	Title       *string
	Description *string
	Status      *Status
	DueDate     *time.Time
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.DueDate == nil
}

// Apply copies the patch onto t.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
}
