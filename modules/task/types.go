package task

import (
	domain "github.com/example/task-dashboard/domain/task"
)

// ListTasksRequest is the request for the list service. Zero fields take
// the list defaults.
type ListTasksRequest struct {
	Page         int    `json:"page,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	SortBy       string `json:"sortBy,omitempty"`
	Order        string `json:"order,omitempty"`
	SearchQuery  string `json:"searchQuery,omitempty"`
	StatusFilter string `json:"statusFilter,omitempty"`
}

// Query converts the request into a list query.
func (r ListTasksRequest) Query() domain.ListQuery {
	return domain.ListQuery{
		Page:   r.Page,
		Limit:  r.Limit,
		SortBy: r.SortBy,
		Order:  domain.Order(r.Order),
		Search: r.SearchQuery,
		Status: domain.Status(r.StatusFilter),
	}
}

// ListTasksResponse is one page of tasks with paging metadata.
type ListTasksResponse struct {
	Tasks    []domain.Task `json:"tasks"`
	Total    int64         `json:"total"`
	AllTotal int64         `json:"allTotal"`
	Page     int           `json:"page"`
	Limit    int           `json:"limit"`
	Pages    int           `json:"pages"`
}

// GetTaskRequest is the request for the get service.
type GetTaskRequest struct {
	ID string `json:"id"`
}

// CreateTaskRequest is the request for the create service.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
	DueDate     string `json:"dueDate"`
}

// UpdateTaskRequest is the request for the update service. Nil fields
// are left unchanged.
type UpdateTaskRequest struct {
	ID          string  `json:"id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Task domain.Task `json:"task"`
}

// DeleteTaskRequest is the request for the delete service.
type DeleteTaskRequest struct {
	ID string `json:"id"`
}

// DeleteTaskResponse is the response after deleting a task.
type DeleteTaskResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}
