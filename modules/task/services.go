package task

import (
	"context"

	domain "github.com/example/task-dashboard/domain/task"
	"github.com/go-monolith/mono"
)

// listTasks handles the task.list service request.
func (m *Module) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	q, err := req.Query().Normalize()
	if err != nil {
		return ListTasksResponse{}, err
	}

	res, err := m.service.List(ctx, q)
	if err != nil {
		return ListTasksResponse{}, err
	}

	return ListTasksResponse{
		Tasks:    res.Tasks,
		Total:    res.Total,
		AllTotal: res.AllTotal,
		Page:     q.Page,
		Limit:    q.Limit,
		Pages:    domain.PageCount(res.Total, q.Limit),
	}, nil
}

// getTask handles the task.get service request.
func (m *Module) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Get(ctx, req.ID)
	if err != nil {
		return TaskResponse{}, err
	}
	return TaskResponse{Task: *t}, nil
}

// createTask handles the task.create service request.
func (m *Module) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Create(ctx, domain.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.Status(req.Status),
		DueDate:     req.DueDate,
	})
	if err != nil {
		return TaskResponse{}, err
	}
	return TaskResponse{Task: *t}, nil
}

// updateTask handles the task.update service request.
func (m *Module) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	in := domain.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		in.Status = &status
	}

	t, err := m.service.Update(ctx, req.ID, in)
	if err != nil {
		return TaskResponse{}, err
	}
	return TaskResponse{Task: *t}, nil
}

// deleteTask handles the task.delete service request.
func (m *Module) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.Delete(ctx, req.ID); err != nil {
		return DeleteTaskResponse{Deleted: false, ID: req.ID}, err
	}
	return DeleteTaskResponse{Deleted: true, ID: req.ID}, nil
}
