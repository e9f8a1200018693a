package api

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/example/task-dashboard/domain/task"
	"github.com/example/task-dashboard/modules/activity"
	"github.com/gofiber/fiber/v2"
)

const (
	defaultActivityLimit = 20
	healthTimeout        = 3 * time.Second
)

// setupRoutes configures all HTTP routes.
func (m *Module) setupRoutes() {
	m.app.Get("/health", m.healthHandler)

	m.app.Get("/openapi.json", m.openAPIDocument)
	m.app.Get("/docs", m.redoc)
	m.app.Get("/api-test", m.swaggerUI)

	api := m.app.Group("/api")
	m.registerTaskRoutes(api.Group("/tasks"))
	api.Get("/activity", m.listActivity)
	api.Get("/cache/stats", m.getCacheStats)
	api.Delete("/cache/stats", m.resetCacheStats)

	// Earlier clients used the unprefixed path.
	m.registerTaskRoutes(m.app.Group("/tasks"))
}

func (m *Module) registerTaskRoutes(tasks fiber.Router) {
	tasks.Get("/", m.listTasks)
	tasks.Post("/", m.createTask)
	tasks.Get("/:id", m.getTask)
	tasks.Put("/:id", m.updateTask)
	tasks.Delete("/:id", m.deleteTask)
}

// healthHandler handles GET /health.
func (m *Module) healthHandler(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:  "healthy",
		Modules: make(map[string]ModuleHealth, len(m.checks)+1),
	}

	self := m.Health(ctx)
	resp.Modules[m.Name()] = ModuleHealth{Healthy: self.Healthy, Message: self.Message, Details: self.Details}

	for _, hc := range m.checks {
		h := hc.Health(ctx)
		resp.Modules[hc.Name()] = ModuleHealth{Healthy: h.Healthy, Message: h.Message, Details: h.Details}
		if !h.Healthy {
			resp.Status = "unhealthy"
		}
	}

	if resp.Status != "healthy" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}

// listTasks handles GET /api/tasks.
func (m *Module) listTasks(c *fiber.Ctx) error {
	q, err := domain.ParseListQuery(func(key string) string { return c.Query(key) })
	if err != nil {
		return m.fail(c, err, "Error fetching tasks")
	}

	res, err := m.tasks.List(c.UserContext(), q)
	if err != nil {
		return m.fail(c, err, "Error fetching tasks")
	}
	return c.JSON(res)
}

// getTask handles GET /api/tasks/:id.
func (m *Module) getTask(c *fiber.Ctx) error {
	t, err := m.tasks.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return m.fail(c, err, "Error fetching task")
	}
	return c.JSON(t)
}

// createTask handles POST /api/tasks.
func (m *Module) createTask(c *fiber.Ctx) error {
	var in domain.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{Message: "Invalid request body"})
	}

	t, err := m.tasks.Create(c.UserContext(), in)
	if err != nil {
		return m.fail(c, err, "Error adding task")
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

// updateTask handles PUT /api/tasks/:id.
func (m *Module) updateTask(c *fiber.Ctx) error {
	var in domain.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{Message: "Invalid request body"})
	}

	t, err := m.tasks.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return m.fail(c, err, "Error updating task")
	}
	return c.JSON(t)
}

// deleteTask handles DELETE /api/tasks/:id.
func (m *Module) deleteTask(c *fiber.Ctx) error {
	if err := m.tasks.Delete(c.UserContext(), c.Params("id")); err != nil {
		return m.fail(c, err, "Error deleting task")
	}
	return c.JSON(MessageResponse{Message: "Task deleted successfully"})
}

// listActivity handles GET /api/activity.
func (m *Module) listActivity(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultActivityLimit)
	if limit < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{Message: "limit must be a positive integer"})
	}

	resp := ActivityResponse{Entries: []activity.Entry{}}
	if m.activity != nil {
		resp.Entries = m.activity.Recent(limit)
	}
	return c.JSON(resp)
}

// getCacheStats handles GET /api/cache/stats.
func (m *Module) getCacheStats(c *fiber.Ctx) error {
	if m.cacheStats == nil {
		return c.JSON(CacheStatsResponse{Enabled: false})
	}
	stats := m.cacheStats.Stats()
	return c.JSON(CacheStatsResponse{Enabled: true, Stats: &stats})
}

// resetCacheStats handles DELETE /api/cache/stats.
func (m *Module) resetCacheStats(c *fiber.Ctx) error {
	if m.cacheStats == nil {
		return c.Status(fiber.StatusNotFound).JSON(MessageResponse{Message: "Cache is disabled"})
	}
	m.cacheStats.ResetStats()
	m.logger.Info("Cache statistics reset")
	stats := m.cacheStats.Stats()
	return c.JSON(CacheStatsResponse{Enabled: true, Stats: &stats})
}

// fail maps a service error to a status code and JSON body. Store
// failures are logged and reported with the generic message only.
func (m *Module) fail(c *fiber.Ctx, err error, generic string) error {
	switch {
	case errors.Is(err, domain.ErrPastDueDate):
		return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{Message: "Due date cannot be in the past"})
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{Message: validationMessage(err)})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(MessageResponse{Message: "Task not found"})
	}

	m.logger.Error(generic, "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(MessageResponse{Message: generic})
}

// validationMessage strips the sentinel prefix from a validation error.
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": ")
}
