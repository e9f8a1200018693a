// Package api exposes the task service over HTTP with Fiber.
package api

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/example/task-dashboard/domain/task"
	"github.com/example/task-dashboard/modules/activity"
	"github.com/example/task-dashboard/modules/cache"
	taskmod "github.com/example/task-dashboard/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// TaskService is the task use-case surface the HTTP layer needs.
type TaskService interface {
	List(ctx context.Context, q domain.ListQuery) (*domain.ListResult, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	Create(ctx context.Context, in domain.CreateInput) (*domain.Task, error)
	Update(ctx context.Context, id string, in domain.UpdateInput) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}

// ActivityFeed provides recent task changes.
type ActivityFeed interface {
	Recent(n int) []activity.Entry
}

// CacheStats provides list cache counters.
type CacheStats interface {
	Stats() cache.StatsSnapshot
	ResetStats()
}

// HealthChecker is a module that reports its health.
type HealthChecker interface {
	Name() string
	Health(ctx context.Context) mono.HealthStatus
}

// Module provides the HTTP API.
type Module struct {
	app        *fiber.App
	port       int
	taskModule *taskmod.Module
	tasks      TaskService
	activity   ActivityFeed
	cacheStats CacheStats
	checks     []HealthChecker
	spec       []byte
	logger     types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new API module listening on port.
func NewModule(port int, logger types.Logger) *Module {
	return &Module{
		port:   port,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// SetTaskModule sets the task module dependency. Its service is resolved
// in Start, after the task module has started.
func (m *Module) SetTaskModule(tm *taskmod.Module) {
	m.taskModule = tm
	m.AddHealthCheck(tm)
}

// SetActivityFeed enables GET /api/activity.
func (m *Module) SetActivityFeed(feed ActivityFeed) {
	m.activity = feed
}

// SetCacheStats enables cache counters on GET and DELETE /api/cache/stats.
func (m *Module) SetCacheStats(stats CacheStats) {
	m.cacheStats = stats
}

// AddHealthCheck includes hc in GET /health.
func (m *Module) AddHealthCheck(hc HealthChecker) {
	m.checks = append(m.checks, hc)
}

// Start builds the Fiber app and starts the HTTP server.
func (m *Module) Start(_ context.Context) error {
	if m.taskModule == nil {
		return fmt.Errorf("task module not set")
	}

	service := m.taskModule.Service()
	if service == nil {
		return fmt.Errorf("task service not available")
	}
	m.tasks = service

	if err := m.buildApp(); err != nil {
		return err
	}

	go func() {
		addr := fmt.Sprintf(":%d", m.port)
		m.logger.Info("Starting HTTP server", "addr", addr)
		if err := m.app.Listen(addr); err != nil {
			m.logger.Error("HTTP server error", "error", err)
		}
	}()

	return nil
}

// buildApp creates the Fiber app with middleware and routes.
func (m *Module) buildApp() error {
	spec, err := openAPIJSON()
	if err != nil {
		return err
	}
	m.spec = spec

	m.app = fiber.New(fiber.Config{
		AppName:               "Task Dashboard",
		DisableStartupMessage: true,
		ErrorHandler:          m.errorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New())

	m.setupRoutes()
	return nil
}

// Stop stops the HTTP server gracefully.
func (m *Module) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server")
	return m.app.ShutdownWithContext(ctx)
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// errorHandler handles errors from Fiber routes.
func (m *Module) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	} else {
		m.logger.Error("Unhandled request error", "method", c.Method(), "path", c.Path(), "error", err)
	}

	return c.Status(code).JSON(MessageResponse{Message: message})
}

// App returns the Fiber app (for testing).
func (m *Module) App() *fiber.App {
	return m.app
}
