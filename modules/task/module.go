// Package task provides the task store and the task use cases as a mono module.
package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domain "github.com/example/task-dashboard/domain/task"
	"github.com/example/task-dashboard/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// StoreConfig selects and configures the task store.
type StoreConfig struct {
	Driver        string
	DBPath        string
	DBDebug       bool
	MongoURI      string
	MongoDatabase string
}

// Module provides task management services.
type Module struct {
	cfg      StoreConfig
	repo     domain.Repository
	service  *Service
	cache    ListCache
	eventBus mono.EventBus
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new task module.
func NewModule(cfg StoreConfig, logger types.Logger) *Module {
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}
	return &Module{
		cfg:    cfg,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "task"
}

// SetCache enables list caching. Must be called before Start.
func (m *Module) SetCache(c ListCache) {
	m.cache = c
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
// The framework prefixes service names with "services.task.".
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get", json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "create", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update", json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register update service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete service: %w", err)
	}

	m.logger.Info("Registered services", "services", []string{"list", "get", "create", "update", "delete"})
	return nil
}

// Start opens the configured store and creates the service.
func (m *Module) Start(ctx context.Context) error {
	repo, err := m.openStore(ctx)
	if err != nil {
		return err
	}
	m.repo = repo

	opts := []Option{}
	if m.cache != nil {
		opts = append(opts, WithCache(m.cache))
	}
	if m.eventBus != nil {
		opts = append(opts, WithEventBus(m.eventBus))
	} else {
		m.logger.Warn("EventBus not set, task events will not be published")
	}
	m.service = NewService(m.repo, m.logger, opts...)

	m.logger.Info("Task module started", "driver", m.cfg.Driver, "cached", m.cache != nil)
	return nil
}

func (m *Module) openStore(ctx context.Context) (domain.Repository, error) {
	switch m.cfg.Driver {
	case DriverSQLite:
		m.logger.Info("Connecting to SQLite database", "path", m.cfg.DBPath)
		return OpenSQLite(m.cfg.DBPath, m.cfg.DBDebug)
	case DriverMongo:
		m.logger.Info("Connecting to MongoDB", "database", m.cfg.MongoDatabase)
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return OpenMongo(ctx, m.cfg.MongoURI, m.cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", m.cfg.Driver)
	}
}

// Stop closes the store connection.
func (m *Module) Stop(_ context.Context) error {
	if m.repo == nil {
		return nil
	}
	if err := m.repo.Close(); err != nil {
		return fmt.Errorf("failed to close task store: %w", err)
	}
	m.logger.Info("Task store closed")
	return nil
}

// Health reports whether the store is reachable.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.repo == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "store not initialized",
		}
	}

	if err := m.repo.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("store ping failed: %v", err),
		}
	}

	details := map[string]any{"driver": m.cfg.Driver}
	if m.cfg.Driver == DriverSQLite {
		details["path"] = m.cfg.DBPath
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}

// Service returns the task service. It is nil until Start succeeds.
func (m *Module) Service() *Service {
	return m.service
}
