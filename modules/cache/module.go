package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/redis/go-redis/v9"
)

// Config holds cache configuration.
type Config struct {
	RedisAddr     string
	RedisPassword string
	Prefix        string
	TTL           time.Duration
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		RedisAddr: "localhost:6379",
		Prefix:    "taskdash:",
		TTL:       time.Minute,
	}
}

// Module provides the Redis list cache as a mono module.
type Module struct {
	cfg    Config
	client *redis.Client
	cache  *Cache
	lists  *ListCache
	logger types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the cache module. Zero fields of cfg take their
// DefaultConfig values. The Redis client connects lazily; Start verifies
// the connection.
func NewModule(cfg Config, logger types.Logger) *Module {
	def := DefaultConfig()
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = def.RedisAddr
	}
	if cfg.Prefix == "" {
		cfg.Prefix = def.Prefix
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		PoolSize:     20,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	c := New(client, cfg.Prefix, cfg.TTL)
	return &Module{
		cfg:    cfg,
		client: client,
		cache:  c,
		lists:  NewListCache(c, logger),
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "cache"
}

// Start checks that Redis is reachable.
func (m *Module) Start(ctx context.Context) error {
	if err := m.cache.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	m.logger.Info("Connected to Redis", "addr", m.cfg.RedisAddr, "prefix", m.cfg.Prefix, "ttl", m.cfg.TTL.String())
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if err := m.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}
	m.logger.Info("Redis connection closed")
	return nil
}

// Health reports whether Redis answers a ping.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if err := m.cache.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"addr":  m.cfg.RedisAddr,
			"stats": m.cache.Stats(),
		},
	}
}

// Lists returns the task list cache.
func (m *Module) Lists() *ListCache {
	return m.lists
}
