// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration.
type Config struct {
	HTTPPort        int
	StoreDriver     string
	DBPath          string
	DBDebug         bool
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	RedisPassword   string
	CacheTTL        time.Duration
	CachePrefix     string
	ActivitySize    int
	ShutdownTimeout time.Duration
}

// CacheEnabled reports whether a Redis address is configured.
func (c Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// Validate checks values that have no usable fallback.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case "sqlite":
		if c.DBPath == "" {
			return errors.New("DB_PATH is required for the sqlite store")
		}
	case "mongo":
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required for the mongo store")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be sqlite or mongo, got %q", c.StoreDriver)
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT out of range: %d", c.HTTPPort)
	}
	return nil
}

// Load reads the configuration from the environment after loading any
// .env files given (default ".env"). Variables already set in the
// environment take precedence over .env values.
func Load(files ...string) (Config, error) {
	if err := loadDotEnv(files...); err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPPort:        getEnvInt("HTTP_PORT", 3000),
		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", "sqlite")),
		DBPath:          getEnv("DB_PATH", "./tasks.db"),
		DBDebug:         getEnvBool("DB_DEBUG", false),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDatabase:   getEnv("MONGO_DATABASE", "taskdash"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		CacheTTL:        getEnvDuration("CACHE_TTL", time.Minute),
		CachePrefix:     getEnv("CACHE_PREFIX", "taskdash:"),
		ActivitySize:    getEnvInt("ACTIVITY_SIZE", 50),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
	return cfg, cfg.Validate()
}

func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvBool returns environment variable as bool or default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("Warning: invalid bool value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
