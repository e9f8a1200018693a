package main

import (
	"context"
	"log"
	"os"

	"github.com/example/task-dashboard/config"
	activitymod "github.com/example/task-dashboard/modules/activity"
	apimod "github.com/example/task-dashboard/modules/api"
	cachemod "github.com/example/task-dashboard/modules/cache"
	taskmod "github.com/example/task-dashboard/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Println("=== Task Dashboard ===")
	log.Printf("Store: %s", cfg.StoreDriver)
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	if cfg.CacheEnabled() {
		log.Printf("Redis: %s (TTL %s)", cfg.RedisAddr, cfg.CacheTTL)
	} else {
		log.Println("Redis: disabled")
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	logger := app.Logger()

	activityModule := activitymod.NewModule(cfg.ActivitySize, logger.WithModule("activity"))
	taskModule := taskmod.NewModule(taskmod.StoreConfig{
		Driver:        cfg.StoreDriver,
		DBPath:        cfg.DBPath,
		DBDebug:       cfg.DBDebug,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
	}, logger.WithModule("task"))
	apiModule := apimod.NewModule(cfg.HTTPPort, logger.WithModule("api"))

	// Wire dependencies before Start: the task module builds its service
	// in Start and the api module resolves that service in its own Start.
	apiModule.SetTaskModule(taskModule)
	apiModule.SetActivityFeed(activityModule)

	// Order: cache and event consumer first, then the core domain, then HTTP.
	if cfg.CacheEnabled() {
		cacheModule := cachemod.NewModule(cachemod.Config{
			RedisAddr:     cfg.RedisAddr,
			RedisPassword: cfg.RedisPassword,
			Prefix:        cfg.CachePrefix,
			TTL:           cfg.CacheTTL,
		}, logger.WithModule("cache"))

		taskModule.SetCache(cacheModule.Lists())
		apiModule.SetCacheStats(cacheModule.Lists())
		apiModule.AddHealthCheck(cacheModule)
		app.Register(cacheModule)
	}
	app.Register(activityModule)
	app.Register(taskModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg.HTTPPort)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(port int) {
	log.Println("")
	log.Println("=== Application Started ===")
	log.Printf("API available at http://localhost:%d", port)
	log.Println("Endpoints:")
	log.Println("  GET    /health              - Health check")
	log.Println("  GET    /api/tasks           - List tasks (page, limit, sortBy, order, searchQuery, statusFilter)")
	log.Println("  GET    /api/tasks/:id       - Get a task")
	log.Println("  POST   /api/tasks           - Create a task")
	log.Println("  PUT    /api/tasks/:id       - Update a task")
	log.Println("  DELETE /api/tasks/:id       - Delete a task")
	log.Println("  GET    /api/activity        - Recent task changes")
	log.Println("  GET    /api/cache/stats     - List cache statistics")
	log.Println("  GET    /docs                - API reference (ReDoc)")
	log.Println("  GET    /api-test            - API explorer (Swagger UI)")
	log.Println("  GET    /openapi.json        - OpenAPI document")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")
}
