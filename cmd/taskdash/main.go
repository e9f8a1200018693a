// Package main is the entry point for the taskdash CLI, a terminal
// front-end for the task dashboard API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/task-dashboard/dashboard"
)

// Exit codes.
const (
	exitSuccess      = 0
	exitUserError    = 1
	exitBackendError = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(func(baseURL string) dashboard.API {
		return dashboard.NewClient(baseURL)
	})

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(exitCode(err))
	}
}

// exitCode classifies err: bad input and 4xx answers are user errors,
// everything else is a backend error.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}

	var fe dashboard.FieldErrors
	if errors.As(err, &fe) || errors.Is(err, errUsage) {
		return exitUserError
	}

	var apiErr *dashboard.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return exitUserError
	}
	return exitBackendError
}
