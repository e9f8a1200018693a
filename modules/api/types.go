package api

import (
	"github.com/example/task-dashboard/modules/activity"
	"github.com/example/task-dashboard/modules/cache"
)

// MessageResponse is the body of delete confirmations and error responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// ModuleHealth is the health of a single module.
type ModuleHealth struct {
	Healthy bool           `json:"healthy"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthResponse is the HTTP response for health check.
type HealthResponse struct {
	Status  string                  `json:"status"`
	Modules map[string]ModuleHealth `json:"modules"`
}

// ActivityResponse lists recent task changes.
type ActivityResponse struct {
	Entries []activity.Entry `json:"entries"`
}

// CacheStatsResponse reports list cache counters.
type CacheStatsResponse struct {
	Enabled bool                 `json:"enabled"`
	Stats   *cache.StatsSnapshot `json:"stats,omitempty"`
}
