package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAnalyticsWarmup is the task type for pre-computing analytics caches.
	TaskAnalyticsWarmup = "analytics:warmup"

	// AnalyticsWarmupCron runs the warmup nightly at 01:15 UTC, after most
	// tenants have closed out their sales day.
	AnalyticsWarmupCron = "15 1 * * *"
)

// AnalyticsWarmupPayload selects which rolling windows to warm. An empty
// Windows slice falls back to the standard dashboard windows.
type AnalyticsWarmupPayload struct {
	Windows []int `json:"windows,omitempty"`
}

// DefaultWarmupWindows covers the windows the dashboard requests most.
var DefaultWarmupWindows = []int{30, 90, 365}

// NewAnalyticsWarmupTask constructs an Asynq task.
func NewAnalyticsWarmupTask(payload AnalyticsWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAnalyticsWarmup, data), nil
}
