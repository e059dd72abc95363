package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/tallystack/tallystack/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// WarmupService is the slice of the analytics service the warmup job needs.
type WarmupService interface {
	ActiveTenants(ctx context.Context) ([]int64, error)
	Warm(ctx context.Context, tenantID int64, windows []int) error
}

// AnalyticsWarmupJob pre-populates revenue analytics caches for every active
// tenant so the first dashboard request of the day is served hot.
type AnalyticsWarmupJob struct {
	Analytics WarmupService
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	clock     func() time.Time
}

// NewAnalyticsWarmupJob wires dependencies for the warmup handler.
func NewAnalyticsWarmupJob(analyticsSvc WarmupService, logger *slog.Logger, metrics *jobmetrics.Metrics) *AnalyticsWarmupJob {
	return &AnalyticsWarmupJob{
		Analytics: analyticsSvc,
		Logger:    logger,
		Metrics:   metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes analytics warmup tasks. A failing tenant aborts the run so
// Asynq retries it; tenants warmed before the failure stay cached.
func (j *AnalyticsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Analytics == nil {
		return errors.New("analytics warmup: handler not configured")
	}
	var payload AnalyticsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	windows := payload.Windows
	if len(windows) == 0 {
		windows = DefaultWarmupWindows
	}

	tracker := j.metrics().Track(TaskAnalyticsWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	logger.Info("starting analytics warmup", slog.Int("windows", len(windows)))

	tenantIDs, err := j.Analytics.ActiveTenants(ctx)
	if err != nil {
		resultErr = err
		logger.Error("load active tenants", slog.Any("error", err))
		return resultErr
	}
	if len(tenantIDs) == 0 {
		logger.Info("no active tenants to warm")
		return resultErr
	}

	start := j.now()
	warmed := 0
	for _, tenantID := range tenantIDs {
		if err := j.warmTenant(ctx, tenantID, windows); err != nil {
			resultErr = err
			logger.Error("warm tenant", slog.Int64("tenant_id", tenantID), slog.Any("error", err))
			return resultErr
		}
		for _, w := range windows {
			j.metrics().AddWarmedWindows(w, 1)
		}
		warmed++
	}

	logger.Info("completed analytics warmup", slog.Int("tenants", warmed), slog.Duration("duration", time.Since(start)))
	return resultErr
}

func (j *AnalyticsWarmupJob) warmTenant(ctx context.Context, tenantID int64, windows []int) error {
	// Tighten each tenant execution with a timeout to avoid long-running jobs.
	tenantCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	return j.Analytics.Warm(tenantCtx, tenantID, windows)
}

func (j *AnalyticsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskAnalyticsWarmup))
	}
	return slog.Default().With(slog.String("job", TaskAnalyticsWarmup))
}

func (j *AnalyticsWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *AnalyticsWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
