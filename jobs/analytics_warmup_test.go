package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/tallystack/tallystack/internal/jobs"
)

type fakeWarmupService struct {
	tenants    []int64
	tenantsErr error
	warmErr    map[int64]error
	warmCalls  []warmCall
}

type warmCall struct {
	tenantID int64
	windows  []int
}

func (f *fakeWarmupService) ActiveTenants(ctx context.Context) ([]int64, error) {
	return f.tenants, f.tenantsErr
}

func (f *fakeWarmupService) Warm(ctx context.Context, tenantID int64, windows []int) error {
	f.warmCalls = append(f.warmCalls, warmCall{tenantID: tenantID, windows: windows})
	return f.warmErr[tenantID]
}

func newWarmupJob(svc WarmupService) *AnalyticsWarmupJob {
	return NewAnalyticsWarmupJob(svc, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))
}

func mustTask(t *testing.T, payload AnalyticsWarmupPayload) *asynq.Task {
	t.Helper()
	task, err := NewAnalyticsWarmupTask(payload)
	require.NoError(t, err)
	return task
}

func TestWarmupHandlesEveryActiveTenant(t *testing.T) {
	svc := &fakeWarmupService{tenants: []int64{1, 2, 3}}
	job := newWarmupJob(svc)

	err := job.Handle(context.Background(), mustTask(t, AnalyticsWarmupPayload{Windows: []int{30, 90}}))
	require.NoError(t, err)

	require.Len(t, svc.warmCalls, 3)
	assert.Equal(t, int64(1), svc.warmCalls[0].tenantID)
	assert.Equal(t, []int{30, 90}, svc.warmCalls[0].windows)
}

func TestWarmupDefaultsWindows(t *testing.T) {
	svc := &fakeWarmupService{tenants: []int64{7}}
	job := newWarmupJob(svc)

	err := job.Handle(context.Background(), mustTask(t, AnalyticsWarmupPayload{}))
	require.NoError(t, err)

	require.Len(t, svc.warmCalls, 1)
	assert.Equal(t, DefaultWarmupWindows, svc.warmCalls[0].windows)
}

func TestWarmupMalformedPayloadSkipsRetry(t *testing.T) {
	svc := &fakeWarmupService{}
	job := newWarmupJob(svc)

	task := asynq.NewTask(TaskAnalyticsWarmup, []byte("{not json"))
	err := job.Handle(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, svc.warmCalls)
}

func TestWarmupStopsOnTenantFailure(t *testing.T) {
	boom := errors.New("redis down")
	svc := &fakeWarmupService{
		tenants: []int64{1, 2, 3},
		warmErr: map[int64]error{2: boom},
	}
	job := newWarmupJob(svc)

	err := job.Handle(context.Background(), mustTask(t, AnalyticsWarmupPayload{Windows: []int{30}}))
	require.ErrorIs(t, err, boom)
	// Tenant 1 warmed before the failure, tenant 3 never reached.
	assert.Len(t, svc.warmCalls, 2)
}

func TestWarmupTenantListFailure(t *testing.T) {
	boom := errors.New("db down")
	svc := &fakeWarmupService{tenantsErr: boom}
	job := newWarmupJob(svc)

	err := job.Handle(context.Background(), mustTask(t, AnalyticsWarmupPayload{}))
	require.ErrorIs(t, err, boom)
}
