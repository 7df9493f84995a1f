package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticTenants struct {
	ids []uuid.UUID
	err error
}

func (s staticTenants) ListTenantIDs(context.Context) ([]uuid.UUID, error) { return s.ids, s.err }

func startedScheduler(t *testing.T) *Scheduler {
	t.Helper()
	block := make(chan struct{})
	s := NewScheduler(Config{MaxConcurrentJobs: 1, QueueSize: 50, JobTimeout: time.Second},
		funcExecutor(func(ctx context.Context, _ *Job) error {
			select {
			case <-block:
			case <-ctx.Done():
			}
			return nil
		}), zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() {
		close(block)
		_ = s.Stop(context.Background())
	})
	return s
}

func TestCronTrigger_FiresOncePerDay(t *testing.T) {
	tenants := staticTenants{ids: []uuid.UUID{uuid.New(), uuid.New()}}
	c := NewCronTrigger(CronTriggerConfig{Hour: 2, Minute: 30}, startedScheduler(t), tenants, zap.NewNop())

	now := time.Date(2024, 5, 1, 2, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	assert.False(t, c.checkAndTrigger(context.Background()), "before the configured time")

	now = time.Date(2024, 5, 1, 2, 45, 0, 0, time.UTC)
	assert.True(t, c.checkAndTrigger(context.Background()), "first check after the configured time")
	assert.False(t, c.checkAndTrigger(context.Background()), "same day")

	now = time.Date(2024, 5, 2, 3, 0, 0, 0, time.UTC)
	assert.True(t, c.checkAndTrigger(context.Background()), "next day")
}

func TestCronTrigger_TriggerAll(t *testing.T) {
	tenants := staticTenants{ids: []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}}
	c := NewCronTrigger(DefaultCronTriggerConfig(), startedScheduler(t), tenants, zap.NewNop())
	assert.Equal(t, 3*len(DailyJobKinds()), c.TriggerAll(context.Background()))

	failing := NewCronTrigger(DefaultCronTriggerConfig(), startedScheduler(t), staticTenants{err: errors.New("db down")}, zap.NewNop())
	assert.Equal(t, 0, failing.TriggerAll(context.Background()))
}

func TestCronTrigger_StartStop(t *testing.T) {
	c := NewCronTrigger(CronTriggerConfig{CheckInterval: 10 * time.Millisecond}, startedScheduler(t), staticTenants{}, zap.NewNop())
	require.NoError(t, c.Start(context.Background()))
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, c.Stop(context.Background()))
}
