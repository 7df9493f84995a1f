package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/erp/payroll/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func testLockConfig() shared.LockConfig {
	return shared.LockConfig{
		TTL:           time.Second,
		WaitTimeout:   100 * time.Millisecond,
		RetryInterval: 5 * time.Millisecond,
	}
}

// exerciseLocker runs the behavior every RecordLocker must share
func exerciseLocker(t *testing.T, locker shared.RecordLocker) {
	ctx := context.Background()

	t.Run("acquire and release", func(t *testing.T) {
		release, err := locker.Acquire(ctx, "payroll:1")
		require.NoError(t, err)
		release()

		release, err = locker.Acquire(ctx, "payroll:1")
		require.NoError(t, err)
		release()
	})

	t.Run("held key times out with record locked", func(t *testing.T) {
		release, err := locker.Acquire(ctx, "payroll:2")
		require.NoError(t, err)
		defer release()

		_, err = locker.Acquire(ctx, "payroll:2")
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrRecordLocked))
	})

	t.Run("different keys do not block", func(t *testing.T) {
		r1, err := locker.Acquire(ctx, "voucher:1")
		require.NoError(t, err)
		defer r1()
		r2, err := locker.Acquire(ctx, "voucher:2")
		require.NoError(t, err)
		defer r2()
	})

	t.Run("waiter gets the lock once released", func(t *testing.T) {
		release, err := locker.Acquire(ctx, "payroll:3")
		require.NoError(t, err)

		go func() {
			time.Sleep(20 * time.Millisecond)
			release()
		}()

		next, err := locker.Acquire(ctx, "payroll:3")
		require.NoError(t, err)
		next()
	})

	t.Run("release is idempotent", func(t *testing.T) {
		release, err := locker.Acquire(ctx, "payroll:4")
		require.NoError(t, err)
		release()

		other, err := locker.Acquire(ctx, "payroll:4")
		require.NoError(t, err)
		defer other()

		// second call must not free the new holder's lease
		release()
		_, err = locker.Acquire(ctx, "payroll:4")
		assert.ErrorIs(t, err, shared.ErrRecordLocked)
	})

	t.Run("cancelled context stops waiting", func(t *testing.T) {
		release, err := locker.Acquire(ctx, "payroll:5")
		require.NoError(t, err)
		defer release()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err = locker.Acquire(cctx, "payroll:5")
		require.Error(t, err)
	})

	t.Run("serializes concurrent holders", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			inside  int32
			overlap int32
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				release, err := locker.Acquire(ctx, "payroll:6")
				if err != nil {
					return
				}
				if atomic.AddInt32(&inside, 1) > 1 {
					atomic.StoreInt32(&overlap, 1)
				}
				time.Sleep(2 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				release()
			}()
		}
		wg.Wait()
		assert.Zero(t, atomic.LoadInt32(&overlap))
	})
}

func TestInMemoryRecordLocker(t *testing.T) {
	cfg := testLockConfig()
	cfg.WaitTimeout = 300 * time.Millisecond
	exerciseLocker(t, NewInMemoryRecordLocker(cfg))
}

func TestInMemoryRecordLocker_ExpiredLeaseIsReclaimed(t *testing.T) {
	cfg := testLockConfig()
	cfg.TTL = 20 * time.Millisecond
	locker := NewInMemoryRecordLocker(cfg)
	ctx := context.Background()

	stale, err := locker.Acquire(ctx, "payroll:1")
	require.NoError(t, err)

	// never released; the next caller waits out the TTL
	fresh, err := locker.Acquire(ctx, "payroll:1")
	require.NoError(t, err)

	holder := func() (string, bool) {
		locker.mu.Lock()
		defer locker.mu.Unlock()
		cur, ok := locker.leases["payroll:1"]
		return cur.token, ok
	}
	token, held := holder()
	require.True(t, held)

	// the fresh lease may expire any time now, so inspect the table rather
	// than racing a third Acquire against the TTL
	stale()
	after, held := holder()
	assert.True(t, held, "stale release must not free the new lease")
	assert.Equal(t, token, after)

	fresh()
	_, held = holder()
	assert.False(t, held)
}

func TestLockConfig_ZeroFieldsTakeDefaults(t *testing.T) {
	locker := NewInMemoryRecordLocker(shared.LockConfig{TTL: time.Second})
	def := shared.DefaultLockConfig()

	assert.Equal(t, time.Second, locker.config.TTL)
	assert.Equal(t, def.WaitTimeout, locker.config.WaitTimeout)
	assert.Equal(t, def.RetryInterval, locker.config.RetryInterval)

	redisLocker := NewRedisRecordLocker(nil, shared.LockConfig{}, nil)
	assert.Equal(t, def, redisLocker.config)
}

func TestRedisRecordLocker(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	client := startRedis(t)

	cfg := testLockConfig()
	cfg.WaitTimeout = 300 * time.Millisecond
	exerciseLocker(t, NewRedisRecordLocker(client, cfg, nil))

	t.Run("idempotency store shares the client", func(t *testing.T) {
		store := NewRedisIdempotencyStore(client, "")
		ctx := context.Background()

		isNew, err := store.MarkProcessed(ctx, "evt-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkProcessed(ctx, "evt-1", time.Minute)
		require.NoError(t, err)
		assert.False(t, isNew)

		require.NoError(t, store.Forget(ctx, "evt-1"))
		processed, err := store.IsProcessed(ctx, "evt-1")
		require.NoError(t, err)
		assert.False(t, processed)
	})
}

func startRedis(t *testing.T) redis.UniversalClient {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}
