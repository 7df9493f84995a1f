package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultLockPrefix = "payroll:lock:"

// releaseScript deletes the key only while it still holds our token, so a
// holder whose lease expired cannot release the next holder's lock
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var errLockHeld = errors.New("lock held")

// acquire polls try until it succeeds, fails permanently, or the wait budget
// in cfg runs out
func acquire(ctx context.Context, cfg shared.LockConfig, key string, try func() (bool, error)) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.RetryInterval
	b.MaxInterval = 8 * cfg.RetryInterval
	b.Multiplier = 1.5
	b.MaxElapsedTime = cfg.WaitTimeout

	err := backoff.Retry(func() error {
		ok, err := try()
		if err != nil {
			return backoff.Permanent(err)
		}
		if !ok {
			return errLockHeld
		}
		return nil
	}, backoff.WithContext(b, ctx))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, errLockHeld):
		return fmt.Errorf("%w: %s", shared.ErrRecordLocked, key)
	default:
		return err
	}
}

// RedisRecordLocker implements RecordLocker with SET NX PX and a
// token-checked release
type RedisRecordLocker struct {
	client    redis.UniversalClient
	config    shared.LockConfig
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisRecordLocker creates a locker over an existing client
func NewRedisRecordLocker(client redis.UniversalClient, config shared.LockConfig, logger *zap.Logger) *RedisRecordLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisRecordLocker{
		client:    client,
		config:    config.WithDefaults(),
		keyPrefix: defaultLockPrefix,
		logger:    logger,
	}
}

// Acquire blocks until key is held or the wait budget is spent
func (l *RedisRecordLocker) Acquire(ctx context.Context, key string) (func(), error) {
	redisKey := l.keyPrefix + key
	token := uuid.NewString()

	err := acquire(ctx, l.config, key, func() (bool, error) {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.config.TTL).Result()
		if err != nil {
			return false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		return ok, nil
	})
	if err != nil {
		return nil, err
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			// the request context may already be cancelled
			rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(rctx, l.client, []string{redisKey}, token).Err(); err != nil {
				l.logger.Warn("failed to release record lock", zap.String("key", key), zap.Error(err))
			}
		})
	}
	return release, nil
}

type lease struct {
	token   string
	expires time.Time
}

// InMemoryRecordLocker implements RecordLocker for a single process
type InMemoryRecordLocker struct {
	mu     sync.Mutex
	leases map[string]lease
	config shared.LockConfig
}

// NewInMemoryRecordLocker creates an in-process locker
func NewInMemoryRecordLocker(config shared.LockConfig) *InMemoryRecordLocker {
	return &InMemoryRecordLocker{
		leases: make(map[string]lease),
		config: config.WithDefaults(),
	}
}

// Acquire blocks until key is held or the wait budget is spent
func (l *InMemoryRecordLocker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()

	err := acquire(ctx, l.config, key, func() (bool, error) {
		l.mu.Lock()
		defer l.mu.Unlock()

		now := time.Now()
		if cur, ok := l.leases[key]; ok && now.Before(cur.expires) {
			return false, nil
		}
		l.leases[key] = lease{token: token, expires: now.Add(l.config.TTL)}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if cur, ok := l.leases[key]; ok && cur.token == token {
				delete(l.leases, key)
			}
		})
	}, nil
}

var (
	_ shared.RecordLocker = (*RedisRecordLocker)(nil)
	_ shared.RecordLocker = (*InMemoryRecordLocker)(nil)
)
