package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/payroll/internal/domain/shared"
	"github.com/erp/payroll/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores groups the coordination stores shared by services and the outbox
// processor. Client is nil when running on the in-memory fallback.
type Stores struct {
	Locker      shared.RecordLocker
	Idempotency shared.IdempotencyStore
	Client      redis.UniversalClient
}

// Close releases the idempotency store and the Redis client
func (s *Stores) Close() error {
	var firstErr error
	if s.Idempotency != nil {
		firstErr = s.Idempotency.Close()
	}
	if s.Client != nil {
		if err := s.Client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// StoreFactory creates coordination stores based on configuration
type StoreFactory struct {
	redisConfig           config.RedisConfig
	lockConfig            shared.LockConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	pingTimeout           time.Duration
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when
// Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(redisCfg config.RedisConfig, lockCfg config.LockConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig: redisCfg,
		lockConfig: shared.LockConfig{
			TTL:           lockCfg.TTL,
			WaitTimeout:   lockCfg.WaitTimeout,
			RetryInterval: lockCfg.RetryInterval,
		},
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		pingTimeout:           3 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisStores connects to Redis and builds stores over one client
func (f *StoreFactory) CreateRedisStores(ctx context.Context) (*Stores, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, f.pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", f.redisConfig.Addr(), err)
	}

	return &Stores{
		Locker:      NewRedisRecordLocker(client, f.lockConfig, f.logger),
		Idempotency: NewRedisIdempotencyStore(client, ""),
		Client:      client,
	}, nil
}

// CreateInMemoryStores builds process-local stores. They do not coordinate
// across instances, so two replicas may lock the same record concurrently.
func (f *StoreFactory) CreateInMemoryStores() *Stores {
	return &Stores{
		Locker:      NewInMemoryRecordLocker(f.lockConfig),
		Idempotency: NewInMemoryIdempotencyStore(),
	}
}

// CreateStores uses Redis when enabled, falling back to in-memory stores
// when Redis is unreachable and the fallback is allowed
func (f *StoreFactory) CreateStores(ctx context.Context) (*Stores, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("redis disabled, using in-memory locker and idempotency store")
		return f.CreateInMemoryStores(), nil
	}

	stores, err := f.CreateRedisStores(ctx)
	if err == nil {
		f.logger.Info("using Redis locker and idempotency store", zap.String("addr", f.redisConfig.Addr()))
		return stores, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for record locks but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
		"Record locks will not be shared across instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryStores(), nil
}
