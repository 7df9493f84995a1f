package shared

import (
	"context"
	"time"
)

// IdempotencyStore stores processed event IDs to prevent duplicate processing.
// Cost-center side effects are delivered at least once by the outbox, so their
// handler guards on this store.
type IdempotencyStore interface {
	// MarkProcessed marks an event as processed with a TTL
	// Returns true if the event was newly marked, false if it was already processed
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed checks if an event has already been processed
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Forget removes a mark so a failed delivery can be retried
	Forget(ctx context.Context, eventID string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a processed event ID is remembered
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     7 * 24 * time.Hour,
		Enabled: true,
	}
}

// RecordLocker serializes work on a single record across requests and
// process instances.
type RecordLocker interface {
	// Acquire blocks until the lock for key is held, ctx is done, or the wait
	// budget runs out. The returned release func must be called exactly once.
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// LockConfig bounds how long a record lock is held and waited for
type LockConfig struct {
	TTL           time.Duration
	WaitTimeout   time.Duration
	RetryInterval time.Duration
}

// DefaultLockConfig returns lock timings suited to short posting transactions
func DefaultLockConfig() LockConfig {
	return LockConfig{
		TTL:           30 * time.Second,
		WaitTimeout:   10 * time.Second,
		RetryInterval: 25 * time.Millisecond,
	}
}

// WithDefaults fills every zero or negative field from DefaultLockConfig.
// A zero RetryInterval would make the retry loop spin.
func (c LockConfig) WithDefaults() LockConfig {
	def := DefaultLockConfig()
	if c.TTL <= 0 {
		c.TTL = def.TTL
	}
	if c.WaitTimeout <= 0 {
		c.WaitTimeout = def.WaitTimeout
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = def.RetryInterval
	}
	return c
}
