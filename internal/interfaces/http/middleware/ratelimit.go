package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/erp/payroll/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter counts requests per key in fixed windows
type RateLimiter interface {
	// Allow consumes one request for key and reports whether it fits the
	// window and how many requests remain
	Allow(ctx context.Context, key string) (bool, int, error)
	Limit() int
}

// MemoryRateLimiter is a single-instance fixed window limiter
type MemoryRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*window
	limit   int
	window  time.Duration
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type window struct {
	used    int
	started time.Time
}

// NewMemoryRateLimiter creates a limiter and starts its cleanup loop
func NewMemoryRateLimiter(limit int, per time.Duration) *MemoryRateLimiter {
	rl := &MemoryRateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		window:  per,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

func (rl *MemoryRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, w := range rl.clients {
				if now.Sub(w.started) > rl.window*2 {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Close stops the cleanup loop
func (rl *MemoryRateLimiter) Close() {
	rl.once.Do(func() { close(rl.stop) })
}

// Limit returns the requests allowed per window
func (rl *MemoryRateLimiter) Limit() int { return rl.limit }

// Allow implements RateLimiter
func (rl *MemoryRateLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.clients[key]
	if !ok || now.Sub(w.started) >= rl.window {
		w = &window{started: now}
		rl.clients[key] = w
	}
	if w.used >= rl.limit {
		return false, 0, nil
	}
	w.used++
	return true, rl.limit - w.used, nil
}

// RedisRateLimiter shares windows between API instances
type RedisRateLimiter struct {
	client redis.UniversalClient
	limit  int
	window time.Duration
	prefix string
}

// NewRedisRateLimiter creates a limiter backed by INCR with a window TTL
func NewRedisRateLimiter(client redis.UniversalClient, limit int, per time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, limit: limit, window: per, prefix: "payroll:ratelimit:"}
}

// Limit returns the requests allowed per window
func (rl *RedisRateLimiter) Limit() int { return rl.limit }

// Allow implements RateLimiter
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	bucket := time.Now().UnixNano() / int64(rl.window)
	redisKey := rl.prefix + key + ":" + strconv.FormatInt(bucket, 10)

	var incr *redis.IntCmd
	_, err := rl.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, rl.window)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("rate limit %s: %w", key, err)
	}
	used := int(incr.Val())
	if used > rl.limit {
		return false, 0, nil
	}
	return true, rl.limit - used, nil
}

// RateLimitKeyFunc selects the bucket a request counts against
type RateLimitKeyFunc func(*gin.Context) string

// TenantOrIPKey counts authenticated requests per tenant and user, and
// anonymous ones per client address
func TenantOrIPKey(c *gin.Context) string {
	if claims := GetJWTClaims(c); claims != nil {
		return "tenant:" + claims.TenantID + ":" + claims.UserID
	}
	return "ip:" + c.ClientIP()
}

// RateLimit rejects requests over the limiter's window with 429. Limiter
// errors are logged and the request is let through.
func RateLimit(limiter RateLimiter, keyFunc RateLimitKeyFunc, log *zap.Logger) gin.HandlerFunc {
	if keyFunc == nil {
		keyFunc = TenantOrIPKey
	}
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := keyFunc(c)
		allowed, remaining, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("Rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeRateLimited, "Too many requests. Please try again later.", GetRequestID(c)))
			return
		}
		c.Next()
	}
}
