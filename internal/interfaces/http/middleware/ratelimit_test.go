package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMemoryRateLimiter(t *testing.T) {
	rl := NewMemoryRateLimiter(2, time.Minute)
	t.Cleanup(rl.Close)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	ok, remaining, err := rl.Allow(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)

	ok, remaining, _ = rl.Allow(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, 0, remaining)

	ok, _, _ = rl.Allow(ctx, "a")
	assert.False(t, ok)

	ok, _, _ = rl.Allow(ctx, "b")
	assert.True(t, ok, "keys are independent")

	now = now.Add(time.Minute)
	ok, _, _ = rl.Allow(ctx, "a")
	assert.True(t, ok, "window reset")
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, int, error) {
	return false, 0, errors.New("redis down")
}
func (failingLimiter) Limit() int { return 1 }

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewMemoryRateLimiter(1, time.Minute)
	t.Cleanup(rl.Close)

	r := gin.New()
	r.Use(RateLimit(rl, nil, nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := serve(r, http.MethodGet, "/x", nil)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := serve(r, http.MethodGet, "/x", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "ERR_RATE_LIMITED")

	t.Run("fails open", func(t *testing.T) {
		r := gin.New()
		r.Use(RateLimit(failingLimiter{}, nil, nil))
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/x", nil).Code)
	})
}

func TestTenantOrIPKey(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "10.0.0.7:1234"
	assert.Equal(t, "ip:10.0.0.7", TenantOrIPKey(c))

	_, claims := issue(t, testVerifier())
	c.Set(JWTClaimsKey, claims)
	assert.Equal(t, "tenant:"+claims.TenantID+":"+claims.UserID, TenantOrIPKey(c))
}

func TestRedisRateLimiter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })

	rl := NewRedisRateLimiter(client, 2, time.Minute)
	for i, want := range []bool{true, true, false} {
		ok, _, err := rl.Allow(ctx, "tenant:x")
		require.NoError(t, err)
		assert.Equal(t, want, ok, "request %d", i+1)
	}
}
