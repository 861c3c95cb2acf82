package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func limitedRouter(rl *RateLimiter, userID uuid.UUID) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func newTestLimiter(t *testing.T, burst int) *RateLimiter {
	rl := NewRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         burst,
		CleanupInterval:   time.Hour,
		EntryTTL:          time.Minute,
	})
	t.Cleanup(rl.Stop)
	return rl
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	rl := newTestLimiter(t, 2)
	r := limitedRouter(rl, uuid.New())

	for i := 0; i < 2; i++ {
		w := perform(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := perform(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestRateLimiterIsPerUser(t *testing.T) {
	rl := newTestLimiter(t, 1)
	alice := limitedRouter(rl, uuid.New())
	bob := limitedRouter(rl, uuid.New())

	assert.Equal(t, http.StatusOK, perform(alice, httptest.NewRequest(http.MethodGet, "/ping", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(alice, httptest.NewRequest(http.MethodGet, "/ping", nil)).Code)
	assert.Equal(t, http.StatusOK, perform(bob, httptest.NewRequest(http.MethodGet, "/ping", nil)).Code)
	assert.Equal(t, 2, rl.size())
}

func TestRateLimiterFallsBackToClientIP(t *testing.T) {
	rl := newTestLimiter(t, 1)
	r := limitedRouter(rl, uuid.Nil)

	first := httptest.NewRequest(http.MethodGet, "/ping", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	other := httptest.NewRequest(http.MethodGet, "/ping", nil)
	other.RemoteAddr = "10.0.0.2:1234"

	assert.Equal(t, http.StatusOK, perform(r, first).Code)
	assert.Equal(t, http.StatusOK, perform(r, other).Code)

	again := httptest.NewRequest(http.MethodGet, "/ping", nil)
	again.RemoteAddr = "10.0.0.1:5678"
	assert.Equal(t, http.StatusTooManyRequests, perform(r, again).Code)
}

func TestRateLimiterCleanupDropsStaleEntries(t *testing.T) {
	rl := newTestLimiter(t, 1)
	rl.getLimiter("user:stale")

	rl.cleanup(time.Now())
	assert.Equal(t, 1, rl.size())

	rl.cleanup(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, rl.size())
}

func TestRateLimiterConfigFor(t *testing.T) {
	cfg := RateLimiterConfigFor(100, 60)
	assert.InDelta(t, 100.0/60.0, cfg.RequestsPerSecond, 1e-9)
	assert.Equal(t, 100, cfg.BurstSize)

	cfg = RateLimiterConfigFor(0, 0)
	assert.Equal(t, 1.0, cfg.RequestsPerSecond)
	assert.Equal(t, 1, cfg.BurstSize)
}
