package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/medident/linea/logger"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig configures rate limiting
type RateLimitConfig struct {
	RequestsPerMinute int
	KeyFunc           func(c *gin.Context) string
	SkipPaths         []string // Paths to skip rate limiting
}

// DefaultRateLimitConfig returns default rate limit config
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 60,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
		SkipPaths: []string{"/assets/", "/favicon.ico"},
	}
}

// shouldSkip checks if path should be skipped
func (config RateLimitConfig) shouldSkip(path string) bool {
	for _, skipPath := range config.SkipPaths {
		if len(path) >= len(skipPath) && path[:len(skipPath)] == skipPath {
			return true
		}
	}
	return false
}

type rateWindow struct {
	count   int
	resetAt time.Time
}

type rateCounter struct {
	mu      sync.Mutex
	windows map[string]*rateWindow
}

// hit counts one request against the key's current minute window and
// reports the window state.
func (r *rateCounter) hit(key string, limit int, now time.Time) (count int, resetAt time.Time, allowed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &rateWindow{resetAt: now.Add(time.Minute)}
		r.windows[key] = w
	}
	if w.count >= limit {
		return w.count, w.resetAt, false
	}
	w.count++
	return w.count, w.resetAt, true
}

// RateLimitMiddleware creates rate limiting middleware backed by an
// in-memory per-key minute window.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	counter := &rateCounter{windows: make(map[string]*rateWindow)}

	return func(c *gin.Context) {
		// Skip rate limiting for certain paths
		if config.shouldSkip(c.Request.URL.Path) {
			c.Next()
			return
		}

		key := config.KeyFunc(c) + ":" + c.Request.URL.Path
		count, resetAt, allowed := counter.hit(key, config.RequestsPerMinute, time.Now())
		if !allowed {
			logger.Warningf("Rate limit exceeded for %s (count: %d)", key, count)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"msg":     "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(config.RequestsPerMinute-count))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		c.Next()
	}
}
