package server

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// rateLimiter is a fixed-window in-process limiter. It backs endpoints
// when redis is not configured; with multiple replicas the effective
// limit is per replica.
type rateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	seen   map[string]*windowCounter
}

type windowCounter struct {
	count   int
	resetAt time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:  limit,
		window: window,
		seen:   make(map[string]*windowCounter),
	}
}

func (l *rateLimiter) Allow(key string) bool {
	if l == nil || key == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	counter, ok := l.seen[key]
	if !ok || now.After(counter.resetAt) {
		l.seen[key] = &windowCounter{count: 1, resetAt: now.Add(l.window)}
		l.prune(now)
		return true
	}
	if counter.count >= l.limit {
		return false
	}
	counter.count++
	return true
}

func (l *rateLimiter) prune(now time.Time) {
	if len(l.seen) < 1024 {
		return
	}
	for key, counter := range l.seen {
		if now.After(counter.resetAt) {
			delete(l.seen, key)
		}
	}
}

// RateLimitUnlock throttles unlock attempts per caller, preferring the
// redis bucket when configured.
func (s *Server) RateLimitUnlock() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := callerID(c)

		if s.unlockLimiter.Enabled() {
			result, err := s.unlockLimiter.AllowUser(c.Request.Context(), caller)
			if err != nil {
				// Redis being down should not take unlocks with it.
				c.Next()
				return
			}
			if !result.Allowed {
				AbortWithError(c, ErrTooManyRequests)
				return
			}
			c.Next()
			return
		}

		if !s.localLimiter.Allow(caller) {
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
