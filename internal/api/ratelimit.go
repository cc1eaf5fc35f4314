package api

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"alcyxob/fitgen/internal/apperr"
)

const limiterIdleTTL = 15 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// UserLimiter keeps one token bucket per user. Buckets idle for longer than
// limiterIdleTTL are dropped on the next sweep.
type UserLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	entries   map[string]*limiterEntry
	lastSweep time.Time
	now       func() time.Time
}

// NewUserLimiter returns nil when rps <= 0; a nil limiter allows everything.
func NewUserLimiter(rps float64, burst int) *UserLimiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &UserLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		entries: map[string]*limiterEntry{},
		now:     time.Now,
	}
}

// Allow reports whether key may proceed now.
func (l *UserLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for k, e := range l.entries {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(l.entries, k)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// RateLimit rejects callers over their budget with 429. It must run after AuthMiddleware.
func RateLimit(l *UserLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString(ContextUserIDKey)
		if key == "" {
			key = c.ClientIP()
		}
		if !l.Allow(key) {
			abortWithError(c, apperr.RateLimited("too many generation requests, slow down"))
			return
		}
		c.Next()
	}
}
