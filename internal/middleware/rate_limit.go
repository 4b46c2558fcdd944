package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/khatias/rdbr-project/internal/pkg/apperror"
	"github.com/khatias/rdbr-project/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterPruneThreshold = 10000
	limiterIdleTTL        = 10 * time.Minute
)

var ErrTooManyRequests = apperror.New(
	apperror.CodeTooManyRequests,
	"Too many requests, please slow down",
	http.StatusTooManyRequests,
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type keyedLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	limit   rate.Limit
	burst   int
}

func newKeyedLimiter(rps float64, burst int) *keyedLimiter {
	return &keyedLimiter{
		entries: make(map[string]*limiterEntry),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

func (k *keyedLimiter) allow(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := time.Now()
	if len(k.entries) > limiterPruneThreshold {
		for ek, e := range k.entries {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(k.entries, ek)
			}
		}
	}

	e, ok := k.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.Allow()
}

func rejectTooMany(c *gin.Context) {
	response.Error(c, ErrTooManyRequests.HTTPStatus, ErrTooManyRequests.Code, ErrTooManyRequests.Message, nil)
	c.Abort()
}

// RateLimitByIP allows rps requests per second per client IP with the given burst.
func RateLimitByIP(rps float64, burst int) gin.HandlerFunc {
	limiter := newKeyedLimiter(rps, burst)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			rejectTooMany(c)
			return
		}
		c.Next()
	}
}

// RateLimitBySession limits per session key, falling back to the client IP
// for guests.
func RateLimitBySession(rps float64, burst int) gin.HandlerFunc {
	limiter := newKeyedLimiter(rps, burst)
	return func(c *gin.Context) {
		key := SessionKeyFrom(c)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}
		if !limiter.allow(key) {
			rejectTooMany(c)
			return
		}
		c.Next()
	}
}
