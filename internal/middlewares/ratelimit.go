package middlewares

import (
	"net/http"
	"sync"
	"time"
)

type limiterEntry struct {
	tokens     float64
	lastAccess time.Time
}

// RateLimiter is a token bucket per caller, keyed by the authenticated
// user (falling back to remote address for unauthenticated routes).
type RateLimiter struct {
	mu                sync.Mutex
	store             map[string]*limiterEntry
	requestsPerMinute int
}

func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	return &RateLimiter{
		store:             make(map[string]*limiterEntry),
		requestsPerMinute: requestsPerMinute,
	}
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if claims := GetClaims(r.Context()); claims != nil {
			key = claims.UserID
		}

		if !l.allow(key) {
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) allow(key string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, exists := l.store[key]
	if !exists {
		l.store[key] = &limiterEntry{
			tokens:     float64(l.requestsPerMinute) - 1,
			lastAccess: now,
		}
		return true
	}

	elapsed := now.Sub(entry.lastAccess).Minutes()
	entry.tokens += elapsed * float64(l.requestsPerMinute)
	if entry.tokens > float64(l.requestsPerMinute) {
		entry.tokens = float64(l.requestsPerMinute)
	}
	entry.lastAccess = now

	if entry.tokens < 1 {
		return false
	}
	entry.tokens--
	return true
}
