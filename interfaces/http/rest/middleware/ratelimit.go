package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// limiter is a per-client token bucket. Buckets refill one token per
// refill interval up to the burst size.
type limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	burst   int
	refill  time.Duration
}

type bucket struct {
	tokens     int
	lastRefill time.Time
}

func newLimiter(burst int, refill time.Duration) *limiter {
	return &limiter{
		buckets: make(map[string]*bucket),
		burst:   burst,
		refill:  refill,
	}
}

func (l *limiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.burst, lastRefill: now}
		l.buckets[key] = b
	}

	if add := int(now.Sub(b.lastRefill) / l.refill); add > 0 {
		b.tokens += add
		if b.tokens > l.burst {
			b.tokens = l.burst
		}
		b.lastRefill = now
	}

	// Stale buckets are reclaimed opportunistically on traffic so no
	// background goroutine is needed.
	for k, old := range l.buckets {
		if now.Sub(old.lastRefill) > time.Hour {
			delete(l.buckets, k)
		}
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

// RateLimit bounds requests per client IP. The completion backend is
// both slow and metered, so its routes get a much lower ceiling than
// the CRUD surface. A non-positive burst disables limiting.
func RateLimit(burst int, refill time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	if burst <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	l := newLimiter(burst, refill)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				key = r.RemoteAddr
			}
			if !l.allow(key) {
				logger.Warn("Rate limit exceeded",
					zap.String("client", key),
					zap.String("path", r.URL.Path),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"RateLimited","message":"Too many requests"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
