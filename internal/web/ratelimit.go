package web

// ratelimit.go implements a fixed-window per-IP request limiter.
//
// Windows are tracked in memory and swept lazily, which is adequate for a
// single-instance deployment; a shared store would be needed behind a load
// balancer.

import (
	"net/http"
	"sync"
	"time"
)

// rateLimiter tracks request counts per client IP in one-minute windows.
type rateLimiter struct {
	limit int

	mu      sync.Mutex
	windows map[string]*rateWindow
}

type rateWindow struct {
	count int
	start time.Time
}

func newRateLimiter(requestsPerMinute int) *rateLimiter {
	return &rateLimiter{
		limit:   requestsPerMinute,
		windows: make(map[string]*rateWindow),
	}
}

// allow records a request for ip and reports whether it is within the limit.
func (l *rateLimiter) allow(ip string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Opportunistic sweep of stale windows to bound memory.
	if len(l.windows) > 10000 {
		for k, w := range l.windows {
			if now.Sub(w.start) > time.Minute {
				delete(l.windows, k)
			}
		}
	}

	w, ok := l.windows[ip]
	if !ok || now.Sub(w.start) > time.Minute {
		l.windows[ip] = &rateWindow{count: 1, start: now}
		return true
	}

	w.count++
	return w.count <= l.limit
}

// middleware rejects requests over the per-IP limit with 429.
func (l *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(r.RemoteAddr) {
			w.Header().Set("Retry-After", "60")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
