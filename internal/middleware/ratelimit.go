package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

type bucket struct {
	count int
	until time.Time
}

type rateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	per     time.Duration
	now     func() time.Time
	sweepAt time.Time
}

// allow records a hit for key and reports whether it is within the limit,
// plus how long until the window resets.
func (rl *rateLimiter) allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	if now.After(rl.sweepAt) {
		for k, b := range rl.buckets {
			if now.After(b.until) {
				delete(rl.buckets, k)
			}
		}
		rl.sweepAt = now.Add(rl.per)
	}
	b, ok := rl.buckets[key]
	if !ok || now.After(b.until) {
		b = &bucket{count: 0, until: now.Add(rl.per)}
		rl.buckets[key] = b
	}
	if b.count >= rl.limit {
		return false, b.until.Sub(now)
	}
	b.count++
	return true, 0
}

// RateLimit caps requests per client IP in fixed windows. A non-positive
// limit disables it.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	rl := &rateLimiter{buckets: make(map[string]*bucket), limit: limit, per: per, now: time.Now}
	return rl.middleware
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	if rl.limit <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := rl.allow(clientIPForRateLimit(r))
		if !ok {
			secs := int(wait.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"success":false,"error":"Too many requests","code":"rate_limited"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIPForRateLimit keys on the connection address only. Forwarding
// headers are client controlled; behind a trusted proxy the router rewrites
// RemoteAddr before this runs.
func clientIPForRateLimit(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
