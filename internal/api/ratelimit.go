package api

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/anatolykoptev/go_recap/internal/pipeline"
)

// keyedLimiter hands out one token bucket per client key. Buckets idle for
// longer than idleTTL are evicted by a background sweep until Stop.
type keyedLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newKeyedLimiter allows perInterval requests per interval per key, with burst
// requests available at once.
func newKeyedLimiter(perInterval int, interval time.Duration, burst int) *keyedLimiter {
	if burst <= 0 {
		burst = 1
	}
	k := &keyedLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Limit(float64(perInterval) / interval.Seconds()),
		burst:    burst,
		idleTTL:  2 * interval,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go k.cleanup(interval)
	return k
}

// Allow reports whether a request for key may proceed now.
func (k *keyedLimiter) Allow(key string) bool {
	k.mu.Lock()
	c, ok := k.limiters[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.limiters[key] = c
	}
	c.lastSeen = k.now()
	k.mu.Unlock()
	return c.limiter.Allow()
}

// Len is the number of tracked keys.
func (k *keyedLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.limiters)
}

// Stop shuts down the cleanup goroutine.
func (k *keyedLimiter) Stop() {
	k.stopOnce.Do(func() {
		close(k.done)
	})
}

func (k *keyedLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-k.done:
			return
		case <-ticker.C:
			k.evictIdle()
		}
	}
}

// evictIdle drops buckets not used within idleTTL. A bucket idle that long has
// refilled, so dropping it changes no client's budget.
func (k *keyedLimiter) evictIdle() int {
	cutoff := k.now().Add(-k.idleTTL)
	k.mu.Lock()
	defer k.mu.Unlock()
	n := 0
	for key, c := range k.limiters {
		if c.lastSeen.Before(cutoff) {
			delete(k.limiters, key)
			n++
		}
	}
	return n
}

// rateLimit rejects clients over their budget with a 429 envelope.
func rateLimit(limiter *keyedLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			if !limiter.Allow(key) {
				logger.Warn("api: rate limit exceeded", slog.String("ip", key), slog.String("path", r.URL.Path))
				writeJSON(w, http.StatusTooManyRequests,
					pipeline.Reject("Too many requests. Please try again later."), logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the host part of RemoteAddr. Forwarding headers are honored only
// through middleware.RealIP, which rewrites RemoteAddr when TrustProxy is set.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
