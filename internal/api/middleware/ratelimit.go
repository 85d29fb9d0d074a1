package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Vishal25102002/planify/internal/metrics"
)

const (
	// requestsPerSecond is the sustained per-client rate.
	requestsPerSecond = 5
	// burstSize allows short bursts, e.g. the UI loading a sidebar and a
	// conversation at once.
	burstSize = 20
	// clientTTL is how long an idle client entry is kept before cleanup.
	clientTTL = 10 * time.Minute
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-client-IP token bucket to all requests.
// State is held in memory; limits reset on restart, which is acceptable
// for a single-instance service.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	logger  zerolog.Logger
}

// NewRateLimiter creates a RateLimiter and starts its cleanup loop.
func NewRateLimiter(logger zerolog.Logger) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*client),
		logger:  logger,
	}
	go rl.cleanup()
	return rl
}

// Middleware enforces the rate limit. The /metrics and /health
// endpoints are exempt so scraping and probes never get throttled.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.allow(clientIP(r.RemoteAddr)) {
			metrics.RateLimitHits.WithLabelValues(normalizePath(r.URL.Path)).Inc()
			rl.logger.Warn().
				Str("remote_addr", r.RemoteAddr).
				Str("path", r.URL.Path).
				Msg("rate limit exceeded")

			w.Header().Set("Retry-After", "1")
			http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(addr string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[addr]
	if !ok {
		c = &client{limiter: rate.NewLimiter(requestsPerSecond, burstSize)}
		rl.clients[addr] = c
	}
	c.lastSeen = time.Now()
	return c.limiter.Allow()
}

// clientIP strips the port from a remote address. RealIP middleware may
// already have replaced the address with a bare IP.
func clientIP(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// cleanup periodically drops entries for clients that have gone quiet.
func (rl *RateLimiter) cleanup() {
	for range time.Tick(time.Minute) {
		rl.mu.Lock()
		for addr, c := range rl.clients {
			if time.Since(c.lastSeen) > clientTTL {
				delete(rl.clients, addr)
			}
		}
		rl.mu.Unlock()
	}
}
