// Package middleware holds gin middleware specific to the portfolio API.
package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	defaultCleanupInterval = time.Minute
	defaultIdleTTL         = 3 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimitSettings struct {
	cleanupInterval time.Duration
	idleTTL         time.Duration
	onReject        func()
}

// RateLimitOption tunes RateLimiter.
type RateLimitOption func(*rateLimitSettings)

// OnReject registers a callback run for every rejected request.
func OnReject(fn func()) RateLimitOption {
	return func(s *rateLimitSettings) {
		s.onReject = fn
	}
}

// RateLimiter gives each client IP a token bucket refilled at rps with the
// given burst. Requests without a token get 429. Idle buckets are swept
// until done is closed.
func RateLimiter(rps float64, burst int, done <-chan struct{}, opts ...RateLimitOption) gin.HandlerFunc {
	settings := rateLimitSettings{
		cleanupInterval: defaultCleanupInterval,
		idleTTL:         defaultIdleTTL,
	}
	for _, opt := range opts {
		opt(&settings)
	}

	var mu sync.Mutex
	visitors := make(map[string]*visitor)

	go func() {
		ticker := time.NewTicker(settings.cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				mu.Lock()
				cutoff := time.Now().Add(-settings.idleTTL)
				for ip, v := range visitors {
					if v.lastSeen.Before(cutoff) {
						delete(visitors, ip)
					}
				}
				mu.Unlock()
			}
		}
	}()

	return func(c *gin.Context) {
		ip := remoteIP(c.Request)

		mu.Lock()
		v, exists := visitors[ip]
		if !exists {
			v = &visitor{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
			visitors[ip] = v
		}
		v.lastSeen = time.Now()
		allowed := v.limiter.Allow()
		mu.Unlock()

		if !allowed {
			if settings.onReject != nil {
				settings.onReject()
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

// remoteIP uses the connection address, not forwarding headers, so clients
// cannot pick their own bucket.
func remoteIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || ip == "" {
		return r.RemoteAddr
	}
	return ip
}
