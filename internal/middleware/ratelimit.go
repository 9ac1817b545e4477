// Package middleware provides HTTP middleware for the listings API.
package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// maxBuckets bounds the number of tracked client IPs.
	maxBuckets = 100_000

	bucketMaxAge    = 10 * time.Minute
	cleanupInterval = 5 * time.Minute
)

// RateLimiter is a per-IP token bucket limiter.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64
	burst   float64
	now     func() time.Time
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// NewRateLimiter creates a RateLimiter allowing ratePerSec sustained requests
// per IP with bursts up to burst. Stale buckets are evicted by a background
// goroutine that stops when ctx is cancelled.
func NewRateLimiter(ctx context.Context, ratePerSec, burst int) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    float64(ratePerSec),
		burst:   float64(burst),
		now:     time.Now,
	}
	go rl.startCleanup(ctx)

	return rl
}

// allow takes one token from ip's bucket. ok is false when the limiter is
// at maxBuckets and ip is new.
func (rl *RateLimiter) allow(ip string) (allowed, ok bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	b, exists := rl.buckets[ip]
	if !exists {
		if len(rl.buckets) >= maxBuckets {
			return false, false
		}

		b = &bucket{tokens: rl.burst, lastSeen: now}
		rl.buckets[ip] = b
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * rl.rate
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}

	b.lastSeen = now

	if b.tokens < 1 {
		return false, true
	}

	b.tokens--

	return true, true
}

func (rl *RateLimiter) startCleanup(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for ip, b := range rl.buckets {
				if now.Sub(b.lastSeen) > bucketMaxAge {
					delete(rl.buckets, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Handler returns Gin middleware that applies rate limiting per client IP.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Proxy headers are untrusted (SetTrustedProxies(nil)), so ClientIP is the peer address.
		allowed, ok := rl.allow(c.ClientIP())

		switch {
		case !ok:
			respondError(c, http.StatusTooManyRequests, errCodeRateLimited, "too many clients")
		case !allowed:
			respondError(c, http.StatusTooManyRequests, errCodeRateLimited, "rate limit exceeded")
		default:
			c.Next()
		}
	}
}
