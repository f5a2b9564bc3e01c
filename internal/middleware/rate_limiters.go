package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipLimiters tracks one token bucket per client IP. Entries that have not
// been seen for the expiration window are dropped by a background sweep.
type ipLimiters struct {
	mu       sync.Mutex
	buckets  map[string]*ipBucket
	rps      rate.Limit
	burst    int
	lifetime time.Duration
}

type ipBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiters(rps int, burst int, lifetime time.Duration) *ipLimiters {
	return &ipLimiters{
		buckets:  make(map[string]*ipBucket),
		rps:      rate.Limit(rps),
		burst:    burst,
		lifetime: lifetime,
	}
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[ip]
	if !ok {
		b = &ipBucket{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = time.Now()
	return b.limiter
}

func (l *ipLimiters) sweep(interval time.Duration) {
	for range time.Tick(interval) {
		l.mu.Lock()
		for ip, b := range l.buckets {
			if time.Since(b.lastSeen) > l.lifetime {
				delete(l.buckets, ip)
			}
		}
		l.mu.Unlock()
	}
}

// RateLimitByIP limits each client IP to rps requests per second with a
// matching burst. Idle IPs are forgotten after the expiration window.
func RateLimitByIP(rps int, cleanupInterval, expiration time.Duration) gin.HandlerFunc {
	limiters := newIPLimiters(rps, rps, expiration)
	go limiters.sweep(cleanupInterval)

	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
