package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"portfolio/api/logger"
	"portfolio/api/metrics"
)

// IPRateLimiter keeps one token bucket per client IP. Idle buckets are dropped by a
// background sweep until Stop is called.
type IPRateLimiter struct {
	rate  rate.Limit
	burst int

	limiters   sync.Map // map[string]*rate.Limiter
	lastAccess sync.Map // map[string]time.Time

	maxAge time.Duration
	stop   chan struct{}
	once   sync.Once
}

func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	l := &IPRateLimiter{
		rate:   rate.Limit(rps),
		burst:  burst,
		maxAge: 10 * time.Minute,
		stop:   make(chan struct{}),
	}
	go l.cleanup(5 * time.Minute)
	return l
}

func (l *IPRateLimiter) Allow(key string) bool {
	now := time.Now()
	l.lastAccess.Store(key, now)
	return l.limiter(key).AllowN(now, 1)
}

func (l *IPRateLimiter) limiter(key string) *rate.Limiter {
	if existing, ok := l.limiters.Load(key); ok {
		return existing.(*rate.Limiter)
	}
	actual, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.rate, l.burst))
	return actual.(*rate.Limiter)
}

func (l *IPRateLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep(time.Now().Add(-l.maxAge))
		case <-l.stop:
			return
		}
	}
}

func (l *IPRateLimiter) sweep(cutoff time.Time) int {
	removed := 0
	l.lastAccess.Range(func(key, value any) bool {
		if value.(time.Time).Before(cutoff) {
			l.limiters.Delete(key)
			l.lastAccess.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

func (l *IPRateLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// RateLimit rejects requests with 429 once the client IP exhausts its bucket.
func RateLimit(l *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.Allow(c.ClientIP()) {
			c.Next()
			return
		}

		metrics.RateLimited.WithLabelValues(c.FullPath()).Inc()
		logger.Warn().Str("client_ip", c.ClientIP()).Str("route", c.FullPath()).Msg("Rate limit exceeded")
		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
	}
}
