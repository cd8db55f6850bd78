package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/productdash_api/internal/utils"
)

// WriteRateLimiter limits catalog writes per client IP in fixed one minute windows.
type WriteRateLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	attempts map[string]*attemptInfo
	now      func() time.Time
	stopped  chan struct{}
}

type attemptInfo struct {
	count   int
	firstAt time.Time
}

// NewWriteRateLimiter creates a limiter allowing limit writes per IP per
// minute. Expired entries are swept until ctx is cancelled.
func NewWriteRateLimiter(ctx context.Context, limit int) *WriteRateLimiter {
	rl := &WriteRateLimiter{
		limit:    limit,
		window:   time.Minute,
		attempts: make(map[string]*attemptInfo),
		now:      time.Now,
		stopped:  make(chan struct{}),
	}
	go rl.cleanup(ctx, 5*time.Minute)
	return rl
}

// Allow checks if IP can make another write
func (r *WriteRateLimiter) Allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	info, exists := r.attempts[ip]
	if !exists || now.Sub(info.firstAt) > r.window {
		r.attempts[ip] = &attemptInfo{count: 1, firstAt: now}
		return true
	}

	if info.count >= r.limit {
		return false
	}
	info.count++
	return true
}

func (r *WriteRateLimiter) cleanup(ctx context.Context, every time.Duration) {
	defer close(r.stopped)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

// sweep drops entries whose window has passed.
func (r *WriteRateLimiter) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for ip, info := range r.attempts {
		if now.Sub(info.firstAt) > r.window {
			delete(r.attempts, ip)
		}
	}
}

// WriteRateLimit rejects writes over the limiter's budget with 429.
func WriteRateLimit(rl *WriteRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.Allow(ip) {
			log.Warn().
				Str("request_id", utils.RequestID(c)).
				Str("ip", ip).
				Str("method", c.Request.Method).
				Msg("write rate limit exceeded")
			utils.Error(c, http.StatusTooManyRequests, "Too many write requests")
			return
		}
		c.Next()
	}
}
