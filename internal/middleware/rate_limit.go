// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/atelierprints/catalog-backend/internal/config"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	visitors map[string]*visitor
	mtx      sync.Mutex
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    b,
	}

	// Clean up old visitors every minute
	go rl.cleanupVisitors()

	return rl
}

func (rl *RateLimiter) cleanupVisitors() {
	for {
		time.Sleep(time.Minute)
		rl.mtx.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(rl.visitors, ip)
			}
		}
		rl.mtx.Unlock()
	}
}

func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiter := rl.getVisitor(ip)

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RateLimiterSet groups the per-tier limiters the router wires in. Bursts
// come from configuration; auth and upload tiers refill slower than the
// general tier because their endpoints are the expensive ones.
type RateLimiterSet struct {
	general *RateLimiter
	auth    *RateLimiter
	upload  *RateLimiter
}

func NewRateLimiterSet(cfg config.RateLimitConfig) *RateLimiterSet {
	return &RateLimiterSet{
		general: NewRateLimiter(rate.Every(time.Second), cfg.GeneralBurst),
		auth:    NewRateLimiter(rate.Every(time.Minute), cfg.AuthBurst),
		upload:  NewRateLimiter(rate.Every(time.Minute), cfg.UploadBurst),
	}
}

func (s *RateLimiterSet) General() gin.HandlerFunc {
	return s.general.Middleware()
}

func (s *RateLimiterSet) Auth() gin.HandlerFunc {
	return s.auth.Middleware()
}

func (s *RateLimiterSet) Upload() gin.HandlerFunc {
	return s.upload.Middleware()
}
