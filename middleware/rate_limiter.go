package middleware

import (
	"net/http"
	"sync"
	"time"

	"api/config"
	"api/metrics"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a per-IP token bucket refilled once per interval
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rate     int           // Tokens added per interval
	burst    int           // Burst capacity
	interval time.Duration // Refill interval
}

type visitor struct {
	tokens      int
	lastUpdated time.Time
}

func NewRateLimiter(rate int, burst int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		burst:    burst,
		interval: time.Minute,
	}
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{tokens: rl.burst, lastUpdated: time.Now()}
		rl.visitors[ip] = v
	}

	// Refill tokens
	now := time.Now()
	refill := int(now.Sub(v.lastUpdated) / rl.interval)
	if refill > 0 {
		v.tokens += refill * rl.rate
		if v.tokens > rl.burst {
			v.tokens = rl.burst
		}
		v.lastUpdated = now
	}

	if v.tokens > 0 {
		v.tokens--
		return true
	}
	return false
}

func RateLimiterMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.Allow(ip) {
			// Record rate limiter rejection in metrics
			metrics.RateLimiterRejections.WithLabelValues(ip).Inc()

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please try again later.",
			})
			return
		}
		c.Next()
	}
}

// SubmissionLimiter applies the progressive cooldowns from
// config.RateLimitConfig to rating submissions, keyed by user id
type SubmissionLimiter struct {
	mu       sync.Mutex
	cfg      config.RateLimitConfig
	attempts map[string]*submissionState
}

type submissionState struct {
	count         int
	cooldownUntil time.Time
}

func NewSubmissionLimiter(cfg config.RateLimitConfig) *SubmissionLimiter {
	return &SubmissionLimiter{
		cfg:      cfg,
		attempts: make(map[string]*submissionState),
	}
}

// Allow records one submission attempt and reports whether it may proceed
func (sl *SubmissionLimiter) Allow(userID string) bool {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	now := time.Now()
	state, exists := sl.attempts[userID]
	if !exists {
		state = &submissionState{}
		sl.attempts[userID] = state
	}

	if now.Before(state.cooldownUntil) {
		return false
	}

	state.count++
	switch {
	case state.count == sl.cfg.AttemptsThreshold2:
		state.cooldownUntil = now.Add(sl.cfg.CooldownDuration2)
		state.count = 0
	case state.count == sl.cfg.AttemptsThreshold1:
		state.cooldownUntil = now.Add(sl.cfg.CooldownDuration1)
	}
	return true
}

func SubmissionLimiterMiddleware(sl *SubmissionLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetUserFromRequest(c)
		if err != nil {
			return
		}
		if !sl.Allow(user.ID) {
			metrics.RateLimiterRejections.WithLabelValues(c.ClientIP()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many submissions. Please try again later.",
			})
			return
		}
		c.Next()
	}
}
