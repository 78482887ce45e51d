package http

import (
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/spec-kit/staff-auth/internal/config"
	apperrors "github.com/spec-kit/staff-auth/pkg/util"
)

// ipRateLimiter keeps one token bucket per client IP. Idle buckets expire
// from the cache so the map does not grow with every address ever seen.
type ipRateLimiter struct {
	limiters   *cache.Cache
	limit      rate.Limit
	burst      int
	idle       time.Duration
	retryAfter int
}

func newIPRateLimiter(cfg config.RateLimitConfig) *ipRateLimiter {
	perMin := cfg.RequestsPerMin
	if perMin <= 0 {
		perMin = 30
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	idle := time.Duration(cfg.IdleEvictMinutes) * time.Minute
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	return &ipRateLimiter{
		limiters:   cache.New(idle, idle),
		limit:      rate.Limit(float64(perMin) / 60),
		burst:      burst,
		idle:       idle,
		retryAfter: int(math.Ceil(60 / float64(perMin))),
	}
}

func (l *ipRateLimiter) get(ip string) *rate.Limiter {
	if v, ok := l.limiters.Get(ip); ok {
		limiter := v.(*rate.Limiter)
		l.limiters.Set(ip, limiter, l.idle)
		return limiter
	}
	limiter := rate.NewLimiter(l.limit, l.burst)
	if err := l.limiters.Add(ip, limiter, l.idle); err != nil {
		// Another request created it first.
		if v, ok := l.limiters.Get(ip); ok {
			return v.(*rate.Limiter)
		}
	}
	return limiter
}

// RateLimitMiddleware throttles requests per client IP. It is a no-op when disabled.
func RateLimitMiddleware(cfg config.RateLimitConfig) fiber.Handler {
	if !cfg.Enabled {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	limiter := newIPRateLimiter(cfg)
	return func(c *fiber.Ctx) error {
		if !limiter.get(c.IP()).Allow() {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(limiter.retryAfter))
			return apperrors.NewTooManyRequests("RATE_LIMITED", "too many requests", limiter.retryAfter)
		}
		return c.Next()
	}
}
