package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/soundvest/soundvest-api/internal/config"
)

// NewLoginLimiter returns a middleware enforcing a fixed window of
// cfg.MaxAttempts requests per cfg.Window, keyed by client IP. With a Redis
// client the window is shared across instances (INCR + EXPIRE); without one
// an in-process window is used. Exceeding the window yields 429 with a
// Retry-After header, a failure deliberately distinct from the 401 that
// wrong credentials produce.
func NewLoginLimiter(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	var local *fixedWindowLimiter
	if rdb == nil {
		local = newFixedWindowLimiter(cfg.MaxAttempts, cfg.Window)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			key := cfg.Prefix + ":ip:" + ip

			var (
				allowed    bool
				retryAfter time.Duration
			)
			if rdb != nil {
				ctx := c.Request().Context()
				count, err := rdb.Incr(ctx, key).Result()
				if err != nil {
					// Redis trouble must not lock admins out.
					return next(c)
				}
				if count == 1 {
					_ = rdb.Expire(ctx, key, cfg.Window).Err()
				}
				allowed = count <= int64(cfg.MaxAttempts)
				if !allowed {
					if ttl, err := rdb.TTL(ctx, key).Result(); err == nil && ttl > 0 {
						retryAfter = ttl
					} else {
						retryAfter = cfg.Window
					}
				}
			} else {
				allowed, retryAfter = local.Allow(key)
			}

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.MaxAttempts))
			if !allowed {
				secs := int(math.Ceil(retryAfter.Seconds()))
				if secs < 0 {
					secs = 0
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

// fixedWindowLimiter is the single-process fallback used when no Redis is
// configured. Counters reset when their window elapses; stale buckets are
// dropped lazily on access.
type fixedWindowLimiter struct {
	mu      sync.Mutex
	win     time.Duration
	max     int
	buckets map[string]*bucket
}

type bucket struct {
	count   int
	resetAt time.Time
}

func newFixedWindowLimiter(max int, window time.Duration) *fixedWindowLimiter {
	return &fixedWindowLimiter{
		win:     window,
		max:     max,
		buckets: make(map[string]*bucket),
	}
}

// Allow counts a request against the key's current window. It returns
// whether the request is within the limit and, when it is not, how long
// until the window resets.
func (l *fixedWindowLimiter) Allow(key string) (bool, time.Duration) {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.buckets[key]
	if b == nil || now.After(b.resetAt) {
		b = &bucket{resetAt: now.Add(l.win)}
		l.buckets[key] = b
		// opportunistic cleanup keeps the map from growing unbounded
		for k, old := range l.buckets {
			if now.After(old.resetAt) {
				delete(l.buckets, k)
			}
		}
	}
	b.count++
	if b.count <= l.max {
		return true, 0
	}
	return false, time.Until(b.resetAt)
}
