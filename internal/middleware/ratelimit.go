package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/tour-booking-api/internal/config"
)

// RateLimit returns a middleware enforcing a fixed-window budget per
// client IP. It is mounted on the /api group so the budget covers every
// API route but not health checks. With a Redis client the counters are
// shared across replicas; with rdb == nil they live in a mutex-guarded
// in-process table. Redis errors fail open: a broken limiter backend
// should degrade protection, not availability.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	var counter windowCounter
	if rdb != nil {
		counter = newRedisCounter(rdb)
	} else {
		counter = newMemoryCounter()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			key := cfg.Prefix + ":ip:" + ip

			count, reset, err := counter.Hit(c.Request().Context(), key, cfg.Window)
			if err != nil {
				c.Logger().Warnf("[ratelimit] counter error for key=%s: %v", key, err)
				return next(c)
			}

			remaining := int64(cfg.Max) - count
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Max))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(cfg.Max) {
				secs := int(math.Ceil(reset.Seconds()))
				if secs < 0 {
					secs = 0
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"message":     "Too many requests from this IP, please try again later!",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}
