package httpapi

import (
	"log/slog"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/city-weather/internal/ratelimit"
)

const loggerKey = "logger"

// RateLimit is the admission gate: it consults the shared limiter and
// rejects immediately with 429 once the quota is spent. Limiter failures
// reject with 500 rather than letting requests through unmetered.
func RateLimit(limiter ratelimit.Limiter, stats *ratelimit.Stats) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := limiter.TryAcquire(c.UserContext())
		if err != nil {
			logger(c).Error("rate limiter unavailable", "error", err)
			return fiber.ErrInternalServerError
		}
		if stats != nil {
			stats.Record(d)
		}

		if !d.Admitted {
			if d.RetryAfter > 0 {
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
			}
			logger(c).Debug("rate limit exceeded", "retry_after", d.RetryAfter)
			return fiber.ErrTooManyRequests
		}
		return c.Next()
	}
}

// Logger stores a request-scoped logger carrying the request id, which
// the requestid middleware must have set before.
func Logger(base *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := base
		if id, ok := c.Locals("requestid").(string); ok && id != "" {
			l = base.With("request_id", id)
		}
		c.Locals(loggerKey, l)
		return c.Next()
	}
}

func logger(c *fiber.Ctx) *slog.Logger {
	if l, ok := c.Locals(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
