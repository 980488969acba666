package middleware

import (
	"time"

	"campus/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// ContextMiddleware injects request ID and user ID from Fiber locals into the
// request context so the context-aware logger picks them up in deep service
// layers.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		if rid, ok := c.Locals("requestid").(string); ok {
			ctx = observability.WithRequestID(ctx, rid)
		}
		if uid, ok := c.Locals("userID").(uint); ok {
			ctx = observability.WithUserID(ctx, uid)
		}

		c.SetUserContext(ctx)
		return c.Next()
	}
}

// StructuredLogger returns a Fiber middleware for logging requests using slog.
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		latency := time.Since(start)

		fields := []any{
			"status", status,
			"method", c.Method(),
			"path", c.Path(),
			"ip", c.IP(),
			"latency", latency,
			"user_agent", c.Get("User-Agent"),
		}

		// InfoContext/ErrorContext so the ctxHandler can pick up the rid/uid.
		if err != nil {
			fields = append(fields, "error", err.Error())
			observability.Logger.ErrorContext(c.UserContext(), "request failed", fields...)
		} else {
			observability.Logger.InfoContext(c.UserContext(), "request processed", fields...)
		}

		return err
	}
}
