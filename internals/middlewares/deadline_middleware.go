package middlewares

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestDeadline replaces the default request timeout for long-running routes.
// The new context hangs off the connection, not the shorter per-request one.
func RequestDeadline(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
