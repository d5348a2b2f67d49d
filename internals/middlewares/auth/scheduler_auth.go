package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SchedulerSubject is the "sub" claim the external scheduler signs its tokens with.
const SchedulerSubject = "scheduler"

// SchedulerJWT guards internal job endpoints with a token signed by the shared
// scheduler secret. Without a configured secret every call is rejected.
func SchedulerJWT(secret string) fiber.Handler {
	if strings.TrimSpace(secret) == "" {
		return func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusServiceUnavailable, "scheduler secret is not configured")
		}
	}
	return AuthJWT(AuthJWTOpts{Secret: secret, Subject: SchedulerSubject})
}
