package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Locals key holding the verified raw JWT
const LocRawToken = "raw_token"

// GetRawAccessToken returns the bearer token from the Authorization header, falling back
// to the access_token cookie when allowCookie is set.
func GetRawAccessToken(c *fiber.Ctx, allowCookie bool) string {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if fields := strings.Fields(auth); len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
		return strings.Trim(fields[1], "\"'")
	}
	if allowCookie {
		return strings.TrimSpace(c.Cookies("access_token"))
	}
	return ""
}
