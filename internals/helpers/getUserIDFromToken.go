package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetUserIDFromToken reads the user id the JWT middleware stored in Locals("user_id").
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	switch t := c.Locals("user_id").(type) {
	case uuid.UUID:
		if t != uuid.Nil {
			return t, nil
		}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			break
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "user id in token is invalid")
		}
		return id, nil
	}
	return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "not logged in")
}

// ActorLabel is the caller id for audit log lines, "-" when unknown.
func ActorLabel(c *fiber.Ctx) string {
	if id, err := GetUserIDFromToken(c); err == nil {
		return id.String()
	}
	return "-"
}
