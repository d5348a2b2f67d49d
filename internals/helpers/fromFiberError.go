package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// FromFiberError renders whatever a handler or middleware returned in the standard
// envelope. Used as the app ErrorHandler.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonAppError(c, err)
}
