package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	feedbackRoute "campusku_backend/internals/features/feedback/route"
)

func FeedbackAdminRoutes(admin fiber.Router, db *gorm.DB) {
	feedbackRoute.FeedbackAdminRoutes(admin, db)
}

func FeedbackInternalRoutes(internal fiber.Router, db *gorm.DB) {
	feedbackRoute.FeedbackInternalRoutes(internal, db)
}
