package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"campusku_backend/internals/features/feedback/controller"
	"campusku_backend/internals/features/feedback/repository"
	"campusku_backend/internals/features/feedback/service"
	"campusku_backend/internals/middlewares"
)

func newController(db *gorm.DB) *controller.FeedbackController {
	return controller.NewFeedbackController(service.New(repository.NewGormRepository(db)), validator.New())
}

// Mounted under /api/a
func FeedbackAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := newController(db)

	forms := admin.Group("/feedback-forms")
	forms.Post("/", ctl.CreateForm)                  // POST /api/a/feedback-forms
	forms.Post("/:id/responses", ctl.SubmitResponse) // POST /api/a/feedback-forms/:id/responses
}

// Mounted under /api/internal, behind the scheduler token
func FeedbackInternalRoutes(internal fiber.Router, db *gorm.DB) {
	ctl := newController(db)

	// backlog runs outlast the default request timeout
	internal.Post("/feedback/finalize", middlewares.RequestDeadline(service.FinalizeTimeout), ctl.Finalize) // POST /api/internal/feedback/finalize
}
