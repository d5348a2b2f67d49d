package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"campusku_backend/internals/configs"
	"campusku_backend/internals/features/attendance/controller"
	"campusku_backend/internals/features/attendance/repository"
	"campusku_backend/internals/features/attendance/service"
)

// Mounted under /api/a. A nil summaries disables the read cache.
func AttendanceAdminRoutes(admin fiber.Router, db *gorm.DB, cfg configs.EngineConfig, summaries *cache.Cache) {
	split := service.BatchSplit{Midpoint: cfg.BatchMidpoint, FYCutoffs: cfg.FYBatchCutoffs}
	svc := service.NewWithCache(repository.NewGormRepository(db), split, summaries)
	ctl := controller.NewAttendanceController(svc, validator.New())

	admin.Get("/students/:id/attendance-summary", ctl.StudentSummary)         // GET  /api/a/students/:id/attendance-summary
	admin.Get("/offerings/:id/attendance-summary", ctl.OfferingSummary)       // GET  /api/a/offerings/:id/attendance-summary
	admin.Post("/offerings/:id/sessions", ctl.CreateSession)                  // POST /api/a/offerings/:id/sessions
	admin.Get("/departments/:id/attendance-summary", ctl.DepartmentSummaries) // GET  /api/a/departments/:id/attendance-summary
	admin.Get("/departments/:id/class-roster", ctl.ClassRoster)               // GET  /api/a/departments/:id/class-roster
}
