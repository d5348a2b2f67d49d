package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"campusku_backend/internals/configs"
	"campusku_backend/internals/features/provisioning/controller"
	"campusku_backend/internals/features/provisioning/repository"
	"campusku_backend/internals/features/provisioning/service"
	"campusku_backend/internals/middlewares"
)

// Mounted under /api/a
func ProvisioningAdminRoutes(admin fiber.Router, db *gorm.DB, cfg configs.EngineConfig, summaries *cache.Cache) {
	svc := service.New(repository.NewGormStore(db), service.Config{
		DefaultStudentPassword: cfg.DefaultStudentPassword,
		DefaultFacultyPassword: cfg.DefaultFacultyPassword,
		BcryptCost:             cfg.BcryptCost,
	})
	if summaries != nil {
		svc.WithSummaryInvalidator(summaries)
	}
	ctl := controller.NewProvisioningController(svc, validator.New())

	// per route: /departments also carries attendance reads
	upload := middlewares.ProvisioningRateLimiter()

	dept := admin.Group("/departments")
	dept.Post("/", upload, ctl.CreateDepartment)        // POST   /api/a/departments
	dept.Post("/:id/students", upload, ctl.AddStudents) // POST   /api/a/departments/:id/students
	dept.Post("/:id/faculty", upload, ctl.AddFaculty)   // POST   /api/a/departments/:id/faculty

	admin.Delete("/students/:id", ctl.RemoveStudent) // DELETE /api/a/students/:id
	admin.Delete("/faculty/:id", ctl.RemoveFaculty)  // DELETE /api/a/faculty/:id
}
