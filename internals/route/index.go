// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"campusku_backend/internals/configs"
	"campusku_backend/internals/constants"
	attendanceService "campusku_backend/internals/features/attendance/service"
	"campusku_backend/internals/middlewares"
	authMiddleware "campusku_backend/internals/middlewares/auth"
	routeDetails "campusku_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg configs.EngineConfig) {
	startTime = time.Now()

	BaseRoutes(app, db)

	api := app.Group("/api", middlewares.GlobalRateLimiter())

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := api.Group("/a",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
		}),
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("campus administration"), constants.AdminOnly...),
	)

	// ===================== INTERNAL (scheduler) =====================
	log.Println("[INFO] Setting up INTERNAL group (scheduler token)...")
	internal := api.Group("/internal",
		middlewares.InternalRateLimiter(),
		authMiddleware.SchedulerJWT(configs.SchedulerSecret),
	)

	// attendance reads cache here; provisioning flushes it on roster changes
	summaries := attendanceService.NewSummaryCache(cfg.SummaryCacheTTL)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting Provisioning routes...")
	routeDetails.ProvisioningAdminRoutes(admin, db, cfg, summaries)

	log.Println("[INFO] Mounting Attendance routes...")
	routeDetails.AttendanceAdminRoutes(admin, db, cfg, summaries)

	log.Println("[INFO] Mounting Feedback routes...")
	routeDetails.FeedbackAdminRoutes(admin, db)
	routeDetails.FeedbackInternalRoutes(internal, db)
}
