package details

import (
	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"campusku_backend/internals/configs"
	attendanceRoute "campusku_backend/internals/features/attendance/route"
)

func AttendanceAdminRoutes(admin fiber.Router, db *gorm.DB, cfg configs.EngineConfig, summaries *cache.Cache) {
	attendanceRoute.AttendanceAdminRoutes(admin, db, cfg, summaries)
}
