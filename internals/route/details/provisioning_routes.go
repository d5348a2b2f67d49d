package details

import (
	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"campusku_backend/internals/configs"
	provisioningRoute "campusku_backend/internals/features/provisioning/route"
)

func ProvisioningAdminRoutes(admin fiber.Router, db *gorm.DB, cfg configs.EngineConfig, summaries *cache.Cache) {
	provisioningRoute.ProvisioningAdminRoutes(admin, db, cfg, summaries)
}
