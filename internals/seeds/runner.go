package seeds

import (
	"log"

	"gorm.io/gorm"

	"campusku_backend/internals/configs"
	"campusku_backend/internals/seeds/departments"
	"campusku_backend/internals/seeds/users/admins"
)

func RunAllSeeds(db *gorm.DB, cfg configs.EngineConfig) {
	//* Users
	if err := admins.SeedAdminsFromJSON(db, "internals/seeds/users/admins/data_admins.json"); err != nil {
		log.Printf("❌ admin seed failed: %v", err)
	}

	//* Departments
	if err := departments.SeedDepartmentsFromJSON(db, "internals/seeds/departments/data_departments.json", cfg); err != nil {
		log.Printf("❌ department seed failed: %v", err)
	}
}
