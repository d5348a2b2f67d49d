package admins

import (
	"log"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campusku_backend/internals/constants"
	userModel "campusku_backend/internals/features/users/users/model"
	helper "campusku_backend/internals/helpers"
)

type AdminSeed struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoadAdminSeeds reads and normalizes the seed file; invalid entries fail the whole load.
func LoadAdminSeeds(filePath string) ([]AdminSeed, error) {
	file, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "reading admin seed file")
	}
	var inputs []AdminSeed
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		return nil, errors.Wrap(err, "decoding admin seed file")
	}

	v := validator.New()
	for i := range inputs {
		inputs[i].Email = helper.NormalizeEmail(inputs[i].Email)
		inputs[i].FullName = strings.TrimSpace(inputs[i].FullName)
		if err := v.Struct(inputs[i]); err != nil {
			return nil, errors.Wrapf(err, "admin seed #%d", i)
		}
	}
	return inputs, nil
}

// SeedAdminsFromJSON creates admin accounts; emails that already exist are left untouched.
func SeedAdminsFromJSON(db *gorm.DB, filePath string) error {
	log.Println("📥 Reading admin seeds:", filePath)

	inputs, err := LoadAdminSeeds(filePath)
	if err != nil {
		return err
	}

	for _, data := range inputs {
		hashed, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
		if err != nil {
			return errors.Wrapf(err, "hashing password for %s", data.Email)
		}
		u := userModel.UserModel{
			ID:           uuid.New(),
			Email:        data.Email,
			PasswordHash: string(hashed),
			Role:         constants.RoleAdmin,
			FullName:     data.FullName,
			IsActive:     true,
		}
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&u)
		if res.Error != nil {
			return errors.Wrapf(res.Error, "inserting admin %s", data.Email)
		}
		if res.RowsAffected == 0 {
			log.Printf("ℹ️ admin '%s' already exists, skipped", data.Email)
			continue
		}
		log.Printf("✅ admin '%s' created", data.Email)
	}
	return nil
}
