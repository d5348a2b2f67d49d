package departments

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"campusku_backend/internals/configs"
	"campusku_backend/internals/features/provisioning/dto"
	"campusku_backend/internals/features/provisioning/repository"
	"campusku_backend/internals/features/provisioning/service"
	"campusku_backend/internals/helpers/apperr"
)

// Provisioner is the part of the provisioning service the seeder drives.
type Provisioner interface {
	CreateDepartment(ctx context.Context, req dto.CreateDepartmentRequest) (*dto.ProvisionResult, error)
}

func LoadDepartmentSeeds(filePath string) ([]dto.CreateDepartmentRequest, error) {
	file, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "reading department seed file")
	}
	var inputs []dto.CreateDepartmentRequest
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		return nil, errors.Wrap(err, "decoding department seed file")
	}
	return inputs, nil
}

// SeedDepartments provisions every department; ones that already exist are skipped.
func SeedDepartments(ctx context.Context, p Provisioner, inputs []dto.CreateDepartmentRequest) (int, error) {
	created := 0
	for _, req := range inputs {
		res, err := p.CreateDepartment(ctx, req)
		if apperr.KindOf(err) == apperr.KindConflict {
			log.Printf("ℹ️ department '%s' already exists, skipped", req.Name)
			continue
		}
		if err != nil {
			return created, errors.Wrapf(err, "seeding department %q", req.Name)
		}
		created++
		log.Printf("✅ department '%s' seeded: students=%d faculty=%d offerings=%d rejected=%d",
			res.Department.DepartmentName, len(res.Students), len(res.Faculty), res.OfferingsCreated, len(res.Rejected))
	}
	return created, nil
}

func SeedDepartmentsFromJSON(db *gorm.DB, filePath string, cfg configs.EngineConfig) error {
	log.Println("📥 Reading department seeds:", filePath)
	inputs, err := LoadDepartmentSeeds(filePath)
	if err != nil {
		return err
	}

	svc := service.New(repository.NewGormStore(db), service.Config{
		DefaultStudentPassword: cfg.DefaultStudentPassword,
		DefaultFacultyPassword: cfg.DefaultFacultyPassword,
		BcryptCost:             cfg.BcryptCost,
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	_, err = SeedDepartments(ctx, svc, inputs)
	return err
}
