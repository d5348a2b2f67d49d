package controller

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"campusku_backend/internals/features/provisioning/dto"
	"campusku_backend/internals/features/provisioning/service"
	helper "campusku_backend/internals/helpers"
)

type ProvisioningController struct {
	Svc      *service.Service
	Validate *validator.Validate
}

func NewProvisioningController(svc *service.Service, v *validator.Validate) *ProvisioningController {
	return &ProvisioningController{Svc: svc, Validate: v}
}

// POST /api/a/departments
func (ctl *ProvisioningController) CreateDepartment(c *fiber.Ctx) error {
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctl.Validate.Var(req.Name, "required,max=100"); err != nil {
		return helper.JsonValidationError(c, "", map[string][]string{"name": {"required"}})
	}

	log.Printf("[PROVISION] actor=%s create department %q students=%d faculty=%d",
		helper.ActorLabel(c), req.Name, len(req.Students), len(req.Faculty))
	res, err := ctl.Svc.CreateDepartment(c.UserContext(), req)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "department created", res)
}

// POST /api/a/departments/:id/students
func (ctl *ProvisioningController) AddStudents(c *fiber.Ctx) error {
	deptID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	var req dto.AddStudentsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, "", helper.ValidationErrors(err))
	}

	res, err := ctl.Svc.AddStudents(c.UserContext(), deptID, req.Students)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "students provisioned", fiber.Map{
		"created":          len(res.Students),
		"existing_skipped": res.ExistingSkipped,
		"batch_duplicates": res.BatchDuplicates,
		"students":         res.Students,
		"rejected":         res.Rejected,
	})
}

// POST /api/a/departments/:id/faculty
func (ctl *ProvisioningController) AddFaculty(c *fiber.Ctx) error {
	deptID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	var req dto.AddFacultyRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, "", helper.ValidationErrors(err))
	}

	res, err := ctl.Svc.AddFaculty(c.UserContext(), deptID, req.Faculty)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "faculty provisioned", res)
}

// DELETE /api/a/students/:id
func (ctl *ProvisioningController) RemoveStudent(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	log.Printf("[PROVISION] actor=%s remove student=%s", helper.ActorLabel(c), id)
	if err := ctl.Svc.RemoveStudent(c.UserContext(), id); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "student removed", fiber.Map{"user_student_id": id})
}

// DELETE /api/a/faculty/:id
func (ctl *ProvisioningController) RemoveFaculty(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	log.Printf("[PROVISION] actor=%s remove faculty=%s", helper.ActorLabel(c), id)
	if err := ctl.Svc.RemoveFaculty(c.UserContext(), id); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "faculty removed", fiber.Map{"user_teacher_id": id})
}
