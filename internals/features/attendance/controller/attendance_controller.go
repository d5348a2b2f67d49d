package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"campusku_backend/internals/features/attendance/dto"
	"campusku_backend/internals/features/attendance/service"
	helper "campusku_backend/internals/helpers"
)

type AttendanceController struct {
	Svc      *service.Service
	Validate *validator.Validate
}

func NewAttendanceController(svc *service.Service, v *validator.Validate) *AttendanceController {
	return &AttendanceController{Svc: svc, Validate: v}
}

// GET /api/a/students/:id/attendance-summary
func (ctl *AttendanceController) StudentSummary(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	res, err := ctl.Svc.StudentSummary(c.UserContext(), id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "attendance summary", res)
}

// GET /api/a/offerings/:id/attendance-summary
func (ctl *AttendanceController) OfferingSummary(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	res, err := ctl.Svc.OfferingSummary(c.UserContext(), id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "attendance summary", res)
}

// GET /api/a/departments/:id/attendance-summary
func (ctl *AttendanceController) DepartmentSummaries(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	res, err := ctl.Svc.DepartmentSummaries(c.UserContext(), id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "attendance summary", res)
}

// GET /api/a/departments/:id/class-roster?section=A1&year=SY
func (ctl *AttendanceController) ClassRoster(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	section := strings.TrimSpace(c.Query("section"))
	year := strings.ToUpper(strings.TrimSpace(c.Query("year")))
	if section == "" || year == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "section and year are required")
	}

	res, err := ctl.Svc.ClassRoster(c.UserContext(), id, section, year)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "class roster", res)
}

// POST /api/a/offerings/:id/sessions
func (ctl *AttendanceController) CreateSession(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, "", helper.ValidationErrors(err))
	}

	res, err := ctl.Svc.CreateSession(c.UserContext(), id, req)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "session recorded", res)
}
