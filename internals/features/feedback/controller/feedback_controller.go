package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"campusku_backend/internals/features/feedback/dto"
	"campusku_backend/internals/features/feedback/service"
	helper "campusku_backend/internals/helpers"
)

type FeedbackController struct {
	Svc      *service.Service
	Validate *validator.Validate
}

func NewFeedbackController(svc *service.Service, v *validator.Validate) *FeedbackController {
	return &FeedbackController{Svc: svc, Validate: v}
}

// POST /api/a/feedback-forms
func (ctl *FeedbackController) CreateForm(c *fiber.Ctx) error {
	var req dto.CreateFormRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, "", helper.ValidationErrors(err))
	}

	res, err := ctl.Svc.CreateForm(c.UserContext(), req)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "feedback form created", res)
}

// POST /api/a/feedback-forms/:id/responses
func (ctl *FeedbackController) SubmitResponse(c *fiber.Ctx) error {
	formID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	var req dto.SubmitResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, "", helper.ValidationErrors(err))
	}

	res, err := ctl.Svc.SubmitResponse(c.UserContext(), formID, req)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "feedback recorded", res)
}

// POST /api/internal/feedback/finalize
func (ctl *FeedbackController) Finalize(c *fiber.Ctx) error {
	report, err := ctl.Svc.FinalizeExpiredForms(c.UserContext(), time.Now())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "feedback finalized", report)
}
