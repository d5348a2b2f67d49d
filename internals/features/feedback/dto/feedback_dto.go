package dto

import (
	"time"

	"github.com/google/uuid"
)

/* ========== forms ========== */

type CreateFormRequest struct {
	DepartmentID uuid.UUID   `json:"department_id" validate:"required"`
	Title        string      `json:"title" validate:"required,max=200"`
	Scope        string      `json:"scope" validate:"required,oneof=class department"`
	StartsAt     time.Time   `json:"starts_at" validate:"required"`
	Deadline     time.Time   `json:"deadline" validate:"required"`
	OfferingIDs  []uuid.UUID `json:"class_offering_ids" validate:"omitempty,dive,required"`
}

type FormResponse struct {
	FormID       uuid.UUID   `json:"feedback_form_id"`
	DepartmentID uuid.UUID   `json:"department_id"`
	Title        string      `json:"title"`
	Scope        string      `json:"scope"`
	StartsAt     time.Time   `json:"starts_at"`
	Deadline     time.Time   `json:"deadline"`
	OfferingIDs  []uuid.UUID `json:"class_offering_ids"`
}

/* ========== responses ========== */

// Answer.Value is usually a 1..5 rating; free text is stored but never averaged.
type Answer struct {
	QuestionID string `json:"question_id" validate:"required"`
	Value      any    `json:"value"`
}

type SubmitResponseRequest struct {
	StudentID  uuid.UUID `json:"user_student_id" validate:"required"`
	OfferingID uuid.UUID `json:"class_offering_id" validate:"required"`
	Answers    []Answer  `json:"answers" validate:"required,min=1,dive"`
}

type ResponseCreated struct {
	ResponseID uuid.UUID `json:"feedback_response_id"`
	FormID     uuid.UUID `json:"feedback_form_id"`
	StudentID  uuid.UUID `json:"user_student_id"`
	OfferingID uuid.UUID `json:"class_offering_id"`
	Answers    int       `json:"answers"`
}

/* ========== finalizer ========== */

type FinalizeReport struct {
	Created         int `json:"created"`
	SkippedExisting int `json:"skipped_existing"`
	SkippedEmpty    int `json:"skipped_empty"`
	SkippedRaced    int `json:"skipped_raced"`
}
