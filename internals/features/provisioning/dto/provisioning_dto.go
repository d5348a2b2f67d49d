package dto

import (
	"github.com/google/uuid"

	"campusku_backend/internals/helpers/apperr"
)

/* ========== Rows (parsed upstream from the roster spreadsheets) ========== */

type StudentRow struct {
	Email        string `json:"email" validate:"required"`
	FullName     string `json:"fullname" validate:"required,max=120"`
	RollNo       int    `json:"roll_no" validate:"required,gt=0"`
	Year         string `json:"year" validate:"required,oneof=FY SY TY BY"`
	ClassSection string `json:"classSection" validate:"required,max=10"`
}

type FacultyRow struct {
	Email        string `json:"email" validate:"required"`
	Name         string `json:"name" validate:"required,max=120"`
	IsHOD        bool   `json:"isHod"`
	ClassSection string `json:"classSection" validate:"required,max=10"`
	SubjectName  string `json:"subjectName" validate:"required,max=120"`
	FormType     string `json:"formType" validate:"required,oneof=theory practical"`
	Year         string `json:"year" validate:"required,oneof=FY SY TY BY"`
}

/* ========== Requests ========== */

type CreateDepartmentRequest struct {
	Name     string       `json:"name" validate:"required,max=100"`
	Students []StudentRow `json:"students"`
	Faculty  []FacultyRow `json:"faculty"`
}

type AddStudentsRequest struct {
	Students []StudentRow `json:"students" validate:"required"`
}

type AddFacultyRequest struct {
	Faculty []FacultyRow `json:"faculty" validate:"required"`
}

/* ========== Responses ========== */

type DepartmentResponse struct {
	DepartmentID           uuid.UUID  `json:"department_id"`
	DepartmentName         string     `json:"department_name"`
	DepartmentHODTeacherID *uuid.UUID `json:"department_hod_teacher_id,omitempty"`
}

type CreatedIdentity struct {
	UserID    uuid.UUID `json:"user_id"`
	ProfileID uuid.UUID `json:"profile_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
}

// ProvisionResult reports created records separately from skipped duplicates.
type ProvisionResult struct {
	Department       DepartmentResponse `json:"department"`
	Students         []CreatedIdentity  `json:"students"`
	Faculty          []CreatedIdentity  `json:"faculty"`
	OfferingsCreated int                `json:"offerings_created"`

	// rows whose email already had an account before this call
	ExistingSkipped int `json:"existing_skipped"`
	// rows repeating an email seen earlier in the same call
	BatchDuplicates int `json:"batch_duplicates"`

	Rejected []apperr.RowError `json:"rejected"`
}
