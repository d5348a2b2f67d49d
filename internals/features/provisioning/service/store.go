package service

import (
	"context"

	"github.com/google/uuid"

	offeringModel "campusku_backend/internals/features/academics/class_offerings/model"
	departmentModel "campusku_backend/internals/features/academics/departments/model"
	"campusku_backend/internals/features/provisioning/identity"
	studentModel "campusku_backend/internals/features/users/user_students/model"
	teacherModel "campusku_backend/internals/features/users/user_teachers/model"
	userModel "campusku_backend/internals/features/users/users/model"
)

// Store runs fn inside one database transaction. A non-nil error from fn rolls back every write.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the write surface available inside a provisioning transaction.
// Lookups that find nothing return an apperr NotFound; unique violations return apperr Conflict.
type Tx interface {
	DepartmentNameTaken(name string) (bool, error)
	CreateDepartment(d *departmentModel.DepartmentModel) error
	GetDepartment(id uuid.UUID) (*departmentModel.DepartmentModel, error)
	// SetDepartmentHOD points the department at teacherID and moves the is_hod flag to it.
	SetDepartmentHOD(departmentID, teacherID uuid.UUID) error
	// ClearDepartmentHOD drops the HOD reference only when it points at teacherID.
	ClearDepartmentHOD(departmentID, teacherID uuid.UUID) error

	ExistingAccounts(emails []string) (map[string]identity.Existing, error)
	CreateAccounts(users []userModel.UserModel) error
	DeleteAccount(userID uuid.UUID) error

	CreateStudents(rows []studentModel.UserStudentModel) error
	GetStudent(id uuid.UUID) (*studentModel.UserStudentModel, error)
	DeleteStudent(id uuid.UUID) error
	// DeleteStudentRecords removes attendance entries and feedback responses of the student.
	DeleteStudentRecords(studentID uuid.UUID) error

	CreateTeachers(rows []teacherModel.UserTeacherModel) error
	TeachersByUserIDs(userIDs []uuid.UUID) (map[uuid.UUID]teacherModel.UserTeacherModel, error)
	GetTeacher(id uuid.UUID) (*teacherModel.UserTeacherModel, error)
	DeleteTeacher(id uuid.UUID) error

	// CreateOfferings skips rows whose natural key already exists and returns how many were inserted.
	CreateOfferings(rows []offeringModel.ClassOfferingModel) (int64, error)
	// DeleteOfferingsByTeacher removes the faculty member's offerings with their sessions and summaries.
	DeleteOfferingsByTeacher(teacherID uuid.UUID) error
}
