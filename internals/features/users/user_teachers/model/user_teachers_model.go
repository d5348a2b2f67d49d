// file: internals/features/users/user_teachers/model/user_teachers_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type UserTeacherModel struct {
	// PK & FK
	UserTeacherID           uuid.UUID `json:"user_teacher_id" gorm:"type:uuid;primaryKey;column:user_teacher_id"`
	UserTeacherUserID       uuid.UUID `json:"user_teacher_user_id" gorm:"type:uuid;not null;column:user_teacher_user_id;uniqueIndex:uq_user_teachers_user"`
	UserTeacherDepartmentID uuid.UUID `json:"user_teacher_department_id" gorm:"type:uuid;not null;column:user_teacher_department_id;index"`

	UserTeacherName  string `json:"user_teacher_name" gorm:"type:varchar(120);not null;column:user_teacher_name"`
	UserTeacherIsHOD bool   `json:"user_teacher_is_hod" gorm:"not null;default:false;column:user_teacher_is_hod"`

	// Audit
	UserTeacherCreatedAt time.Time `json:"user_teacher_created_at" gorm:"column:user_teacher_created_at;autoCreateTime"`
	UserTeacherUpdatedAt time.Time `json:"user_teacher_updated_at" gorm:"column:user_teacher_updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (UserTeacherModel) TableName() string { return "user_teachers" }
