package model

import (
	"time"

	"github.com/google/uuid"
)

type DepartmentModel struct {
	DepartmentID   uuid.UUID `json:"department_id" gorm:"type:uuid;primaryKey;column:department_id"`
	DepartmentName string    `json:"department_name" gorm:"type:varchar(100);not null;column:department_name;uniqueIndex:uq_departments_name"`

	// at most one HOD; cleared when that faculty profile is removed
	DepartmentHODTeacherID *uuid.UUID `json:"department_hod_teacher_id,omitempty" gorm:"type:uuid;column:department_hod_teacher_id"`

	DepartmentCreatedAt time.Time `json:"department_created_at" gorm:"column:department_created_at;autoCreateTime"`
	DepartmentUpdatedAt time.Time `json:"department_updated_at" gorm:"column:department_updated_at;autoUpdateTime"`
}

func (DepartmentModel) TableName() string { return "departments" }
