package model

import (
	"time"

	"github.com/google/uuid"
)

type UserStudentModel struct {
	UserStudentID           uuid.UUID `json:"user_student_id" gorm:"type:uuid;primaryKey;column:user_student_id"`
	UserStudentUserID       uuid.UUID `json:"user_student_user_id" gorm:"type:uuid;not null;column:user_student_user_id;uniqueIndex:uq_user_students_user"`
	UserStudentDepartmentID uuid.UUID `json:"user_student_department_id" gorm:"type:uuid;not null;column:user_student_department_id;index:idx_user_students_roster,priority:1"`

	UserStudentFullName     string `json:"user_student_full_name" gorm:"type:varchar(120);not null;column:user_student_full_name"`
	UserStudentYear         string `json:"user_student_year" gorm:"type:varchar(2);not null;column:user_student_year;index:idx_user_students_roster,priority:2"`
	UserStudentClassSection string `json:"user_student_class_section" gorm:"type:varchar(10);not null;column:user_student_class_section;index:idx_user_students_roster,priority:3"`
	UserStudentRollNo       int    `json:"user_student_roll_no" gorm:"not null;column:user_student_roll_no"`

	UserStudentCreatedAt time.Time `json:"user_student_created_at" gorm:"column:user_student_created_at;autoCreateTime"`
	UserStudentUpdatedAt time.Time `json:"user_student_updated_at" gorm:"column:user_student_updated_at;autoUpdateTime"`
}

func (UserStudentModel) TableName() string { return "user_students" }
