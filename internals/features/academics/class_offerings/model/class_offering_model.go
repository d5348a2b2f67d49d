package model

import (
	"time"

	"github.com/google/uuid"
)

// ClassOfferingModel maps a faculty member to (subject, section, form type, year).
type ClassOfferingModel struct {
	ClassOfferingID           uuid.UUID `json:"class_offering_id" gorm:"type:uuid;primaryKey;column:class_offering_id"`
	ClassOfferingTeacherID    uuid.UUID `json:"class_offering_teacher_id" gorm:"type:uuid;not null;column:class_offering_teacher_id;uniqueIndex:uq_class_offerings_natural,priority:1"`
	ClassOfferingDepartmentID uuid.UUID `json:"class_offering_department_id" gorm:"type:uuid;not null;column:class_offering_department_id;index"`

	ClassOfferingSubjectName  string `json:"class_offering_subject_name" gorm:"type:varchar(120);not null;column:class_offering_subject_name;uniqueIndex:uq_class_offerings_natural,priority:2"`
	ClassOfferingClassSection string `json:"class_offering_class_section" gorm:"type:varchar(10);not null;column:class_offering_class_section;uniqueIndex:uq_class_offerings_natural,priority:3"`
	ClassOfferingFormType     string `json:"class_offering_form_type" gorm:"type:varchar(10);not null;column:class_offering_form_type;uniqueIndex:uq_class_offerings_natural,priority:4"`
	ClassOfferingYear         string `json:"class_offering_year" gorm:"type:varchar(2);not null;column:class_offering_year;uniqueIndex:uq_class_offerings_natural,priority:5"`

	ClassOfferingCreatedAt time.Time `json:"class_offering_created_at" gorm:"column:class_offering_created_at;autoCreateTime"`
}

func (ClassOfferingModel) TableName() string { return "class_offerings" }

// NaturalKey identifies an offering independent of its surrogate id.
func (m ClassOfferingModel) NaturalKey() string {
	return m.ClassOfferingTeacherID.String() + "|" + m.ClassOfferingSubjectName + "|" +
		m.ClassOfferingClassSection + "|" + m.ClassOfferingFormType + "|" + m.ClassOfferingYear
}
