package model

import (
	"time"

	"github.com/google/uuid"
)

type ClassAttendanceSessionModel struct {
	ClassAttendanceSessionID         uuid.UUID `json:"class_attendance_session_id" gorm:"type:uuid;primaryKey;column:class_attendance_session_id"`
	ClassAttendanceSessionOfferingID uuid.UUID `json:"class_attendance_session_offering_id" gorm:"type:uuid;not null;column:class_attendance_session_offering_id;index"`

	// defaults to creation time; callers may back-date
	ClassAttendanceSessionDate time.Time `json:"class_attendance_session_date" gorm:"not null;column:class_attendance_session_date"`

	ClassAttendanceSessionCreatedAt time.Time `json:"class_attendance_session_created_at" gorm:"column:class_attendance_session_created_at;autoCreateTime"`
}

func (ClassAttendanceSessionModel) TableName() string { return "class_attendance_sessions" }

type ClassAttendanceParticipantModel struct {
	ClassAttendanceParticipantID        uuid.UUID `json:"class_attendance_participant_id" gorm:"type:uuid;primaryKey;column:class_attendance_participant_id"`
	ClassAttendanceParticipantSessionID uuid.UUID `json:"class_attendance_participant_session_id" gorm:"type:uuid;not null;column:class_attendance_participant_session_id;uniqueIndex:uq_participants_session_student,priority:1"`
	ClassAttendanceParticipantStudentID uuid.UUID `json:"class_attendance_participant_student_id" gorm:"type:uuid;not null;column:class_attendance_participant_student_id;uniqueIndex:uq_participants_session_student,priority:2;index"`
	ClassAttendanceParticipantPresent   bool      `json:"class_attendance_participant_present" gorm:"not null;default:false;column:class_attendance_participant_present"`
	ClassAttendanceParticipantPosition  int       `json:"class_attendance_participant_position" gorm:"not null;column:class_attendance_participant_position"`
}

func (ClassAttendanceParticipantModel) TableName() string { return "class_attendance_participants" }
