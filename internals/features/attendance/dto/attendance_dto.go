package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubjectAttendance struct {
	SubjectName string  `json:"subject_name"`
	FormType    string  `json:"form_type"`
	Total       int     `json:"total_sessions"`
	Present     int     `json:"present"`
	Percentage  float64 `json:"percentage"`
}

type StudentAttendance struct {
	StudentID uuid.UUID           `json:"user_student_id"`
	Subjects  []SubjectAttendance `json:"subjects"`
}

type OfferingAttendance struct {
	OfferingID   uuid.UUID `json:"class_offering_id"`
	SubjectName  string    `json:"subject_name"`
	FormType     string    `json:"form_type"`
	ClassSection string    `json:"class_section"`
	Year         string    `json:"year"`
	Sessions     int       `json:"sessions"`
	Present      int       `json:"present"`
	RosterSeen   int       `json:"roster_seen"`
	Percentage   float64   `json:"percentage"`
}

type RosterEntry struct {
	StudentID    uuid.UUID `json:"user_student_id"`
	FullName     string    `json:"full_name"`
	RollNo       int       `json:"roll_no"`
	ClassSection string    `json:"class_section"`
	Batch        int       `json:"batch,omitempty"`
}

type ClassRosterResponse struct {
	Section  string        `json:"section"`
	Year     string        `json:"year"`
	Batch    int           `json:"batch,omitempty"`
	Students []RosterEntry `json:"students"`
}

/* ========== session write path ========== */

type SessionEntryRequest struct {
	StudentID uuid.UUID `json:"user_student_id" validate:"required"`
	Present   bool      `json:"present"`
}

type CreateSessionRequest struct {
	// optional back-dating; defaults to now
	SessionDate *time.Time            `json:"session_date"`
	Entries     []SessionEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

type SessionResponse struct {
	SessionID   uuid.UUID `json:"class_attendance_session_id"`
	OfferingID  uuid.UUID `json:"class_offering_id"`
	SessionDate time.Time `json:"session_date"`
	Entries     int       `json:"entries"`
	Present     int       `json:"present"`
}
