package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	offeringModel "campusku_backend/internals/features/academics/class_offerings/model"
	"campusku_backend/internals/features/attendance/dto"
	attendanceModel "campusku_backend/internals/features/attendance/model"
)

var day0 = time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

func offering(subject, formType, section string) offeringModel.ClassOfferingModel {
	return offeringModel.ClassOfferingModel{
		ClassOfferingID:           uuid.New(),
		ClassOfferingTeacherID:    uuid.New(),
		ClassOfferingDepartmentID: uuid.New(),
		ClassOfferingSubjectName:  subject,
		ClassOfferingFormType:     formType,
		ClassOfferingClassSection: section,
		ClassOfferingYear:         "SY",
	}
}

func session(o offeringModel.ClassOfferingModel, day int) attendanceModel.ClassAttendanceSessionModel {
	return attendanceModel.ClassAttendanceSessionModel{
		ClassAttendanceSessionID:         uuid.New(),
		ClassAttendanceSessionOfferingID: o.ClassOfferingID,
		ClassAttendanceSessionDate:       day0.AddDate(0, 0, day),
	}
}

func mark(s attendanceModel.ClassAttendanceSessionModel, student uuid.UUID, present bool) attendanceModel.ClassAttendanceParticipantModel {
	return attendanceModel.ClassAttendanceParticipantModel{
		ClassAttendanceParticipantID:        uuid.New(),
		ClassAttendanceParticipantSessionID: s.ClassAttendanceSessionID,
		ClassAttendanceParticipantStudentID: student,
		ClassAttendanceParticipantPresent:   present,
	}
}

func TestJoinStudentMarksDropsOrphansAndOrdersByDate(t *testing.T) {
	student := uuid.New()
	dbms := offering("DBMS", "theory", "A")
	s1, s2 := session(dbms, 1), session(dbms, 0)
	orphan := attendanceModel.ClassAttendanceSessionModel{
		ClassAttendanceSessionID:         uuid.New(),
		ClassAttendanceSessionOfferingID: uuid.New(),
	}

	marks := joinStudentMarks(
		[]attendanceModel.ClassAttendanceParticipantModel{
			mark(s1, student, true),
			mark(orphan, student, true),
			mark(s2, student, false),
			{ClassAttendanceParticipantSessionID: uuid.New(), ClassAttendanceParticipantStudentID: student},
		},
		[]attendanceModel.ClassAttendanceSessionModel{s1, s2, orphan},
		[]offeringModel.ClassOfferingModel{dbms},
	)

	require.Len(t, marks, 2)
	assert.Equal(t, s2.ClassAttendanceSessionID, marks[0].SessionID)
	assert.Equal(t, s1.ClassAttendanceSessionID, marks[1].SessionID)
	assert.Equal(t, "DBMS", marks[0].SubjectName)
}

func TestGroupBySubjectKeepsDiscoveryOrder(t *testing.T) {
	marks := []studentMark{
		{SubjectName: "OS", FormType: "theory", Present: true},
		{SubjectName: "DBMS", FormType: "theory", Present: false},
		{SubjectName: "OS", FormType: "practical", Present: true},
		{SubjectName: "OS", FormType: "theory", Present: false},
	}

	groups := groupBySubject(marks)

	require.Len(t, groups, 3)
	assert.Equal(t, subjectGroup{SubjectName: "OS", FormType: "theory", Total: 2, Present: 1}, groups[0])
	assert.Equal(t, subjectGroup{SubjectName: "DBMS", FormType: "theory", Total: 1, Present: 0}, groups[1])
	assert.Equal(t, subjectGroup{SubjectName: "OS", FormType: "practical", Total: 1, Present: 1}, groups[2])
}

func TestDeriveSubjectAttendance(t *testing.T) {
	out := deriveSubjectAttendance([]subjectGroup{
		{SubjectName: "OS", FormType: "theory", Total: 3, Present: 2},
		{SubjectName: "Empty", FormType: "theory"},
		{SubjectName: "DBMS", FormType: "practical", Total: 8, Present: 8},
	})

	require.Len(t, out, 2)
	assert.Equal(t, 66.67, out[0].Percentage)
	assert.Equal(t, 100.0, out[1].Percentage)
	assert.Equal(t, "DBMS", out[1].SubjectName)
}

func TestTallyOfferings(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	os := offering("OS", "theory", "A")
	idle := offering("Networks", "theory", "A")
	s1, s2 := session(os, 0), session(os, 1)

	tallies := tallyOfferings(
		[]offeringModel.ClassOfferingModel{os, idle},
		[]attendanceModel.ClassAttendanceSessionModel{s1, s2, s1},
		[]attendanceModel.ClassAttendanceParticipantModel{
			mark(s1, a, true), mark(s1, b, true),
			mark(s2, a, true), mark(s2, b, false),
		},
	)

	require.Len(t, tallies, 2)
	assert.Equal(t, 2, tallies[0].Sessions)
	assert.Equal(t, 3, tallies[0].Present)
	assert.Equal(t, 2, tallies[0].RosterSeen)
	assert.Equal(t, 75.0, offeringPercentage(tallies[0]))

	assert.Equal(t, 0, tallies[1].Sessions)
	assert.Equal(t, 0.0, offeringPercentage(tallies[1]))
}

func TestSortBySection(t *testing.T) {
	list := []dto.OfferingAttendance{
		{ClassSection: "B", SubjectName: "OS", FormType: "theory"},
		{ClassSection: "A", SubjectName: "OS", FormType: "theory"},
		{ClassSection: "A", SubjectName: "DBMS", FormType: "theory"},
		{ClassSection: "A", SubjectName: "DBMS", FormType: "practical"},
	}

	sortBySection(list)

	got := make([]string, len(list))
	for i, o := range list {
		got[i] = o.ClassSection + "/" + o.SubjectName + "/" + o.FormType
	}
	assert.Equal(t, []string{"A/DBMS/practical", "A/DBMS/theory", "A/OS/theory", "B/OS/theory"}, got)
}
