package service

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	offeringModel "campusku_backend/internals/features/academics/class_offerings/model"
	attendanceModel "campusku_backend/internals/features/attendance/model"
	studentModel "campusku_backend/internals/features/users/user_students/model"
	"campusku_backend/internals/helpers/apperr"
)

type fakeRepo struct {
	departments map[uuid.UUID]bool
	students    []studentModel.UserStudentModel
	offerings   []offeringModel.ClassOfferingModel
	sessions    []attendanceModel.ClassAttendanceSessionModel
	entries     []attendanceModel.ClassAttendanceParticipantModel

	reads   int
	failOut bool
}

var _ Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{departments: map[uuid.UUID]bool{}}
}

func idSet(ids []uuid.UUID) map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

func (f *fakeRepo) GetStudent(_ context.Context, id uuid.UUID) (*studentModel.UserStudentModel, error) {
	for _, s := range f.students {
		if s.UserStudentID == id {
			return &s, nil
		}
	}
	return nil, apperr.NotFound("student not found")
}

func (f *fakeRepo) GetOffering(_ context.Context, id uuid.UUID) (*offeringModel.ClassOfferingModel, error) {
	f.reads++
	for _, o := range f.offerings {
		if o.ClassOfferingID == id {
			return &o, nil
		}
	}
	return nil, apperr.NotFound("class offering not found")
}

func (f *fakeRepo) DepartmentExists(_ context.Context, id uuid.UUID) (bool, error) {
	return f.departments[id], nil
}

func (f *fakeRepo) ParticipantsByStudent(_ context.Context, studentID uuid.UUID) ([]attendanceModel.ClassAttendanceParticipantModel, error) {
	var out []attendanceModel.ClassAttendanceParticipantModel
	for _, e := range f.entries {
		if e.ClassAttendanceParticipantStudentID == studentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) ParticipantsBySessions(_ context.Context, sessionIDs []uuid.UUID) ([]attendanceModel.ClassAttendanceParticipantModel, error) {
	want := idSet(sessionIDs)
	var out []attendanceModel.ClassAttendanceParticipantModel
	for _, e := range f.entries {
		if want[e.ClassAttendanceParticipantSessionID] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) SessionsByIDs(_ context.Context, ids []uuid.UUID) ([]attendanceModel.ClassAttendanceSessionModel, error) {
	want := idSet(ids)
	var out []attendanceModel.ClassAttendanceSessionModel
	for _, s := range f.sessions {
		if want[s.ClassAttendanceSessionID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) SessionsByOfferings(_ context.Context, offeringIDs []uuid.UUID) ([]attendanceModel.ClassAttendanceSessionModel, error) {
	want := idSet(offeringIDs)
	var out []attendanceModel.ClassAttendanceSessionModel
	for _, s := range f.sessions {
		if want[s.ClassAttendanceSessionOfferingID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) OfferingsByIDs(_ context.Context, ids []uuid.UUID) ([]offeringModel.ClassOfferingModel, error) {
	want := idSet(ids)
	var out []offeringModel.ClassOfferingModel
	for _, o := range f.offerings {
		if want[o.ClassOfferingID] {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepo) OfferingsByDepartment(_ context.Context, departmentID uuid.UUID) ([]offeringModel.ClassOfferingModel, error) {
	var out []offeringModel.ClassOfferingModel
	for _, o := range f.offerings {
		if o.ClassOfferingDepartmentID == departmentID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepo) StudentsBySection(_ context.Context, departmentID uuid.UUID, year, section string) ([]studentModel.UserStudentModel, error) {
	var out []studentModel.UserStudentModel
	for _, s := range f.students {
		if s.UserStudentDepartmentID == departmentID && s.UserStudentYear == year && s.UserStudentClassSection == section {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserStudentRollNo < out[j].UserStudentRollNo })
	return out, nil
}

func (f *fakeRepo) CountStudentsInDepartment(_ context.Context, departmentID uuid.UUID, ids []uuid.UUID) (int64, error) {
	want := idSet(ids)
	var n int64
	for _, s := range f.students {
		if s.UserStudentDepartmentID == departmentID && want[s.UserStudentID] {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CreateSession(_ context.Context, session *attendanceModel.ClassAttendanceSessionModel, entries []attendanceModel.ClassAttendanceParticipantModel) error {
	if f.failOut {
		return errors.New("insert failed")
	}
	f.sessions = append(f.sessions, *session)
	f.entries = append(f.entries, entries...)
	return nil
}
