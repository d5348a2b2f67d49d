package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"campusku_backend/internals/constants"
	"campusku_backend/internals/features/provisioning/dto"
	"campusku_backend/internals/features/provisioning/identity"
	"campusku_backend/internals/helpers/apperr"
)

func setup(t *testing.T) (*Service, *memStore) {
	t.Helper()
	store := newMemStore()
	svc := New(store, Config{
		DefaultStudentPassword: "student@123",
		DefaultFacultyPassword: "faculty@123",
		BcryptCost:             bcrypt.MinCost,
	})
	return svc, store
}

func studentRows(n int) []dto.StudentRow {
	rows := make([]dto.StudentRow, n)
	for i := range rows {
		rows[i] = dto.StudentRow{
			Email:        fmt.Sprintf("student%02d@campus.edu", i+1),
			FullName:     fmt.Sprintf("Student %d", i+1),
			RollNo:       i + 1,
			Year:         "SY",
			ClassSection: "A",
		}
	}
	return rows
}

func facultyRow(email, subject string, hod bool) dto.FacultyRow {
	return dto.FacultyRow{
		Email:        email,
		Name:         "Prof " + email,
		IsHOD:        hod,
		ClassSection: "A",
		SubjectName:  subject,
		FormType:     "theory",
		Year:         "SY",
	}
}

func createCS(t *testing.T, svc *Service) *dto.ProvisionResult {
	t.Helper()
	res, err := svc.CreateDepartment(context.Background(), dto.CreateDepartmentRequest{
		Name:     "CS",
		Students: studentRows(3),
		Faculty: []dto.FacultyRow{
			facultyRow("turing@campus.edu", "Computability", true),
			facultyRow("turing@campus.edu", "Cryptography", false),
			facultyRow("hopper@campus.edu", "Compilers", false),
		},
	})
	require.NoError(t, err)
	return res
}

func TestCreateDepartmentProvisionsRosters(t *testing.T) {
	svc, store := setup(t)

	res := createCS(t, svc)

	assert.Equal(t, "CS", res.Department.DepartmentName)
	assert.Len(t, res.Students, 3)
	assert.Len(t, res.Faculty, 2)
	assert.Equal(t, 3, res.OfferingsCreated)
	assert.Equal(t, 1, res.BatchDuplicates)
	assert.Empty(t, res.Rejected)

	assert.Len(t, store.state.users, 5)
	assert.Len(t, store.state.students, 3)
	assert.Len(t, store.state.teachers, 2)
	assert.Len(t, store.state.offerings, 3)

	require.NotNil(t, res.Department.DepartmentHODTeacherID)
	hod := store.state.teachers[*res.Department.DepartmentHODTeacherID]
	assert.Equal(t, "Prof turing@campus.edu", hod.UserTeacherName)
	assert.True(t, hod.UserTeacherIsHOD)

	for _, u := range store.state.users {
		pw := "student@123"
		if u.Role == constants.RoleFaculty {
			pw = "faculty@123"
		}
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(pw)), u.Email)
	}
}

func TestCreateDepartmentDuplicateNameConflicts(t *testing.T) {
	svc, store := setup(t)
	createCS(t, svc)

	_, err := svc.CreateDepartment(context.Background(), dto.CreateDepartmentRequest{Name: " CS "})

	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Len(t, store.state.departments, 1)
}

func TestCreateDepartmentIsAtomic(t *testing.T) {
	svc, store := setup(t)
	store.failOn = "CreateTeachers"

	_, err := svc.CreateDepartment(context.Background(), dto.CreateDepartmentRequest{
		Name:     "EE",
		Students: studentRows(5),
		Faculty:  []dto.FacultyRow{facultyRow("tesla@campus.edu", "Circuits", false)},
	})

	require.Error(t, err)
	assert.Equal(t, apperr.KindTransaction, apperr.KindOf(err))
	assert.Empty(t, store.state.departments)
	assert.Empty(t, store.state.users)
	assert.Empty(t, store.state.students)
}

func TestCreateDepartmentValidation(t *testing.T) {
	tests := []struct {
		name     string
		req      dto.CreateDepartmentRequest
		wantRows int
	}{
		{name: "blank name", req: dto.CreateDepartmentRequest{Name: "  "}},
		{
			name: "two distinct HODs",
			req: dto.CreateDepartmentRequest{Name: "ME", Faculty: []dto.FacultyRow{
				facultyRow("a@campus.edu", "Statics", true),
				facultyRow("b@campus.edu", "Dynamics", true),
				facultyRow("c@campus.edu", "Fluids", true),
			}},
			wantRows: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := setup(t)
			_, err := svc.CreateDepartment(context.Background(), tt.req)

			require.Error(t, err)
			assert.Equal(t, apperr.KindInput, apperr.KindOf(err))
			assert.Len(t, apperr.RowsOf(err), tt.wantRows)
			assert.Zero(t, store.txs, "operation-scoped errors stop before any write")
		})
	}
}

func TestSameHODOnSeveralRowsIsOneHOD(t *testing.T) {
	svc, _ := setup(t)
	res, err := svc.CreateDepartment(context.Background(), dto.CreateDepartmentRequest{
		Name: "ME",
		Faculty: []dto.FacultyRow{
			facultyRow("a@campus.edu", "Statics", true),
			facultyRow("A@campus.edu", "Dynamics", true),
		},
	})
	require.NoError(t, err)
	assert.NotNil(t, res.Department.DepartmentHODTeacherID)
}

func TestCreateDepartmentRejectsCrossRoleEmail(t *testing.T) {
	svc, store := setup(t)
	students := studentRows(1)

	res, err := svc.CreateDepartment(context.Background(), dto.CreateDepartmentRequest{
		Name:     "CE",
		Students: students,
		Faculty:  []dto.FacultyRow{facultyRow(students[0].Email, "Surveying", false)},
	})
	require.NoError(t, err)

	require.Len(t, res.Rejected, 1)
	assert.Equal(t, "faculty", res.Rejected[0].Roster)
	assert.Equal(t, identity.ReasonRoleConflict, res.Rejected[0].Reason)
	assert.Len(t, store.state.users, 1)
	assert.Empty(t, store.state.offerings)
}

func TestAddStudentsRerunCreatesNothing(t *testing.T) {
	svc, store := setup(t)
	dept := createCS(t, svc).Department.DepartmentID
	rows := studentRows(4)[3:]
	rows = append(rows, dto.StudentRow{Email: "late@campus.edu", FullName: "Late", RollNo: 40, Year: "SY", ClassSection: "B"})

	first, err := svc.AddStudents(context.Background(), dept, rows)
	require.NoError(t, err)
	assert.Len(t, first.Students, 2)
	usersAfterFirst := len(store.state.users)

	second, err := svc.AddStudents(context.Background(), dept, rows)
	require.NoError(t, err)

	assert.Empty(t, second.Students)
	assert.Equal(t, len(rows), second.ExistingSkipped)
	assert.Len(t, store.state.users, usersAfterFirst)
}

func TestAddStudentsRepeatedStoredRowCountsEveryRow(t *testing.T) {
	svc, store := setup(t)
	dept := createCS(t, svc).Department.DepartmentID
	stored := studentRows(1)[0]
	usersBefore := len(store.state.users)

	res, err := svc.AddStudents(context.Background(), dept, []dto.StudentRow{stored, stored, stored})
	require.NoError(t, err)

	assert.Empty(t, res.Students)
	assert.Equal(t, 3, res.ExistingSkipped)
	assert.Zero(t, res.BatchDuplicates)
	assert.Len(t, store.state.users, usersBefore)
}

func TestAddStudentsBatchDuplicatesAndRowErrors(t *testing.T) {
	svc, store := setup(t)
	dept := createCS(t, svc).Department.DepartmentID

	res, err := svc.AddStudents(context.Background(), dept, []dto.StudentRow{
		{Email: "dup@campus.edu", FullName: "Dup", RollNo: 10, Year: "FY", ClassSection: "b"},
		{Email: " DUP@campus.edu", FullName: "Dup Again", RollNo: 11, Year: "FY", ClassSection: "B"},
		{Email: "neg@campus.edu", FullName: "Neg", RollNo: 0, Year: "FY", ClassSection: "B"},
		{Email: "year@campus.edu", FullName: "Year", RollNo: 12, Year: "XY", ClassSection: "B"},
		{Email: "broken", FullName: "Broken", RollNo: 13, Year: "FY", ClassSection: "B"},
	})
	require.NoError(t, err)

	assert.Len(t, res.Students, 1)
	assert.Equal(t, 1, res.BatchDuplicates)
	require.Len(t, res.Rejected, 3)
	assert.Equal(t, []int{2, 3, 4}, []int{res.Rejected[0].Row, res.Rejected[1].Row, res.Rejected[2].Row})
	assert.Contains(t, res.Rejected[0].Reason, "roll_no")

	created := store.state.students[res.Students[0].ProfileID]
	assert.Equal(t, "B", created.UserStudentClassSection)
	assert.Equal(t, "dup@campus.edu", res.Students[0].Email)
}

func TestAddStudentsUnknownDepartment(t *testing.T) {
	svc, _ := setup(t)
	_, err := svc.AddStudents(context.Background(), uuid.New(), studentRows(1))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAddFacultyReusesExistingProfileAndMovesHOD(t *testing.T) {
	svc, store := setup(t)
	created := createCS(t, svc)
	dept := created.Department.DepartmentID
	oldHOD := *created.Department.DepartmentHODTeacherID

	res, err := svc.AddFaculty(context.Background(), dept, []dto.FacultyRow{
		facultyRow("hopper@campus.edu", "Compilers", true),
		facultyRow("hopper@campus.edu", "Operating Systems", true),
	})
	require.NoError(t, err)

	assert.Empty(t, res.Faculty)
	assert.Equal(t, 2, res.ExistingSkipped)
	assert.Zero(t, res.BatchDuplicates)
	assert.Equal(t, 1, res.OfferingsCreated, "the existing Compilers offering is not duplicated")
	assert.Len(t, store.state.offerings, 4)

	newHOD := *res.Department.DepartmentHODTeacherID
	assert.NotEqual(t, oldHOD, newHOD)
	assert.False(t, store.state.teachers[oldHOD].UserTeacherIsHOD)
	assert.True(t, store.state.teachers[newHOD].UserTeacherIsHOD)
	assert.Equal(t, newHOD, *store.state.departments[dept].DepartmentHODTeacherID)
}

func TestAddFacultyRejectsStudentEmail(t *testing.T) {
	svc, _ := setup(t)
	dept := createCS(t, svc).Department.DepartmentID

	res, err := svc.AddFaculty(context.Background(), dept, []dto.FacultyRow{
		facultyRow("student01@campus.edu", "Networks", false),
	})
	require.NoError(t, err)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, identity.ReasonRoleConflict, res.Rejected[0].Reason)
}

func TestRemoveStudentCascades(t *testing.T) {
	svc, store := setup(t)
	res := createCS(t, svc)
	victim := res.Students[0]
	store.state.records[victim.ProfileID] = 4

	require.NoError(t, svc.RemoveStudent(context.Background(), victim.ProfileID))

	assert.NotContains(t, store.state.students, victim.ProfileID)
	assert.NotContains(t, store.state.users, victim.UserID)
	assert.NotContains(t, store.state.records, victim.ProfileID)

	err := svc.RemoveStudent(context.Background(), victim.ProfileID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRemoveFacultyClearsHODAndOfferings(t *testing.T) {
	svc, store := setup(t)
	res := createCS(t, svc)
	hod := *res.Department.DepartmentHODTeacherID
	hodUser := store.state.teachers[hod].UserTeacherUserID

	require.NoError(t, svc.RemoveFaculty(context.Background(), hod))

	assert.Nil(t, store.state.departments[res.Department.DepartmentID].DepartmentHODTeacherID)
	assert.NotContains(t, store.state.teachers, hod)
	assert.NotContains(t, store.state.users, hodUser)
	assert.Len(t, store.state.offerings, 1)
}

func TestRemoveFacultyRollsBackOnFailure(t *testing.T) {
	svc, store := setup(t)
	res := createCS(t, svc)
	hod := *res.Department.DepartmentHODTeacherID
	store.failOn = "DeleteTeacher"

	err := svc.RemoveFaculty(context.Background(), hod)

	assert.Equal(t, apperr.KindTransaction, apperr.KindOf(err))
	assert.Len(t, store.state.offerings, 3)
	assert.Equal(t, hod, *store.state.departments[res.Department.DepartmentID].DepartmentHODTeacherID)
}

func TestAddFacultyRejectsFacultyOfAnotherDepartment(t *testing.T) {
	svc, store := setup(t)
	createCS(t, svc)
	ee, err := svc.CreateDepartment(context.Background(), dto.CreateDepartmentRequest{Name: "EE"})
	require.NoError(t, err)
	offeringsBefore := len(store.state.offerings)

	res, err := svc.AddFaculty(context.Background(), ee.Department.DepartmentID, []dto.FacultyRow{
		facultyRow("hopper@campus.edu", "Signals", true),
		facultyRow("tesla@campus.edu", "Circuits", false),
	})
	require.NoError(t, err)

	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 0, res.Rejected[0].Row)
	assert.Equal(t, reasonOtherDepartment, res.Rejected[0].Reason)
	assert.Len(t, res.Faculty, 1)
	assert.Equal(t, 1, res.OfferingsCreated)
	assert.Len(t, store.state.offerings, offeringsBefore+1)
	assert.Nil(t, store.state.departments[ee.Department.DepartmentID].DepartmentHODTeacherID)
}

type flushCounter struct{ n int }

func (f *flushCounter) Flush() { f.n++ }

func TestRosterChangesFlushSummaries(t *testing.T) {
	svc, store := setup(t)
	flushes := &flushCounter{}
	svc.WithSummaryInvalidator(flushes)

	res := createCS(t, svc)
	assert.Equal(t, 1, flushes.n)

	require.NoError(t, svc.RemoveStudent(context.Background(), res.Students[0].ProfileID))
	assert.Equal(t, 2, flushes.n)

	store.failOn = "CreateAccounts"
	_, err := svc.AddStudents(context.Background(), res.Department.DepartmentID, []dto.StudentRow{
		{Email: "new@campus.edu", FullName: "New", RollNo: 60, Year: "SY", ClassSection: "A"},
	})
	require.Error(t, err)
	assert.Equal(t, 2, flushes.n, "rolled back changes keep the cache")
}
