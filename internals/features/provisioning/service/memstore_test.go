package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	offeringModel "campusku_backend/internals/features/academics/class_offerings/model"
	departmentModel "campusku_backend/internals/features/academics/departments/model"
	"campusku_backend/internals/features/provisioning/identity"
	studentModel "campusku_backend/internals/features/users/user_students/model"
	teacherModel "campusku_backend/internals/features/users/user_teachers/model"
	userModel "campusku_backend/internals/features/users/users/model"
	"campusku_backend/internals/helpers/apperr"
)

// memState is copied at the start of every transaction and swapped in on commit.
type memState struct {
	departments map[uuid.UUID]departmentModel.DepartmentModel
	users       map[uuid.UUID]userModel.UserModel
	students    map[uuid.UUID]studentModel.UserStudentModel
	teachers    map[uuid.UUID]teacherModel.UserTeacherModel
	offerings   map[uuid.UUID]offeringModel.ClassOfferingModel
	// attendance + feedback rows per student profile
	records map[uuid.UUID]int
}

func newMemState() memState {
	return memState{
		departments: map[uuid.UUID]departmentModel.DepartmentModel{},
		users:       map[uuid.UUID]userModel.UserModel{},
		students:    map[uuid.UUID]studentModel.UserStudentModel{},
		teachers:    map[uuid.UUID]teacherModel.UserTeacherModel{},
		offerings:   map[uuid.UUID]offeringModel.ClassOfferingModel{},
		records:     map[uuid.UUID]int{},
	}
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s memState) clone() memState {
	return memState{
		departments: cloneMap(s.departments),
		users:       cloneMap(s.users),
		students:    cloneMap(s.students),
		teachers:    cloneMap(s.teachers),
		offerings:   cloneMap(s.offerings),
		records:     cloneMap(s.records),
	}
}

type memStore struct {
	state  memState
	failOn string
	txs    int
}

func newMemStore() *memStore {
	return &memStore{state: newMemState()}
}

func (m *memStore) InTx(_ context.Context, fn func(tx Tx) error) error {
	m.txs++
	work := m.state.clone()
	if err := fn(&memTx{st: &work, store: m}); err != nil {
		return err
	}
	m.state = work
	return nil
}

type memTx struct {
	st    *memState
	store *memStore
}

var _ Tx = (*memTx)(nil)

func (t *memTx) fail(op string) error {
	if t.store.failOn == op {
		return errors.New("injected failure: " + op)
	}
	return nil
}

func (t *memTx) DepartmentNameTaken(name string) (bool, error) {
	for _, d := range t.st.departments {
		if d.DepartmentName == name {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) CreateDepartment(d *departmentModel.DepartmentModel) error {
	if err := t.fail("CreateDepartment"); err != nil {
		return err
	}
	t.st.departments[d.DepartmentID] = *d
	return nil
}

func (t *memTx) GetDepartment(id uuid.UUID) (*departmentModel.DepartmentModel, error) {
	d, ok := t.st.departments[id]
	if !ok {
		return nil, apperr.NotFound("department not found")
	}
	return &d, nil
}

func (t *memTx) SetDepartmentHOD(departmentID, teacherID uuid.UUID) error {
	for id, tm := range t.st.teachers {
		if tm.UserTeacherDepartmentID == departmentID {
			tm.UserTeacherIsHOD = id == teacherID
			t.st.teachers[id] = tm
		}
	}
	if tm, ok := t.st.teachers[teacherID]; ok {
		tm.UserTeacherIsHOD = true
		t.st.teachers[teacherID] = tm
	}
	d := t.st.departments[departmentID]
	d.DepartmentHODTeacherID = &teacherID
	t.st.departments[departmentID] = d
	return nil
}

func (t *memTx) ClearDepartmentHOD(departmentID, teacherID uuid.UUID) error {
	d, ok := t.st.departments[departmentID]
	if ok && d.DepartmentHODTeacherID != nil && *d.DepartmentHODTeacherID == teacherID {
		d.DepartmentHODTeacherID = nil
		t.st.departments[departmentID] = d
	}
	return nil
}

func (t *memTx) ExistingAccounts(emails []string) (map[string]identity.Existing, error) {
	want := map[string]bool{}
	for _, e := range emails {
		want[e] = true
	}
	out := map[string]identity.Existing{}
	for _, u := range t.st.users {
		if want[u.Email] {
			out[u.Email] = identity.Existing{ID: u.ID, Role: u.Role}
		}
	}
	return out, nil
}

func (t *memTx) CreateAccounts(users []userModel.UserModel) error {
	if err := t.fail("CreateAccounts"); err != nil {
		return err
	}
	for _, u := range users {
		for _, ex := range t.st.users {
			if ex.Email == u.Email {
				return apperr.Conflict("duplicate key", nil)
			}
		}
		t.st.users[u.ID] = u
	}
	return nil
}

func (t *memTx) DeleteAccount(userID uuid.UUID) error {
	delete(t.st.users, userID)
	return nil
}

func (t *memTx) CreateStudents(rows []studentModel.UserStudentModel) error {
	if err := t.fail("CreateStudents"); err != nil {
		return err
	}
	for _, r := range rows {
		t.st.students[r.UserStudentID] = r
	}
	return nil
}

func (t *memTx) GetStudent(id uuid.UUID) (*studentModel.UserStudentModel, error) {
	st, ok := t.st.students[id]
	if !ok {
		return nil, apperr.NotFound("student not found")
	}
	return &st, nil
}

func (t *memTx) DeleteStudent(id uuid.UUID) error {
	delete(t.st.students, id)
	return nil
}

func (t *memTx) DeleteStudentRecords(studentID uuid.UUID) error {
	delete(t.st.records, studentID)
	return nil
}

func (t *memTx) CreateTeachers(rows []teacherModel.UserTeacherModel) error {
	if err := t.fail("CreateTeachers"); err != nil {
		return err
	}
	for _, r := range rows {
		t.st.teachers[r.UserTeacherID] = r
	}
	return nil
}

func (t *memTx) TeachersByUserIDs(userIDs []uuid.UUID) (map[uuid.UUID]teacherModel.UserTeacherModel, error) {
	want := map[uuid.UUID]bool{}
	for _, id := range userIDs {
		want[id] = true
	}
	out := map[uuid.UUID]teacherModel.UserTeacherModel{}
	for _, tm := range t.st.teachers {
		if want[tm.UserTeacherUserID] {
			out[tm.UserTeacherUserID] = tm
		}
	}
	return out, nil
}

func (t *memTx) GetTeacher(id uuid.UUID) (*teacherModel.UserTeacherModel, error) {
	tm, ok := t.st.teachers[id]
	if !ok {
		return nil, apperr.NotFound("faculty not found")
	}
	return &tm, nil
}

func (t *memTx) DeleteTeacher(id uuid.UUID) error {
	if err := t.fail("DeleteTeacher"); err != nil {
		return err
	}
	delete(t.st.teachers, id)
	return nil
}

func (t *memTx) CreateOfferings(rows []offeringModel.ClassOfferingModel) (int64, error) {
	if err := t.fail("CreateOfferings"); err != nil {
		return 0, err
	}
	existing := map[string]bool{}
	for _, o := range t.st.offerings {
		existing[o.NaturalKey()] = true
	}
	var n int64
	for _, o := range rows {
		if existing[o.NaturalKey()] {
			continue
		}
		existing[o.NaturalKey()] = true
		t.st.offerings[o.ClassOfferingID] = o
		n++
	}
	return n, nil
}

func (t *memTx) DeleteOfferingsByTeacher(teacherID uuid.UUID) error {
	for id, o := range t.st.offerings {
		if o.ClassOfferingTeacherID == teacherID {
			delete(t.st.offerings, id)
		}
	}
	return nil
}
