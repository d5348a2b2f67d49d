package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"campusku_backend/internals/constants"
	offeringModel "campusku_backend/internals/features/academics/class_offerings/model"
	departmentModel "campusku_backend/internals/features/academics/departments/model"
	"campusku_backend/internals/features/provisioning/dto"
	"campusku_backend/internals/features/provisioning/identity"
	studentModel "campusku_backend/internals/features/users/user_students/model"
	teacherModel "campusku_backend/internals/features/users/user_teachers/model"
	userModel "campusku_backend/internals/features/users/users/model"
	"campusku_backend/internals/helpers/apperr"
)

const (
	reasonProfileMissing  = "account has no faculty profile"
	reasonOtherDepartment = "faculty member belongs to another department"
)

// run is the state of one provisioning invocation inside its transaction.
type run struct {
	ctx      context.Context
	s        *Service
	tx       Tx
	dept     *departmentModel.DepartmentModel
	resolver *identity.Resolver
	creds    *credentials
	result   *dto.ProvisionResult
}

func (s *Service) newRun(ctx context.Context, tx Tx, dept *departmentModel.DepartmentModel) *run {
	lookup := func(_ context.Context, emails []string) (map[string]identity.Existing, error) {
		return tx.ExistingAccounts(emails)
	}
	return &run{
		ctx:      ctx,
		s:        s,
		tx:       tx,
		dept:     dept,
		resolver: identity.NewResolver(lookup),
		creds:    &credentials{cfg: s.cfg, hashes: map[string]string{}},
		result: &dto.ProvisionResult{
			Students: []dto.CreatedIdentity{},
			Faculty:  []dto.CreatedIdentity{},
			Rejected: []apperr.RowError{},
		},
	}
}

func validationReason(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

func (r *run) reject(roster string, row int, email, reason string) {
	r.result.Rejected = append(r.result.Rejected, apperr.RowError{Roster: roster, Row: row, Email: email, Reason: reason})
}

func (r *run) absorb(roster string, res *identity.Result) {
	r.result.ExistingSkipped += res.ExistingCount
	r.result.BatchDuplicates += res.DuplicateCount
	for _, rj := range res.Rejected {
		r.reject(roster, rj.Row, rj.Email, rj.Reason)
	}
}

func (r *run) finish() *dto.ProvisionResult {
	sortRejected(r.result.Rejected)
	r.result.Department = dto.DepartmentResponse{
		DepartmentID:           r.dept.DepartmentID,
		DepartmentName:         r.dept.DepartmentName,
		DepartmentHODTeacherID: r.dept.DepartmentHODTeacherID,
	}
	return r.result
}

/* ========================= students ========================= */

func normalizeStudentRow(row dto.StudentRow) dto.StudentRow {
	row.Email = strings.TrimSpace(row.Email)
	row.FullName = strings.TrimSpace(row.FullName)
	row.Year = strings.ToUpper(strings.TrimSpace(row.Year))
	row.ClassSection = strings.ToUpper(strings.TrimSpace(row.ClassSection))
	return row
}

func (r *run) students(rows []dto.StudentRow) error {
	clean := make([]dto.StudentRow, len(rows))
	var keys []identity.Key
	for i, row := range rows {
		clean[i] = normalizeStudentRow(row)
		if err := r.s.validate.Struct(clean[i]); err != nil {
			r.reject(rosterStudents, i, clean[i].Email, validationReason(err))
			continue
		}
		keys = append(keys, identity.Key{Row: i, Email: clean[i].Email})
	}

	res, err := r.resolver.Resolve(r.ctx, constants.RoleStudent, keys)
	if err != nil {
		return err
	}
	r.absorb(rosterStudents, res)
	if len(res.Created) == 0 {
		return nil
	}

	hash, err := r.creds.hashFor(constants.RoleStudent)
	if err != nil {
		return err
	}

	users := make([]userModel.UserModel, 0, len(res.Created))
	profiles := make([]studentModel.UserStudentModel, 0, len(res.Created))
	for _, c := range res.Created {
		row := clean[c.Row]
		profileID := uuid.New()
		users = append(users, userModel.UserModel{
			ID:           c.ID,
			Email:        c.Email,
			PasswordHash: hash,
			Role:         constants.RoleStudent,
			FullName:     row.FullName,
			IsActive:     true,
		})
		profiles = append(profiles, studentModel.UserStudentModel{
			UserStudentID:           profileID,
			UserStudentUserID:       c.ID,
			UserStudentDepartmentID: r.dept.DepartmentID,
			UserStudentFullName:     row.FullName,
			UserStudentYear:         row.Year,
			UserStudentClassSection: row.ClassSection,
			UserStudentRollNo:       row.RollNo,
		})
		r.result.Students = append(r.result.Students, dto.CreatedIdentity{
			UserID: c.ID, ProfileID: profileID, Email: c.Email, Name: row.FullName,
		})
	}

	if err := r.tx.CreateAccounts(users); err != nil {
		return err
	}
	return r.tx.CreateStudents(profiles)
}

/* ========================= faculty ========================= */

func normalizeFacultyRow(row dto.FacultyRow) dto.FacultyRow {
	row.Email = strings.TrimSpace(row.Email)
	row.Name = strings.TrimSpace(row.Name)
	row.ClassSection = strings.ToUpper(strings.TrimSpace(row.ClassSection))
	row.SubjectName = strings.TrimSpace(row.SubjectName)
	row.FormType = strings.ToLower(strings.TrimSpace(row.FormType))
	row.Year = strings.ToUpper(strings.TrimSpace(row.Year))
	return row
}

func (r *run) faculty(rows []dto.FacultyRow) error {
	clean := make([]dto.FacultyRow, len(rows))
	var keys []identity.Key
	for i, row := range rows {
		clean[i] = normalizeFacultyRow(row)
		if err := r.s.validate.Struct(clean[i]); err != nil {
			r.reject(rosterFaculty, i, clean[i].Email, validationReason(err))
			continue
		}
		keys = append(keys, identity.Key{Row: i, Email: clean[i].Email})
	}

	res, err := r.resolver.Resolve(r.ctx, constants.RoleFaculty, keys)
	if err != nil {
		return err
	}
	r.absorb(rosterFaculty, res)

	// account id -> faculty profile id
	profileOf := map[uuid.UUID]uuid.UUID{}

	if len(res.Created) > 0 {
		hash, err := r.creds.hashFor(constants.RoleFaculty)
		if err != nil {
			return err
		}
		users := make([]userModel.UserModel, 0, len(res.Created))
		teachers := make([]teacherModel.UserTeacherModel, 0, len(res.Created))
		for _, c := range res.Created {
			row := clean[c.Row]
			profileID := uuid.New()
			profileOf[c.ID] = profileID
			users = append(users, userModel.UserModel{
				ID:           c.ID,
				Email:        c.Email,
				PasswordHash: hash,
				Role:         constants.RoleFaculty,
				FullName:     row.Name,
				IsActive:     true,
			})
			teachers = append(teachers, teacherModel.UserTeacherModel{
				UserTeacherID:           profileID,
				UserTeacherUserID:       c.ID,
				UserTeacherDepartmentID: r.dept.DepartmentID,
				UserTeacherName:         row.Name,
			})
			r.result.Faculty = append(r.result.Faculty, dto.CreatedIdentity{
				UserID: c.ID, ProfileID: profileID, Email: c.Email, Name: row.Name,
			})
		}
		if err := r.tx.CreateAccounts(users); err != nil {
			return err
		}
		if err := r.tx.CreateTeachers(teachers); err != nil {
			return err
		}
	}

	var existing []uuid.UUID
	for _, rv := range res.Rows {
		if rv.Class == identity.ClassExisting {
			existing = append(existing, rv.ID)
		}
	}
	// faculty profiles are scoped to one department
	foreign := map[uuid.UUID]bool{}
	if len(existing) > 0 {
		found, err := r.tx.TeachersByUserIDs(existing)
		if err != nil {
			return err
		}
		for userID, t := range found {
			if t.UserTeacherDepartmentID != r.dept.DepartmentID {
				foreign[userID] = true
				continue
			}
			profileOf[userID] = t.UserTeacherID
		}
	}

	var (
		offerings []offeringModel.ClassOfferingModel
		seen      = map[string]bool{}
		hod       *uuid.UUID
	)
	for _, rv := range res.Rows {
		if foreign[rv.ID] {
			r.reject(rosterFaculty, rv.Row, rv.Email, reasonOtherDepartment)
			continue
		}
		teacherID, ok := profileOf[rv.ID]
		if !ok {
			r.reject(rosterFaculty, rv.Row, rv.Email, reasonProfileMissing)
			continue
		}
		row := clean[rv.Row]
		if row.IsHOD {
			id := teacherID
			hod = &id
		}

		o := offeringModel.ClassOfferingModel{
			ClassOfferingID:           uuid.New(),
			ClassOfferingTeacherID:    teacherID,
			ClassOfferingDepartmentID: r.dept.DepartmentID,
			ClassOfferingSubjectName:  row.SubjectName,
			ClassOfferingClassSection: row.ClassSection,
			ClassOfferingFormType:     row.FormType,
			ClassOfferingYear:         row.Year,
		}
		if seen[o.NaturalKey()] {
			continue
		}
		seen[o.NaturalKey()] = true
		offerings = append(offerings, o)
	}

	if len(offerings) > 0 {
		n, err := r.tx.CreateOfferings(offerings)
		if err != nil {
			return err
		}
		r.result.OfferingsCreated += int(n)
	}

	if hod != nil {
		if err := r.tx.SetDepartmentHOD(r.dept.DepartmentID, *hod); err != nil {
			return err
		}
		r.dept.DepartmentHODTeacherID = hod
	}
	return nil
}
