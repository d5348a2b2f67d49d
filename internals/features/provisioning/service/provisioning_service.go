package service

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"campusku_backend/internals/constants"
	departmentModel "campusku_backend/internals/features/academics/departments/model"
	"campusku_backend/internals/features/provisioning/dto"
	helper "campusku_backend/internals/helpers"
	"campusku_backend/internals/helpers/apperr"
)

const (
	rosterStudents = "students"
	rosterFaculty  = "faculty"
)

type Config struct {
	DefaultStudentPassword string
	DefaultFacultyPassword string
	BcryptCost             int
}

// SummaryInvalidator drops derived attendance summaries after a roster change.
type SummaryInvalidator interface {
	Flush()
}

type Service struct {
	store     Store
	cfg       Config
	validate  *validator.Validate
	summaries SummaryInvalidator
}

func New(store Store, cfg Config) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{store: store, cfg: cfg, validate: v}
}

// WithSummaryInvalidator flushes inv after every committed roster change.
func (s *Service) WithSummaryInvalidator(inv SummaryInvalidator) *Service {
	s.summaries = inv
	return s
}

func (s *Service) rosterChanged() {
	if s.summaries != nil {
		s.summaries.Flush()
	}
}

/* ========================= operations ========================= */

// CreateDepartment creates the department with both rosters in one transaction.
func (s *Service) CreateDepartment(ctx context.Context, req dto.CreateDepartmentRequest) (*dto.ProvisionResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Input("department name is required")
	}
	if len(name) > 100 {
		return nil, apperr.Input("department name is too long")
	}
	if err := checkSingleHOD(req.Faculty); err != nil {
		return nil, err
	}

	var out *dto.ProvisionResult
	err := s.store.InTx(ctx, func(tx Tx) error {
		taken, err := tx.DepartmentNameTaken(name)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict(fmt.Sprintf("department %q already exists", name), nil)
		}

		dept := &departmentModel.DepartmentModel{DepartmentID: uuid.New(), DepartmentName: name}
		if err := tx.CreateDepartment(dept); err != nil {
			return err
		}

		r := s.newRun(ctx, tx, dept)
		if err := r.students(req.Students); err != nil {
			return err
		}
		if err := r.faculty(req.Faculty); err != nil {
			return err
		}
		out = r.finish()
		return nil
	})
	if err != nil {
		return nil, failed("create department", err)
	}

	s.rosterChanged()
	logResult("create-department", out)
	return out, nil
}

func (s *Service) AddStudents(ctx context.Context, departmentID uuid.UUID, rows []dto.StudentRow) (*dto.ProvisionResult, error) {
	var out *dto.ProvisionResult
	err := s.store.InTx(ctx, func(tx Tx) error {
		dept, err := tx.GetDepartment(departmentID)
		if err != nil {
			return err
		}
		r := s.newRun(ctx, tx, dept)
		if err := r.students(rows); err != nil {
			return err
		}
		out = r.finish()
		return nil
	})
	if err != nil {
		return nil, failed("add students", err)
	}

	s.rosterChanged()
	logResult("add-students", out)
	return out, nil
}

func (s *Service) AddFaculty(ctx context.Context, departmentID uuid.UUID, rows []dto.FacultyRow) (*dto.ProvisionResult, error) {
	if err := checkSingleHOD(rows); err != nil {
		return nil, err
	}

	var out *dto.ProvisionResult
	err := s.store.InTx(ctx, func(tx Tx) error {
		dept, err := tx.GetDepartment(departmentID)
		if err != nil {
			return err
		}
		r := s.newRun(ctx, tx, dept)
		if err := r.faculty(rows); err != nil {
			return err
		}
		out = r.finish()
		return nil
	})
	if err != nil {
		return nil, failed("add faculty", err)
	}

	s.rosterChanged()
	logResult("add-faculty", out)
	return out, nil
}

// RemoveStudent deletes the student profile, its attendance and feedback rows, and the account.
func (s *Service) RemoveStudent(ctx context.Context, studentID uuid.UUID) error {
	err := s.store.InTx(ctx, func(tx Tx) error {
		st, err := tx.GetStudent(studentID)
		if err != nil {
			return err
		}
		if err := tx.DeleteStudentRecords(st.UserStudentID); err != nil {
			return err
		}
		if err := tx.DeleteStudent(st.UserStudentID); err != nil {
			return err
		}
		return tx.DeleteAccount(st.UserStudentUserID)
	})
	if err != nil {
		return failed("remove student", err)
	}
	s.rosterChanged()
	log.Printf("[PROVISION] removed student=%s", studentID)
	return nil
}

// RemoveFaculty deletes the faculty profile, its offerings, the HOD reference and the account.
func (s *Service) RemoveFaculty(ctx context.Context, teacherID uuid.UUID) error {
	err := s.store.InTx(ctx, func(tx Tx) error {
		t, err := tx.GetTeacher(teacherID)
		if err != nil {
			return err
		}
		if err := tx.ClearDepartmentHOD(t.UserTeacherDepartmentID, t.UserTeacherID); err != nil {
			return err
		}
		if err := tx.DeleteOfferingsByTeacher(t.UserTeacherID); err != nil {
			return err
		}
		if err := tx.DeleteTeacher(t.UserTeacherID); err != nil {
			return err
		}
		return tx.DeleteAccount(t.UserTeacherUserID)
	})
	if err != nil {
		return failed("remove faculty", err)
	}
	s.rosterChanged()
	log.Printf("[PROVISION] removed faculty=%s", teacherID)
	return nil
}

/* ========================= helpers ========================= */

// failed keeps caller-facing kinds and folds everything else into a Transaction failure.
func failed(op string, err error) error {
	switch apperr.KindOf(err) {
	case apperr.KindInput, apperr.KindConflict, apperr.KindNotFound:
		return err
	}
	log.Printf("[PROVISION] %s rolled back: %v", op, err)
	return apperr.Transaction(op+" failed, nothing was saved", err)
}

func logResult(op string, r *dto.ProvisionResult) {
	log.Printf("[PROVISION] %s department=%s students=%d faculty=%d offerings=%d existing=%d batch_dup=%d rejected=%d",
		op, r.Department.DepartmentName, len(r.Students), len(r.Faculty), r.OfferingsCreated,
		r.ExistingSkipped, r.BatchDuplicates, len(r.Rejected))
}

// checkSingleHOD rejects a batch flagging more than one distinct faculty member as HOD.
func checkSingleHOD(rows []dto.FacultyRow) error {
	var first string
	var extra []apperr.RowError
	for i, row := range rows {
		if !row.IsHOD {
			continue
		}
		email := helper.NormalizeEmail(row.Email)
		if first == "" {
			first = email
			continue
		}
		if email != first {
			extra = append(extra, apperr.RowError{Roster: rosterFaculty, Row: i, Email: email, Reason: "only one HOD may be flagged"})
		}
	}
	if len(extra) > 0 {
		return apperr.Input("more than one faculty member is flagged as HOD", extra...)
	}
	return nil
}

func sortRejected(rows []apperr.RowError) {
	order := map[string]int{rosterStudents: 0, rosterFaculty: 1}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Roster != rows[j].Roster {
			return order[rows[i].Roster] < order[rows[j].Roster]
		}
		return rows[i].Row < rows[j].Row
	})
}

// credentials hashes each role's default password at most once per invocation.
type credentials struct {
	cfg    Config
	hashes map[string]string
}

func (c *credentials) hashFor(role string) (string, error) {
	if h, ok := c.hashes[role]; ok {
		return h, nil
	}
	pw := c.cfg.DefaultStudentPassword
	if role == constants.RoleFaculty {
		pw = c.cfg.DefaultFacultyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), c.cfg.BcryptCost)
	if err != nil {
		return "", err
	}
	c.hashes[role] = string(b)
	return c.hashes[role], nil
}
