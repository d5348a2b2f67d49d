package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	offeringModel "campusku_backend/internals/features/academics/class_offerings/model"
	departmentModel "campusku_backend/internals/features/academics/departments/model"
	attendanceModel "campusku_backend/internals/features/attendance/model"
	"campusku_backend/internals/features/attendance/service"
	studentModel "campusku_backend/internals/features/users/user_students/model"
	"campusku_backend/internals/helpers/apperr"
)

type GormRepository struct {
	db *gorm.DB
}

var _ service.Repository = (*GormRepository)(nil)

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return apperr.FromDB(errors.Wrap(err, msg))
}

func (r *GormRepository) GetStudent(ctx context.Context, id uuid.UUID) (*studentModel.UserStudentModel, error) {
	var st studentModel.UserStudentModel
	err := r.db.WithContext(ctx).Where("user_student_id = ?", id).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("student not found")
	}
	if err != nil {
		return nil, wrap(err, "loading student")
	}
	return &st, nil
}

func (r *GormRepository) GetOffering(ctx context.Context, id uuid.UUID) (*offeringModel.ClassOfferingModel, error) {
	var o offeringModel.ClassOfferingModel
	err := r.db.WithContext(ctx).Where("class_offering_id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("class offering not found")
	}
	if err != nil {
		return nil, wrap(err, "loading class offering")
	}
	return &o, nil
}

func (r *GormRepository) DepartmentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&departmentModel.DepartmentModel{}).
		Where("department_id = ?", id).
		Count(&n).Error
	return n > 0, wrap(err, "checking department")
}

/* ========== select stage ========== */

func (r *GormRepository) ParticipantsByStudent(ctx context.Context, studentID uuid.UUID) ([]attendanceModel.ClassAttendanceParticipantModel, error) {
	var rows []attendanceModel.ClassAttendanceParticipantModel
	err := r.db.WithContext(ctx).
		Where("class_attendance_participant_student_id = ?", studentID).
		Find(&rows).Error
	return rows, wrap(err, "loading student attendance")
}

func (r *GormRepository) ParticipantsBySessions(ctx context.Context, sessionIDs []uuid.UUID) ([]attendanceModel.ClassAttendanceParticipantModel, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	var rows []attendanceModel.ClassAttendanceParticipantModel
	err := r.db.WithContext(ctx).
		Where("class_attendance_participant_session_id IN ?", sessionIDs).
		Find(&rows).Error
	return rows, wrap(err, "loading session entries")
}

func (r *GormRepository) SessionsByIDs(ctx context.Context, ids []uuid.UUID) ([]attendanceModel.ClassAttendanceSessionModel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []attendanceModel.ClassAttendanceSessionModel
	err := r.db.WithContext(ctx).
		Where("class_attendance_session_id IN ?", ids).
		Find(&rows).Error
	return rows, wrap(err, "loading sessions")
}

func (r *GormRepository) SessionsByOfferings(ctx context.Context, offeringIDs []uuid.UUID) ([]attendanceModel.ClassAttendanceSessionModel, error) {
	if len(offeringIDs) == 0 {
		return nil, nil
	}
	var rows []attendanceModel.ClassAttendanceSessionModel
	err := r.db.WithContext(ctx).
		Where("class_attendance_session_offering_id IN ?", offeringIDs).
		Order("class_attendance_session_date ASC").
		Find(&rows).Error
	return rows, wrap(err, "loading offering sessions")
}

func (r *GormRepository) OfferingsByIDs(ctx context.Context, ids []uuid.UUID) ([]offeringModel.ClassOfferingModel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []offeringModel.ClassOfferingModel
	err := r.db.WithContext(ctx).
		Where("class_offering_id IN ?", ids).
		Find(&rows).Error
	return rows, wrap(err, "loading offerings")
}

func (r *GormRepository) OfferingsByDepartment(ctx context.Context, departmentID uuid.UUID) ([]offeringModel.ClassOfferingModel, error) {
	var rows []offeringModel.ClassOfferingModel
	err := r.db.WithContext(ctx).
		Where("class_offering_department_id = ?", departmentID).
		Order("class_offering_class_section ASC").
		Find(&rows).Error
	return rows, wrap(err, "loading department offerings")
}

func (r *GormRepository) StudentsBySection(ctx context.Context, departmentID uuid.UUID, year, section string) ([]studentModel.UserStudentModel, error) {
	var rows []studentModel.UserStudentModel
	err := r.db.WithContext(ctx).
		Where("user_student_department_id = ? AND user_student_year = ? AND user_student_class_section = ?", departmentID, year, section).
		Order("user_student_roll_no ASC").
		Find(&rows).Error
	return rows, wrap(err, "loading class roster")
}

func (r *GormRepository) CountStudentsInDepartment(ctx context.Context, departmentID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&studentModel.UserStudentModel{}).
		Where("user_student_department_id = ? AND user_student_id IN ?", departmentID, ids).
		Count(&n).Error
	return n, wrap(err, "checking session students")
}

/* ========== write ========== */

func (r *GormRepository) CreateSession(ctx context.Context, session *attendanceModel.ClassAttendanceSessionModel, entries []attendanceModel.ClassAttendanceParticipantModel) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return wrap(err, "inserting session")
		}
		if len(entries) == 0 {
			return nil
		}
		return wrap(tx.CreateInBatches(&entries, 500).Error, "inserting session entries")
	})
}
