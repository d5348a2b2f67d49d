package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	offeringModel "campusku_backend/internals/features/academics/class_offerings/model"
	departmentModel "campusku_backend/internals/features/academics/departments/model"
	attendanceModel "campusku_backend/internals/features/attendance/model"
	feedbackModel "campusku_backend/internals/features/feedback/model"
	"campusku_backend/internals/features/provisioning/identity"
	"campusku_backend/internals/features/provisioning/service"
	studentModel "campusku_backend/internals/features/users/user_students/model"
	teacherModel "campusku_backend/internals/features/users/user_teachers/model"
	userModel "campusku_backend/internals/features/users/users/model"
	"campusku_backend/internals/helpers/apperr"
)

// rows per INSERT statement
const batchSize = 500

type GormStore struct {
	db *gorm.DB
}

var _ service.Store = (*GormStore)(nil)
var _ service.Tx = (*gormTx)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) InTx(ctx context.Context, fn func(tx service.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

type gormTx struct {
	db *gorm.DB
}

func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return apperr.FromDB(errors.Wrap(err, msg))
}

/* ========== departments ========== */

func (t *gormTx) DepartmentNameTaken(name string) (bool, error) {
	var n int64
	err := t.db.Model(&departmentModel.DepartmentModel{}).
		Where("department_name = ?", name).
		Count(&n).Error
	return n > 0, wrap(err, "checking department name")
}

func (t *gormTx) CreateDepartment(d *departmentModel.DepartmentModel) error {
	err := t.db.Create(d).Error
	if apperr.IsUniqueViolation(err) {
		return apperr.Conflict("department \""+d.DepartmentName+"\" already exists", err)
	}
	return wrap(err, "inserting department")
}

func (t *gormTx) GetDepartment(id uuid.UUID) (*departmentModel.DepartmentModel, error) {
	var d departmentModel.DepartmentModel
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("department_id = ?", id).
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("department not found")
	}
	if err != nil {
		return nil, wrap(err, "loading department")
	}
	return &d, nil
}

func (t *gormTx) SetDepartmentHOD(departmentID, teacherID uuid.UUID) error {
	if err := t.db.Model(&teacherModel.UserTeacherModel{}).
		Where("user_teacher_department_id = ? AND user_teacher_is_hod = ? AND user_teacher_id <> ?", departmentID, true, teacherID).
		Update("user_teacher_is_hod", false).Error; err != nil {
		return wrap(err, "clearing previous hod")
	}
	if err := t.db.Model(&teacherModel.UserTeacherModel{}).
		Where("user_teacher_id = ?", teacherID).
		Update("user_teacher_is_hod", true).Error; err != nil {
		return wrap(err, "flagging hod")
	}
	return wrap(t.db.Model(&departmentModel.DepartmentModel{}).
		Where("department_id = ?", departmentID).
		Update("department_hod_teacher_id", teacherID).Error, "setting department hod")
}

func (t *gormTx) ClearDepartmentHOD(departmentID, teacherID uuid.UUID) error {
	return wrap(t.db.Model(&departmentModel.DepartmentModel{}).
		Where("department_id = ? AND department_hod_teacher_id = ?", departmentID, teacherID).
		Update("department_hod_teacher_id", nil).Error, "clearing department hod")
}

/* ========== accounts ========== */

func (t *gormTx) ExistingAccounts(emails []string) (map[string]identity.Existing, error) {
	out := make(map[string]identity.Existing, len(emails))
	if len(emails) == 0 {
		return out, nil
	}
	var rows []userModel.UserModel
	if err := t.db.Select("id", "email", "role").
		Where("email IN ?", emails).
		Find(&rows).Error; err != nil {
		return nil, wrap(err, "loading existing accounts")
	}
	for _, u := range rows {
		out[u.Email] = identity.Existing{ID: u.ID, Role: u.Role}
	}
	return out, nil
}

func (t *gormTx) CreateAccounts(users []userModel.UserModel) error {
	if len(users) == 0 {
		return nil
	}
	return wrap(t.db.CreateInBatches(&users, batchSize).Error, "inserting accounts")
}

func (t *gormTx) DeleteAccount(userID uuid.UUID) error {
	return wrap(t.db.Where("id = ?", userID).Delete(&userModel.UserModel{}).Error, "deleting account")
}

/* ========== students ========== */

func (t *gormTx) CreateStudents(rows []studentModel.UserStudentModel) error {
	if len(rows) == 0 {
		return nil
	}
	return wrap(t.db.CreateInBatches(&rows, batchSize).Error, "inserting student profiles")
}

func (t *gormTx) GetStudent(id uuid.UUID) (*studentModel.UserStudentModel, error) {
	var st studentModel.UserStudentModel
	err := t.db.Where("user_student_id = ?", id).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("student not found")
	}
	if err != nil {
		return nil, wrap(err, "loading student")
	}
	return &st, nil
}

func (t *gormTx) DeleteStudent(id uuid.UUID) error {
	return wrap(t.db.Where("user_student_id = ?", id).Delete(&studentModel.UserStudentModel{}).Error, "deleting student")
}

func (t *gormTx) DeleteStudentRecords(studentID uuid.UUID) error {
	if err := t.db.Where("class_attendance_participant_student_id = ?", studentID).
		Delete(&attendanceModel.ClassAttendanceParticipantModel{}).Error; err != nil {
		return wrap(err, "deleting attendance entries")
	}
	return wrap(t.db.Where("feedback_response_student_id = ?", studentID).
		Delete(&feedbackModel.FeedbackResponseModel{}).Error, "deleting feedback responses")
}

/* ========== faculty ========== */

func (t *gormTx) CreateTeachers(rows []teacherModel.UserTeacherModel) error {
	if len(rows) == 0 {
		return nil
	}
	return wrap(t.db.CreateInBatches(&rows, batchSize).Error, "inserting faculty profiles")
}

func (t *gormTx) TeachersByUserIDs(userIDs []uuid.UUID) (map[uuid.UUID]teacherModel.UserTeacherModel, error) {
	out := make(map[uuid.UUID]teacherModel.UserTeacherModel, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []teacherModel.UserTeacherModel
	if err := t.db.Where("user_teacher_user_id IN ?", userIDs).Find(&rows).Error; err != nil {
		return nil, wrap(err, "loading faculty profiles")
	}
	for _, r := range rows {
		out[r.UserTeacherUserID] = r
	}
	return out, nil
}

func (t *gormTx) GetTeacher(id uuid.UUID) (*teacherModel.UserTeacherModel, error) {
	var m teacherModel.UserTeacherModel
	err := t.db.Where("user_teacher_id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("faculty not found")
	}
	if err != nil {
		return nil, wrap(err, "loading faculty")
	}
	return &m, nil
}

func (t *gormTx) DeleteTeacher(id uuid.UUID) error {
	return wrap(t.db.Where("user_teacher_id = ?", id).Delete(&teacherModel.UserTeacherModel{}).Error, "deleting faculty")
}

/* ========== offerings ========== */

func (t *gormTx) CreateOfferings(rows []offeringModel.ClassOfferingModel) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := t.db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&rows, batchSize)
	if res.Error != nil {
		return 0, wrap(res.Error, "inserting offerings")
	}
	return res.RowsAffected, nil
}

func (t *gormTx) DeleteOfferingsByTeacher(teacherID uuid.UUID) error {
	offerings := t.db.Model(&offeringModel.ClassOfferingModel{}).
		Select("class_offering_id").
		Where("class_offering_teacher_id = ?", teacherID)
	sessions := t.db.Model(&attendanceModel.ClassAttendanceSessionModel{}).
		Select("class_attendance_session_id").
		Where("class_attendance_session_offering_id IN (?)", offerings)

	if err := t.db.Where("class_attendance_participant_session_id IN (?)", sessions).
		Delete(&attendanceModel.ClassAttendanceParticipantModel{}).Error; err != nil {
		return wrap(err, "deleting attendance entries")
	}
	if err := t.db.Where("class_attendance_session_offering_id IN (?)", offerings).
		Delete(&attendanceModel.ClassAttendanceSessionModel{}).Error; err != nil {
		return wrap(err, "deleting attendance sessions")
	}
	if err := t.db.Where("weekly_feedback_summary_offering_id IN (?)", offerings).
		Delete(&feedbackModel.WeeklyFeedbackSummaryModel{}).Error; err != nil {
		return wrap(err, "deleting weekly summaries")
	}
	if err := t.db.Where("feedback_response_offering_id IN (?)", offerings).
		Delete(&feedbackModel.FeedbackResponseModel{}).Error; err != nil {
		return wrap(err, "deleting feedback responses")
	}
	return wrap(t.db.Where("class_offering_teacher_id = ?", teacherID).
		Delete(&offeringModel.ClassOfferingModel{}).Error, "deleting offerings")
}
