package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campusku_backend/internals/constants"
	offeringModel "campusku_backend/internals/features/academics/class_offerings/model"
	departmentModel "campusku_backend/internals/features/academics/departments/model"
	feedbackModel "campusku_backend/internals/features/feedback/model"
	"campusku_backend/internals/features/feedback/service"
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

/* ========== finalizer ========== */

func (r *GormRepository) ExpiredClassForms(ctx context.Context, now time.Time) ([]feedbackModel.FeedbackFormModel, error) {
	var rows []feedbackModel.FeedbackFormModel
	err := r.db.WithContext(ctx).
		Where("feedback_form_deadline < ? AND feedback_form_scope = ?", now, constants.FeedbackScopeClass).
		Order("feedback_form_deadline ASC, feedback_form_id ASC").
		Find(&rows).Error
	return rows, wrap(err, "loading expired forms")
}

func (r *GormRepository) SummaryExists(ctx context.Context, offeringID uuid.UUID, windowStart time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&feedbackModel.WeeklyFeedbackSummaryModel{}).
		Where("weekly_feedback_summary_offering_id = ? AND weekly_feedback_summary_window_start = ?", offeringID, windowStart).
		Count(&n).Error
	return n > 0, wrap(err, "checking weekly summary")
}

func (r *GormRepository) ResponsesFor(ctx context.Context, formID, offeringID uuid.UUID) ([]feedbackModel.FeedbackResponseModel, error) {
	var rows []feedbackModel.FeedbackResponseModel
	err := r.db.WithContext(ctx).
		Where("feedback_response_form_id = ? AND feedback_response_offering_id = ?", formID, offeringID).
		Find(&rows).Error
	return rows, wrap(err, "loading feedback responses")
}

// InsertSummary relies on uq_weekly_summaries_offering_window; a lost race affects zero rows.
func (r *GormRepository) InsertSummary(ctx context.Context, s *feedbackModel.WeeklyFeedbackSummaryModel) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "weekly_feedback_summary_offering_id"},
				{Name: "weekly_feedback_summary_window_start"},
			},
			DoNothing: true,
		}).
		Create(s)
	if res.Error != nil {
		return false, wrap(res.Error, "inserting weekly summary")
	}
	return res.RowsAffected > 0, nil
}

/* ========== write paths ========== */

func (r *GormRepository) DepartmentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&departmentModel.DepartmentModel{}).
		Where("department_id = ?", id).
		Count(&n).Error
	return n > 0, wrap(err, "checking department")
}

func (r *GormRepository) CountOfferingsInDepartment(ctx context.Context, departmentID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&offeringModel.ClassOfferingModel{}).
		Where("class_offering_department_id = ? AND class_offering_id IN ?", departmentID, ids).
		Count(&n).Error
	return n, wrap(err, "checking form offerings")
}

func (r *GormRepository) StudentInDepartment(ctx context.Context, departmentID, studentID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&studentModel.UserStudentModel{}).
		Where("user_student_department_id = ? AND user_student_id = ?", departmentID, studentID).
		Count(&n).Error
	return n > 0, wrap(err, "checking student")
}

func (r *GormRepository) GetForm(ctx context.Context, id uuid.UUID) (*feedbackModel.FeedbackFormModel, error) {
	var f feedbackModel.FeedbackFormModel
	err := r.db.WithContext(ctx).Where("feedback_form_id = ?", id).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("feedback form not found")
	}
	if err != nil {
		return nil, wrap(err, "loading feedback form")
	}
	return &f, nil
}

func (r *GormRepository) CreateForm(ctx context.Context, f *feedbackModel.FeedbackFormModel) error {
	return wrap(r.db.WithContext(ctx).Create(f).Error, "inserting feedback form")
}

func (r *GormRepository) CreateResponse(ctx context.Context, resp *feedbackModel.FeedbackResponseModel) error {
	err := r.db.WithContext(ctx).Create(resp).Error
	if apperr.IsUniqueViolation(err) {
		return apperr.Conflict("feedback already submitted for this offering", err)
	}
	return wrap(err, "inserting feedback response")
}
