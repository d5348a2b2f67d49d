package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	feedbackModel "campusku_backend/internals/features/feedback/model"
)

// Repository covers the finalizer's reads and writes plus the form/response write paths.
type Repository interface {
	// ExpiredClassForms returns class-scoped forms whose deadline is before now.
	ExpiredClassForms(ctx context.Context, now time.Time) ([]feedbackModel.FeedbackFormModel, error)
	SummaryExists(ctx context.Context, offeringID uuid.UUID, windowStart time.Time) (bool, error)
	ResponsesFor(ctx context.Context, formID, offeringID uuid.UUID) ([]feedbackModel.FeedbackResponseModel, error)
	// InsertSummary reports false when a summary for the same window already exists.
	InsertSummary(ctx context.Context, s *feedbackModel.WeeklyFeedbackSummaryModel) (bool, error)

	DepartmentExists(ctx context.Context, id uuid.UUID) (bool, error)
	CountOfferingsInDepartment(ctx context.Context, departmentID uuid.UUID, ids []uuid.UUID) (int64, error)
	StudentInDepartment(ctx context.Context, departmentID, studentID uuid.UUID) (bool, error)
	GetForm(ctx context.Context, id uuid.UUID) (*feedbackModel.FeedbackFormModel, error)
	CreateForm(ctx context.Context, f *feedbackModel.FeedbackFormModel) error
	CreateResponse(ctx context.Context, r *feedbackModel.FeedbackResponseModel) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}
