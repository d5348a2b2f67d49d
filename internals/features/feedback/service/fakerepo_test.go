package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"campusku_backend/internals/constants"
	feedbackModel "campusku_backend/internals/features/feedback/model"
	"campusku_backend/internals/helpers/apperr"
)

type fakeRepo struct {
	departments map[uuid.UUID]bool
	// offering id -> department id
	offerings map[uuid.UUID]uuid.UUID
	// student id -> department id
	students  map[uuid.UUID]uuid.UUID
	forms     []feedbackModel.FeedbackFormModel
	responses []feedbackModel.FeedbackResponseModel
	summaries []feedbackModel.WeeklyFeedbackSummaryModel

	// hideSummaries makes SummaryExists miss, as a concurrent finalizer would.
	hideSummaries bool
	failInsertAt  int
	inserts       int
}

var _ Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		departments: map[uuid.UUID]bool{},
		offerings:   map[uuid.UUID]uuid.UUID{},
		students:    map[uuid.UUID]uuid.UUID{},
	}
}

func (f *fakeRepo) ExpiredClassForms(_ context.Context, now time.Time) ([]feedbackModel.FeedbackFormModel, error) {
	var out []feedbackModel.FeedbackFormModel
	for _, form := range f.forms {
		if form.FeedbackFormDeadline.Before(now) && form.FeedbackFormScope == constants.FeedbackScopeClass {
			out = append(out, form)
		}
	}
	return out, nil
}

func (f *fakeRepo) SummaryExists(_ context.Context, offeringID uuid.UUID, windowStart time.Time) (bool, error) {
	if f.hideSummaries {
		return false, nil
	}
	for _, s := range f.summaries {
		if s.WeeklyFeedbackSummaryOfferingID == offeringID && s.WeeklyFeedbackSummaryWindowStart.Equal(windowStart) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ResponsesFor(_ context.Context, formID, offeringID uuid.UUID) ([]feedbackModel.FeedbackResponseModel, error) {
	var out []feedbackModel.FeedbackResponseModel
	for _, r := range f.responses {
		if r.FeedbackResponseFormID == formID && r.FeedbackResponseOfferingID == offeringID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) InsertSummary(_ context.Context, s *feedbackModel.WeeklyFeedbackSummaryModel) (bool, error) {
	f.inserts++
	if f.failInsertAt > 0 && f.inserts == f.failInsertAt {
		return false, errors.New("connection reset")
	}
	for _, ex := range f.summaries {
		if ex.WeeklyFeedbackSummaryOfferingID == s.WeeklyFeedbackSummaryOfferingID &&
			ex.WeeklyFeedbackSummaryWindowStart.Equal(s.WeeklyFeedbackSummaryWindowStart) {
			return false, nil
		}
	}
	f.summaries = append(f.summaries, *s)
	return true, nil
}

func (f *fakeRepo) DepartmentExists(_ context.Context, id uuid.UUID) (bool, error) {
	return f.departments[id], nil
}

func (f *fakeRepo) CountOfferingsInDepartment(_ context.Context, departmentID uuid.UUID, ids []uuid.UUID) (int64, error) {
	var n int64
	for _, id := range ids {
		if dept, ok := f.offerings[id]; ok && dept == departmentID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) StudentInDepartment(_ context.Context, departmentID, studentID uuid.UUID) (bool, error) {
	dept, ok := f.students[studentID]
	return ok && dept == departmentID, nil
}

func (f *fakeRepo) GetForm(_ context.Context, id uuid.UUID) (*feedbackModel.FeedbackFormModel, error) {
	for _, form := range f.forms {
		if form.FeedbackFormID == id {
			return &form, nil
		}
	}
	return nil, apperr.NotFound("feedback form not found")
}

func (f *fakeRepo) CreateForm(_ context.Context, form *feedbackModel.FeedbackFormModel) error {
	f.forms = append(f.forms, *form)
	return nil
}

func (f *fakeRepo) CreateResponse(_ context.Context, r *feedbackModel.FeedbackResponseModel) error {
	for _, ex := range f.responses {
		if ex.FeedbackResponseFormID == r.FeedbackResponseFormID &&
			ex.FeedbackResponseStudentID == r.FeedbackResponseStudentID &&
			ex.FeedbackResponseOfferingID == r.FeedbackResponseOfferingID {
			return apperr.Conflict("feedback already submitted for this offering", nil)
		}
	}
	f.responses = append(f.responses, *r)
	return nil
}
