package service

import (
	"context"
	"log"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"

	"campusku_backend/internals/constants"
	"campusku_backend/internals/features/feedback/dto"
	feedbackModel "campusku_backend/internals/features/feedback/model"
	"campusku_backend/internals/helpers/apperr"
)

func toFormResponse(f *feedbackModel.FeedbackFormModel) *dto.FormResponse {
	ids := make([]uuid.UUID, 0, len(f.FeedbackFormOfferingIDs))
	for _, raw := range f.FeedbackFormOfferingIDs {
		if id, err := uuid.Parse(raw); err == nil {
			ids = append(ids, id)
		}
	}
	return &dto.FormResponse{
		FormID:       f.FeedbackFormID,
		DepartmentID: f.FeedbackFormDepartmentID,
		Title:        f.FeedbackFormTitle,
		Scope:        f.FeedbackFormScope,
		StartsAt:     f.FeedbackFormStartsAt,
		Deadline:     f.FeedbackFormDeadline,
		OfferingIDs:  ids,
	}
}

// CreateForm opens a feedback window. Class-scoped forms must target at least one
// offering of the same department.
func (s *Service) CreateForm(ctx context.Context, req dto.CreateFormRequest) (*dto.FormResponse, error) {
	title := strings.TrimSpace(req.Title)
	scope := strings.ToLower(strings.TrimSpace(req.Scope))
	if title == "" {
		return nil, apperr.Input("title is required")
	}
	if scope != constants.FeedbackScopeClass && scope != constants.FeedbackScopeDepartment {
		return nil, apperr.Input("scope must be class or department")
	}
	if !req.Deadline.After(req.StartsAt) {
		return nil, apperr.Input("deadline must be after starts_at")
	}

	ids := uniqueIDs(req.OfferingIDs)
	if scope == constants.FeedbackScopeClass && len(ids) == 0 {
		return nil, apperr.Input("class feedback must target at least one offering")
	}

	ok, err := s.repo.DepartmentExists(ctx, req.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("department not found")
	}
	if len(ids) > 0 {
		n, err := s.repo.CountOfferingsInDepartment(ctx, req.DepartmentID, ids)
		if err != nil {
			return nil, err
		}
		if int(n) != len(ids) {
			return nil, apperr.Input("every offering must belong to the department")
		}
	}

	targets := make(pq.StringArray, len(ids))
	for i, id := range ids {
		targets[i] = id.String()
	}
	form := &feedbackModel.FeedbackFormModel{
		FeedbackFormID:           uuid.New(),
		FeedbackFormDepartmentID: req.DepartmentID,
		FeedbackFormTitle:        title,
		FeedbackFormScope:        scope,
		FeedbackFormStartsAt:     req.StartsAt,
		FeedbackFormDeadline:     req.Deadline,
		FeedbackFormOfferingIDs:  targets,
	}
	if err := s.repo.CreateForm(ctx, form); err != nil {
		return nil, err
	}

	log.Printf("[FEEDBACK] form=%s scope=%s offerings=%d window=%s..%s",
		form.FeedbackFormID, scope, len(ids), req.StartsAt.Format("2006-01-02"), req.Deadline.Format("2006-01-02"))
	return toFormResponse(form), nil
}

// SubmitResponse records one student's answers for one offering of an open form.
func (s *Service) SubmitResponse(ctx context.Context, formID uuid.UUID, req dto.SubmitResponseRequest) (*dto.ResponseCreated, error) {
	if len(req.Answers) == 0 {
		return nil, apperr.Input("answers are required")
	}
	form, err := s.repo.GetForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if now.Before(form.FeedbackFormStartsAt) {
		return nil, apperr.Input("feedback form is not open yet")
	}
	if !now.Before(form.FeedbackFormDeadline) {
		return nil, apperr.Input("feedback form deadline has passed")
	}

	if form.FeedbackFormScope == constants.FeedbackScopeClass {
		targeted := false
		for _, id := range targetOfferings(*form) {
			if id == req.OfferingID {
				targeted = true
				break
			}
		}
		if !targeted {
			return nil, apperr.Input("offering is not part of this feedback form")
		}
	} else {
		n, err := s.repo.CountOfferingsInDepartment(ctx, form.FeedbackFormDepartmentID, []uuid.UUID{req.OfferingID})
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, apperr.Input("offering is not part of this feedback form")
		}
	}

	inDept, err := s.repo.StudentInDepartment(ctx, form.FeedbackFormDepartmentID, req.StudentID)
	if err != nil {
		return nil, err
	}
	if !inDept {
		return nil, apperr.Input("student does not belong to the form's department")
	}

	raw, err := sonic.Marshal(req.Answers)
	if err != nil {
		return nil, apperr.Input("answers could not be encoded")
	}
	resp := &feedbackModel.FeedbackResponseModel{
		FeedbackResponseID:         uuid.New(),
		FeedbackResponseFormID:     formID,
		FeedbackResponseStudentID:  req.StudentID,
		FeedbackResponseOfferingID: req.OfferingID,
		FeedbackResponseAnswers:    datatypes.JSON(raw),
	}
	if err := s.repo.CreateResponse(ctx, resp); err != nil {
		return nil, err
	}

	return &dto.ResponseCreated{
		ResponseID: resp.FeedbackResponseID,
		FormID:     formID,
		StudentID:  req.StudentID,
		OfferingID: req.OfferingID,
		Answers:    len(req.Answers),
	}, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
