package service

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"campusku_backend/internals/features/feedback/dto"
	feedbackModel "campusku_backend/internals/features/feedback/model"
)

// FinalizeTimeout bounds one finalizer run, whether cron or HTTP triggered.
const FinalizeTimeout = 4 * time.Minute

// FinalizeExpiredForms writes one weekly summary per (offering, form window) for every
// expired class-scoped form. Existing windows are skipped, so re-running is a no-op.
// On a storage failure the report so far is returned with the error.
func (s *Service) FinalizeExpiredForms(ctx context.Context, now time.Time) (dto.FinalizeReport, error) {
	var report dto.FinalizeReport

	forms, err := s.repo.ExpiredClassForms(ctx, now)
	if err != nil {
		return report, err
	}
	sort.SliceStable(forms, func(i, j int) bool {
		if !forms[i].FeedbackFormDeadline.Equal(forms[j].FeedbackFormDeadline) {
			return forms[i].FeedbackFormDeadline.Before(forms[j].FeedbackFormDeadline)
		}
		return forms[i].FeedbackFormID.String() < forms[j].FeedbackFormID.String()
	})

	for _, form := range forms {
		for _, offeringID := range targetOfferings(form) {
			if err := s.finalizeWindow(ctx, form, offeringID, &report); err != nil {
				log.Printf("[FINALIZER] stopped at form=%s offering=%s: %v", form.FeedbackFormID, offeringID, err)
				return report, err
			}
		}
	}

	log.Printf("[FINALIZER] forms=%d created=%d existing=%d empty=%d raced=%d",
		len(forms), report.Created, report.SkippedExisting, report.SkippedEmpty, report.SkippedRaced)
	return report, nil
}

func (s *Service) finalizeWindow(ctx context.Context, form feedbackModel.FeedbackFormModel, offeringID uuid.UUID, report *dto.FinalizeReport) error {
	windowStart := form.FeedbackFormStartsAt

	exists, err := s.repo.SummaryExists(ctx, offeringID, windowStart)
	if err != nil {
		return err
	}
	if exists {
		report.SkippedExisting++
		return nil
	}

	responses, err := s.repo.ResponsesFor(ctx, form.FeedbackFormID, offeringID)
	if err != nil {
		return err
	}
	if len(responses) == 0 {
		report.SkippedEmpty++
		return nil
	}

	var tally ratingTally
	for _, r := range responses {
		if err := tally.add(r.FeedbackResponseAnswers); err != nil {
			log.Printf("[FINALIZER] response=%s ignored: %v", r.FeedbackResponseID, err)
		}
	}

	inserted, err := s.repo.InsertSummary(ctx, &feedbackModel.WeeklyFeedbackSummaryModel{
		WeeklyFeedbackSummaryID:             uuid.New(),
		WeeklyFeedbackSummaryOfferingID:     offeringID,
		WeeklyFeedbackSummaryWindowStart:    windowStart,
		WeeklyFeedbackSummaryWindowEnd:      form.FeedbackFormDeadline,
		WeeklyFeedbackSummaryAverageScore:   tally.average(),
		WeeklyFeedbackSummaryTotalResponses: len(responses),
	})
	if err != nil {
		return err
	}
	if !inserted {
		report.SkippedRaced++
		return nil
	}
	report.Created++
	return nil
}

// targetOfferings parses the form's stored offering ids in order, dropping duplicates.
func targetOfferings(form feedbackModel.FeedbackFormModel) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	out := make([]uuid.UUID, 0, len(form.FeedbackFormOfferingIDs))
	for _, raw := range form.FeedbackFormOfferingIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			log.Printf("[FINALIZER] form=%s bad offering id %q skipped", form.FeedbackFormID, raw)
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
