package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type FeedbackFormModel struct {
	FeedbackFormID           uuid.UUID `json:"feedback_form_id" gorm:"type:uuid;primaryKey;column:feedback_form_id"`
	FeedbackFormDepartmentID uuid.UUID `json:"feedback_form_department_id" gorm:"type:uuid;not null;column:feedback_form_department_id;index"`
	FeedbackFormTitle        string    `json:"feedback_form_title" gorm:"type:varchar(200);not null;column:feedback_form_title"`
	FeedbackFormScope        string    `json:"feedback_form_scope" gorm:"type:varchar(20);not null;column:feedback_form_scope"`

	FeedbackFormStartsAt time.Time `json:"feedback_form_starts_at" gorm:"not null;column:feedback_form_starts_at"`
	FeedbackFormDeadline time.Time `json:"feedback_form_deadline" gorm:"not null;column:feedback_form_deadline;index"`

	// targeted class_offering ids
	FeedbackFormOfferingIDs pq.StringArray `json:"feedback_form_offering_ids" gorm:"type:text[];column:feedback_form_offering_ids"`

	FeedbackFormCreatedAt time.Time `json:"feedback_form_created_at" gorm:"column:feedback_form_created_at;autoCreateTime"`
}

func (FeedbackFormModel) TableName() string { return "feedback_forms" }

type FeedbackResponseModel struct {
	FeedbackResponseID         uuid.UUID `json:"feedback_response_id" gorm:"type:uuid;primaryKey;column:feedback_response_id"`
	FeedbackResponseFormID     uuid.UUID `json:"feedback_response_form_id" gorm:"type:uuid;not null;column:feedback_response_form_id;uniqueIndex:uq_feedback_responses_once,priority:1"`
	FeedbackResponseStudentID  uuid.UUID `json:"feedback_response_student_id" gorm:"type:uuid;not null;column:feedback_response_student_id;uniqueIndex:uq_feedback_responses_once,priority:2"`
	FeedbackResponseOfferingID uuid.UUID `json:"feedback_response_offering_id" gorm:"type:uuid;not null;column:feedback_response_offering_id;uniqueIndex:uq_feedback_responses_once,priority:3"`

	// [{"question_id": "...", "value": 4}]
	FeedbackResponseAnswers datatypes.JSON `json:"feedback_response_answers" gorm:"type:jsonb;not null;column:feedback_response_answers"`

	FeedbackResponseCreatedAt time.Time `json:"feedback_response_created_at" gorm:"column:feedback_response_created_at;autoCreateTime"`
}

func (FeedbackResponseModel) TableName() string { return "feedback_responses" }

// WeeklyFeedbackSummaryModel is written once per (offering, window start) and never updated.
type WeeklyFeedbackSummaryModel struct {
	WeeklyFeedbackSummaryID             uuid.UUID `json:"weekly_feedback_summary_id" gorm:"type:uuid;primaryKey;column:weekly_feedback_summary_id"`
	WeeklyFeedbackSummaryOfferingID     uuid.UUID `json:"weekly_feedback_summary_offering_id" gorm:"type:uuid;not null;column:weekly_feedback_summary_offering_id;uniqueIndex:uq_weekly_summaries_offering_window,priority:1"`
	WeeklyFeedbackSummaryWindowStart    time.Time `json:"weekly_feedback_summary_window_start" gorm:"not null;column:weekly_feedback_summary_window_start;uniqueIndex:uq_weekly_summaries_offering_window,priority:2"`
	WeeklyFeedbackSummaryWindowEnd      time.Time `json:"weekly_feedback_summary_window_end" gorm:"not null;column:weekly_feedback_summary_window_end"`
	WeeklyFeedbackSummaryAverageScore   float64   `json:"weekly_feedback_summary_average_score" gorm:"type:numeric(5,2);not null;column:weekly_feedback_summary_average_score"`
	WeeklyFeedbackSummaryTotalResponses int       `json:"weekly_feedback_summary_total_responses" gorm:"not null;column:weekly_feedback_summary_total_responses"`

	WeeklyFeedbackSummaryCreatedAt time.Time `json:"weekly_feedback_summary_created_at" gorm:"column:weekly_feedback_summary_created_at;autoCreateTime"`
}

func (WeeklyFeedbackSummaryModel) TableName() string { return "weekly_feedback_summaries" }
