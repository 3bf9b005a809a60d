// file: internals/features/evaluations/evaluations/model/evaluation_model.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"restaurantops_backend/internals/features/evaluations/answers"
	"restaurantops_backend/internals/features/evaluations/lifecycle"
)

type EvaluationModel struct {
	EvaluationID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:evaluation_id" json:"evaluation_id"`
	EvaluationEmployeeID  uuid.UUID `gorm:"type:uuid;not null;index;column:evaluation_employee_id" json:"evaluation_employee_id"`
	EvaluationEvaluatorID uuid.UUID `gorm:"type:uuid;not null;index;column:evaluation_evaluator_id" json:"evaluation_evaluator_id"`
	EvaluationTemplateID  uuid.UUID `gorm:"type:uuid;not null;index;column:evaluation_template_id" json:"evaluation_template_id"`
	EvaluationStatus      string    `gorm:"type:varchar(32);not null;default:'pending_self_evaluation';index;column:evaluation_status" json:"evaluation_status"`

	EvaluationScheduledDate     time.Time  `gorm:"type:timestamptz;not null;column:evaluation_scheduled_date" json:"evaluation_scheduled_date"`
	EvaluationReviewSessionDate *time.Time `gorm:"type:timestamptz;column:evaluation_review_session_date" json:"evaluation_review_session_date,omitempty"`

	// JSONB answer maps keyed "<section>-<question>"
	EvaluationSelfAnswers    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}';column:evaluation_self_answers" json:"evaluation_self_answers"`
	EvaluationDraftAnswers   datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}';column:evaluation_draft_answers" json:"evaluation_draft_answers"`
	EvaluationDraftComments  string            `gorm:"type:text;not null;default:'';column:evaluation_draft_comments" json:"evaluation_draft_comments"`
	EvaluationManagerAnswers datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}';column:evaluation_manager_answers" json:"evaluation_manager_answers"`
	EvaluationComments       string            `gorm:"type:text;not null;default:'';column:evaluation_comments" json:"evaluation_comments"`

	EvaluationAcknowledged   bool       `gorm:"not null;default:false;column:evaluation_acknowledged" json:"evaluation_acknowledged"`
	EvaluationAcknowledgedAt *time.Time `gorm:"type:timestamptz;column:evaluation_acknowledged_at" json:"evaluation_acknowledged_at,omitempty"`

	EvaluationSelfSubmittedAt *time.Time `gorm:"type:timestamptz;column:evaluation_self_submitted_at" json:"evaluation_self_submitted_at,omitempty"`
	EvaluationReviewStartedAt *time.Time `gorm:"type:timestamptz;column:evaluation_review_started_at" json:"evaluation_review_started_at,omitempty"`
	EvaluationCompletedAt     *time.Time `gorm:"type:timestamptz;index;column:evaluation_completed_at" json:"evaluation_completed_at,omitempty"`
	EvaluationLastReminderAt  *time.Time `gorm:"type:timestamptz;column:evaluation_last_reminder_at" json:"evaluation_last_reminder_at,omitempty"`

	EvaluationCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:evaluation_created_at" json:"evaluation_created_at"`
	EvaluationUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:evaluation_updated_at" json:"evaluation_updated_at"`
	EvaluationDeletedAt gorm.DeletedAt `gorm:"column:evaluation_deleted_at;index" json:"evaluation_deleted_at,omitempty"`
}

func (EvaluationModel) TableName() string { return "evaluations" }

// ToDomain decodes the JSONB maps. A malformed stored key is an error, not silently dropped.
func (m EvaluationModel) ToDomain() (lifecycle.Evaluation, error) {
	self, err := answers.Decode(m.EvaluationSelfAnswers)
	if err != nil {
		return lifecycle.Evaluation{}, fmt.Errorf("evaluation %s self answers: %w", m.EvaluationID, err)
	}
	draft, err := answers.Decode(m.EvaluationDraftAnswers)
	if err != nil {
		return lifecycle.Evaluation{}, fmt.Errorf("evaluation %s draft answers: %w", m.EvaluationID, err)
	}
	manager, err := answers.Decode(m.EvaluationManagerAnswers)
	if err != nil {
		return lifecycle.Evaluation{}, fmt.Errorf("evaluation %s manager answers: %w", m.EvaluationID, err)
	}

	return lifecycle.Evaluation{
		ID:                m.EvaluationID,
		EmployeeID:        m.EvaluationEmployeeID,
		EvaluatorID:       m.EvaluationEvaluatorID,
		TemplateID:        m.EvaluationTemplateID,
		Status:            lifecycle.Status(m.EvaluationStatus),
		ScheduledDate:     m.EvaluationScheduledDate,
		ReviewSessionDate: m.EvaluationReviewSessionDate,
		SelfEvaluation:    self,
		DraftEvaluation:   draft,
		DraftComments:     m.EvaluationDraftComments,
		ManagerEvaluation: manager,
		OverallComments:   m.EvaluationComments,
		Acknowledgement: lifecycle.Acknowledgement{
			Acknowledged: m.EvaluationAcknowledged,
			Date:         m.EvaluationAcknowledgedAt,
		},
		SelfSubmittedAt: m.EvaluationSelfSubmittedAt,
		ReviewStartedAt: m.EvaluationReviewStartedAt,
		CompletedAt:     m.EvaluationCompletedAt,
		LastReminderAt:  m.EvaluationLastReminderAt,
		CreatedAt:       m.EvaluationCreatedAt,
		UpdatedAt:       m.EvaluationUpdatedAt,
	}, nil
}

func FromDomain(e lifecycle.Evaluation) EvaluationModel {
	return EvaluationModel{
		EvaluationID:                e.ID,
		EvaluationEmployeeID:        e.EmployeeID,
		EvaluationEvaluatorID:       e.EvaluatorID,
		EvaluationTemplateID:        e.TemplateID,
		EvaluationStatus:            string(e.Status),
		EvaluationScheduledDate:     e.ScheduledDate,
		EvaluationReviewSessionDate: e.ReviewSessionDate,
		EvaluationSelfAnswers:       datatypes.JSONMap(e.SelfEvaluation.Encode()),
		EvaluationDraftAnswers:      datatypes.JSONMap(e.DraftEvaluation.Encode()),
		EvaluationDraftComments:     e.DraftComments,
		EvaluationManagerAnswers:    datatypes.JSONMap(e.ManagerEvaluation.Encode()),
		EvaluationComments:          e.OverallComments,
		EvaluationAcknowledged:      e.Acknowledgement.Acknowledged,
		EvaluationAcknowledgedAt:    e.Acknowledgement.Date,
		EvaluationSelfSubmittedAt:   e.SelfSubmittedAt,
		EvaluationReviewStartedAt:   e.ReviewStartedAt,
		EvaluationCompletedAt:       e.CompletedAt,
		EvaluationLastReminderAt:    e.LastReminderAt,
		EvaluationCreatedAt:         e.CreatedAt,
		EvaluationUpdatedAt:         e.UpdatedAt,
	}
}

// Columns written by UpdateEvaluation. Identity columns and created_at stay put.
var MutableColumns = []string{
	"evaluation_evaluator_id",
	"evaluation_status",
	"evaluation_review_session_date",
	"evaluation_self_answers",
	"evaluation_draft_answers",
	"evaluation_draft_comments",
	"evaluation_manager_answers",
	"evaluation_comments",
	"evaluation_acknowledged",
	"evaluation_acknowledged_at",
	"evaluation_self_submitted_at",
	"evaluation_review_started_at",
	"evaluation_completed_at",
	"evaluation_last_reminder_at",
	"evaluation_updated_at",
}
