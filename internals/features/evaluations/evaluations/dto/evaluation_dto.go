package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"restaurantops_backend/internals/features/evaluations/answers"
	"restaurantops_backend/internals/features/evaluations/evaluations/service"
	"restaurantops_backend/internals/features/evaluations/lifecycle"
	"restaurantops_backend/internals/features/evaluations/navigator"
	"restaurantops_backend/internals/features/evaluations/scoring"
	tmodel "restaurantops_backend/internals/features/evaluations/templates/model"
)

/* ===============================
   Requests
=================================*/

type SubmitSelfEvaluationRequest struct {
	Evaluation answers.Map `json:"evaluation"`
}

type ScheduleReviewRequest struct {
	ReviewSessionDate string `json:"reviewSessionDate" validate:"required"`
}

// SaveDraftRequest picks the draft kind by which map is present, so an empty
// map is still sent as {} and only a nil map is left out.
type SaveDraftRequest struct {
	SelfEvaluation      answers.Map `json:"selfEvaluation"`
	ManagerEvaluation   answers.Map `json:"managerEvaluation"`
	OverallComments     *string     `json:"overallComments,omitempty" validate:"omitempty,max=10000"`
	PreventStatusChange bool        `json:"preventStatusChange,omitempty"`
}

type saveDraftWire struct {
	SelfEvaluation      *answers.Map `json:"selfEvaluation,omitempty"`
	ManagerEvaluation   *answers.Map `json:"managerEvaluation,omitempty"`
	OverallComments     *string      `json:"overallComments,omitempty"`
	PreventStatusChange bool         `json:"preventStatusChange,omitempty"`
}

func (r SaveDraftRequest) MarshalJSON() ([]byte, error) {
	w := saveDraftWire{OverallComments: r.OverallComments, PreventStatusChange: r.PreventStatusChange}
	if r.SelfEvaluation != nil {
		w.SelfEvaluation = &r.SelfEvaluation
	}
	if r.ManagerEvaluation != nil {
		w.ManagerEvaluation = &r.ManagerEvaluation
	}
	return json.Marshal(w)
}

func (r SaveDraftRequest) ToPayload() lifecycle.DraftPayload {
	return lifecycle.DraftPayload{
		Self:                r.SelfEvaluation,
		Manager:             r.ManagerEvaluation,
		OverallComments:     r.OverallComments,
		PreventStatusChange: r.PreventStatusChange,
	}
}

type CompleteReviewRequest struct {
	Evaluation      answers.Map `json:"evaluation"`
	OverallComments string      `json:"overallComments" validate:"max=10000"`
}

type ReassignEvaluatorRequest struct {
	EvaluatorID string `json:"evaluatorId" validate:"required,uuid"`
}

type CreateEvaluationRequest struct {
	EmployeeID    string `json:"employeeId" validate:"required,uuid"`
	EvaluatorID   string `json:"evaluatorId" validate:"required,uuid"`
	TemplateID    string `json:"templateId" validate:"required,uuid"`
	ScheduledDate string `json:"scheduledDate" validate:"required"`
}

// ToInput expects a validated request.
func (r CreateEvaluationRequest) ToInput() (service.CreateInput, error) {
	at, err := ParseDate("scheduledDate", r.ScheduledDate)
	if err != nil {
		return service.CreateInput{}, err
	}
	return service.CreateInput{
		EmployeeID:    uuid.MustParse(r.EmployeeID),
		EvaluatorID:   uuid.MustParse(r.EvaluatorID),
		TemplateID:    uuid.MustParse(r.TemplateID),
		ScheduledDate: at,
	}, nil
}

// ParseDate accepts RFC3339 or a bare YYYY-MM-DD (midnight UTC).
func ParseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, lifecycle.FieldError("parse_date", field, "must be RFC3339 or YYYY-MM-DD")
}

/* ===============================
   Responses
=================================*/

type PersonResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role string    `json:"role,omitempty"`
}

type ScoreResponse struct {
	Score      int `json:"score"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

func toScore(r scoring.Result) ScoreResponse {
	return ScoreResponse{Score: r.Score, Total: r.Total, Percentage: r.Percentage()}
}

type ScoresResponse struct {
	Self    ScoreResponse  `json:"self"`
	Manager *ScoreResponse `json:"manager,omitempty"`
}

type EditableResponse struct {
	Answers  answers.Map      `json:"answers"`
	Comments string           `json:"comments"`
	Cursor   navigator.Cursor `json:"cursor"`
}

type EvaluationResponse struct {
	ID                uuid.UUID                 `json:"id"`
	Employee          PersonResponse            `json:"employee"`
	Evaluator         PersonResponse            `json:"evaluator"`
	Template          tmodel.Template           `json:"template"`
	GradingScales     []tmodel.GradingScale     `json:"gradingScales"`
	Status            lifecycle.Status          `json:"status"`
	ScheduledDate     time.Time                 `json:"scheduledDate"`
	ReviewSessionDate *time.Time                `json:"reviewSessionDate,omitempty"`
	SelfEvaluation    answers.Map               `json:"selfEvaluation,omitempty"`
	ManagerEvaluation answers.Map               `json:"managerEvaluation,omitempty"`
	DraftEvaluation   answers.Map               `json:"draftEvaluation,omitempty"`
	DraftComments     string                    `json:"draftComments,omitempty"`
	OverallComments   string                    `json:"overallComments,omitempty"`
	Acknowledgement   lifecycle.Acknowledgement `json:"acknowledgement"`

	SelfSubmittedAt *time.Time `json:"selfSubmittedAt,omitempty"`
	ReviewStartedAt *time.Time `json:"reviewStartedAt,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	LastReminderAt  *time.Time `json:"lastReminderAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	Scores         ScoresResponse                     `json:"scores"`
	Comparison     map[answers.Key]scoring.Comparison `json:"comparison,omitempty"`
	Editable       *EditableResponse                  `json:"editable,omitempty"`
	AllowedActions []lifecycle.Action                 `json:"allowedActions"`
}

func FromDetail(d service.Detail) EvaluationResponse {
	ev := d.Evaluation
	scales := make([]tmodel.GradingScale, 0, len(d.Scales))
	for _, id := range d.Template.ScaleIDs() {
		if g, ok := d.Scales[id]; ok {
			scales = append(scales, g)
		}
	}

	out := EvaluationResponse{
		ID:                ev.ID,
		Employee:          PersonResponse(d.Employee),
		Evaluator:         PersonResponse(d.Evaluator),
		Template:          d.Template,
		GradingScales:     scales,
		Status:            ev.Status,
		ScheduledDate:     ev.ScheduledDate,
		ReviewSessionDate: ev.ReviewSessionDate,
		SelfEvaluation:    ev.SelfEvaluation,
		ManagerEvaluation: ev.ManagerEvaluation,
		DraftEvaluation:   ev.DraftEvaluation,
		DraftComments:     ev.DraftComments,
		OverallComments:   ev.OverallComments,
		Acknowledgement:   ev.Acknowledgement,
		SelfSubmittedAt:   ev.SelfSubmittedAt,
		ReviewStartedAt:   ev.ReviewStartedAt,
		CompletedAt:       ev.CompletedAt,
		LastReminderAt:    ev.LastReminderAt,
		CreatedAt:         ev.CreatedAt,
		UpdatedAt:         ev.UpdatedAt,
		Scores:            ScoresResponse{Self: toScore(d.SelfScore)},
		Comparison:        d.Comparison,
		AllowedActions:    d.Allowed,
	}
	if out.AllowedActions == nil {
		out.AllowedActions = []lifecycle.Action{}
	}
	if d.ManagerScore != nil {
		m := toScore(*d.ManagerScore)
		out.Scores.Manager = &m
	}
	if d.Editable != nil {
		out.Editable = &EditableResponse{Answers: d.Editable.Answers, Comments: d.Editable.Comments, Cursor: d.Editable.Cursor}
	}
	return out
}

// EvaluationSummary is a list row; answers are left out.
type EvaluationSummary struct {
	ID                uuid.UUID                 `json:"id"`
	EmployeeID        uuid.UUID                 `json:"employeeId"`
	EvaluatorID       uuid.UUID                 `json:"evaluatorId"`
	TemplateID        uuid.UUID                 `json:"templateId"`
	Status            lifecycle.Status          `json:"status"`
	ScheduledDate     time.Time                 `json:"scheduledDate"`
	ReviewSessionDate *time.Time                `json:"reviewSessionDate,omitempty"`
	Acknowledgement   lifecycle.Acknowledgement `json:"acknowledgement"`
	CompletedAt       *time.Time                `json:"completedAt,omitempty"`
	UpdatedAt         time.Time                 `json:"updatedAt"`
}

func ToSummaries(rows []lifecycle.Evaluation) []EvaluationSummary {
	out := make([]EvaluationSummary, 0, len(rows))
	for _, ev := range rows {
		out = append(out, EvaluationSummary{
			ID:                ev.ID,
			EmployeeID:        ev.EmployeeID,
			EvaluatorID:       ev.EvaluatorID,
			TemplateID:        ev.TemplateID,
			Status:            ev.Status,
			ScheduledDate:     ev.ScheduledDate,
			ReviewSessionDate: ev.ReviewSessionDate,
			Acknowledgement:   ev.Acknowledgement,
			CompletedAt:       ev.CompletedAt,
			UpdatedAt:         ev.UpdatedAt,
		})
	}
	return out
}
