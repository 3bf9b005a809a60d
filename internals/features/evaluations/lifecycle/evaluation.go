// file: internals/features/evaluations/lifecycle/evaluation.go
package lifecycle

import (
	"time"

	"github.com/google/uuid"

	"restaurantops_backend/internals/features/evaluations/answers"
)

type Status string

const (
	StatusPendingSelfEvaluation Status = "pending_self_evaluation"
	StatusPendingManagerReview  Status = "pending_manager_review"
	StatusInReviewSession       Status = "in_review_session"
	StatusCompleted             Status = "completed"
)

var statusOrder = map[Status]int{
	StatusPendingSelfEvaluation: 0,
	StatusPendingManagerReview:  1,
	StatusInReviewSession:       2,
	StatusCompleted:             3,
}

func (s Status) Valid() bool {
	_, ok := statusOrder[s]
	return ok
}

// Before reports whether s comes strictly earlier in the lifecycle than o.
func (s Status) Before(o Status) bool {
	return statusOrder[s] < statusOrder[o]
}

// Actor is the caller of every core operation, passed explicitly.
type Actor struct {
	ID   uuid.UUID
	Role string
}

type Acknowledgement struct {
	Acknowledged bool       `json:"acknowledged"`
	Date         *time.Time `json:"date,omitempty"`
}

// Evaluation is the aggregate root.
type Evaluation struct {
	ID          uuid.UUID
	EmployeeID  uuid.UUID
	EvaluatorID uuid.UUID
	TemplateID  uuid.UUID
	Status      Status

	ScheduledDate     time.Time
	ReviewSessionDate *time.Time

	SelfEvaluation    answers.Map
	DraftEvaluation   answers.Map
	DraftComments     string
	ManagerEvaluation answers.Map
	OverallComments   string
	Acknowledgement   Acknowledgement

	SelfSubmittedAt *time.Time
	ReviewStartedAt *time.Time
	CompletedAt     *time.Time
	LastReminderAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone deep-copies maps and time pointers so snapshots never alias.
func (e Evaluation) Clone() Evaluation {
	out := e
	out.ReviewSessionDate = cloneTime(e.ReviewSessionDate)
	out.SelfEvaluation = e.SelfEvaluation.Clone()
	out.DraftEvaluation = e.DraftEvaluation.Clone()
	out.ManagerEvaluation = e.ManagerEvaluation.Clone()
	out.Acknowledgement.Date = cloneTime(e.Acknowledgement.Date)
	out.SelfSubmittedAt = cloneTime(e.SelfSubmittedAt)
	out.ReviewStartedAt = cloneTime(e.ReviewStartedAt)
	out.CompletedAt = cloneTime(e.CompletedAt)
	out.LastReminderAt = cloneTime(e.LastReminderAt)
	return out
}

// Terminal: completed and acknowledged. Only external reminders remain.
func (e Evaluation) Terminal() bool {
	return e.Status == StatusCompleted && e.Acknowledgement.Acknowledged
}

func (e Evaluation) IsEmployee(a Actor) bool {
	return a.ID != uuid.Nil && a.ID == e.EmployeeID
}

func (e Evaluation) IsEvaluator(a Actor) bool {
	return a.ID != uuid.Nil && a.ID == e.EvaluatorID
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
