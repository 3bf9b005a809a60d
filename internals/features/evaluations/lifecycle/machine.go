// file: internals/features/evaluations/lifecycle/machine.go
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"restaurantops_backend/internals/constants"
	"restaurantops_backend/internals/features/evaluations/answers"
	"restaurantops_backend/internals/features/evaluations/navigator"
	tmodel "restaurantops_backend/internals/features/evaluations/templates/model"
)

type Action string

const (
	ActionSubmitSelfEvaluation Action = "submit_self_evaluation"
	ActionSaveSelfDraft        Action = "save_self_draft"
	ActionScheduleReview       Action = "schedule_review"
	ActionStartReview          Action = "start_review"
	ActionSaveManagerDraft     Action = "save_manager_draft"
	ActionCompleteReview       Action = "complete_review"
	ActionAcknowledge          Action = "acknowledge"
	ActionReassignEvaluator    Action = "reassign_evaluator"
	ActionNotifyUnacknowledged Action = "notify_unacknowledged"
)

// Actions lists every action the machine knows about.
var Actions = []Action{
	ActionSubmitSelfEvaluation,
	ActionSaveSelfDraft,
	ActionScheduleReview,
	ActionStartReview,
	ActionSaveManagerDraft,
	ActionCompleteReview,
	ActionAcknowledge,
	ActionReassignEvaluator,
	ActionNotifyUnacknowledged,
}

// Authorize checks role and status for an action. It is the single guard used by
// every transition and also answers "should the UI offer this control".
func Authorize(ev Evaluation, actor Actor, action Action) error {
	deny := func(reason string) error { return NewGuardViolation(action, ev.Status, reason) }

	switch action {
	case ActionSubmitSelfEvaluation, ActionSaveSelfDraft:
		if !ev.IsEmployee(actor) {
			return deny("only the employee may write the self-evaluation")
		}
		if ev.Status != StatusPendingSelfEvaluation {
			return deny("self-evaluation is closed")
		}

	case ActionScheduleReview, ActionStartReview:
		if !ev.IsEvaluator(actor) {
			return deny("only the evaluator may manage the review session")
		}
		if ev.Status != StatusPendingManagerReview {
			return deny("review can only be scheduled or started while pending manager review")
		}

	case ActionSaveManagerDraft, ActionCompleteReview:
		if !ev.IsEvaluator(actor) {
			return deny("only the evaluator may write manager answers")
		}
		if ev.Status != StatusInReviewSession {
			return deny("manager answers are writable only during the review session")
		}
		if action == ActionCompleteReview && len(ev.ManagerEvaluation) > 0 {
			return deny("manager evaluation is already final")
		}

	case ActionAcknowledge:
		if !ev.IsEmployee(actor) {
			return deny("only the employee may acknowledge")
		}
		if ev.Status != StatusCompleted {
			return deny("evaluation is not completed")
		}
		if ev.Acknowledgement.Acknowledged {
			return deny("already acknowledged")
		}

	case ActionReassignEvaluator:
		if !constants.IsAdmin(actor.Role) {
			return deny("only an admin may reassign the evaluator")
		}
		if ev.Status == StatusCompleted {
			return deny("completed evaluations cannot be reassigned")
		}

	case ActionNotifyUnacknowledged:
		if !ev.IsEvaluator(actor) && !constants.IsAdmin(actor.Role) {
			return deny("only the evaluator or an admin may send reminders")
		}
		if ev.Status != StatusCompleted {
			return deny("evaluation is not completed")
		}
		if ev.Acknowledgement.Acknowledged {
			return deny("already acknowledged")
		}

	default:
		return NewGuardViolation(action, ev.Status, "unknown action")
	}
	return nil
}

// Allowed lists the actions the actor may currently take.
func Allowed(ev Evaluation, actor Actor) []Action {
	out := []Action{}
	for _, a := range Actions {
		if Authorize(ev, actor, a) == nil {
			out = append(out, a)
		}
	}
	return out
}

// CheckAnswers rejects keys that do not address a template question.
func CheckAnswers(tpl tmodel.Template, action Action, ans answers.Map) error {
	bad := []string{}
	for _, k := range ans.Keys() {
		if _, ok := tpl.Question(k); !ok {
			bad = append(bad, k.String())
		}
	}
	if len(bad) > 0 {
		return FieldError(action, "answers", "unknown question key(s): "+strings.Join(bad, ", "))
	}
	return nil
}

// RequireComplete returns a ValidationError naming every unanswered required question.
func RequireComplete(tpl tmodel.Template, action Action, ans answers.Map) error {
	missing := navigator.MissingRequired(tpl, ans)
	if len(missing) == 0 {
		return nil
	}
	ve := &ValidationError{Action: action}
	for _, k := range missing {
		ve.Missing = append(ve.Missing, MissingAnswer{Key: k, ID: k.String(), Label: tpl.Label(k)})
	}
	return ve
}

// SubmitSelfEvaluation: pending_self_evaluation → pending_manager_review.
func SubmitSelfEvaluation(ev Evaluation, tpl tmodel.Template, actor Actor, ans answers.Map, now time.Time) (Evaluation, error) {
	if err := Authorize(ev, actor, ActionSubmitSelfEvaluation); err != nil {
		return ev, err
	}
	if err := CheckAnswers(tpl, ActionSubmitSelfEvaluation, ans); err != nil {
		return ev, err
	}
	if err := RequireComplete(tpl, ActionSubmitSelfEvaluation, ans); err != nil {
		return ev, err
	}
	next := ev.Clone()
	next.SelfEvaluation = ans.Clone()
	next.Status = StatusPendingManagerReview
	next.SelfSubmittedAt = &now
	return next, nil
}

// ScheduleReview sets the session date. Status does not change.
func ScheduleReview(ev Evaluation, actor Actor, at time.Time) (Evaluation, error) {
	if err := Authorize(ev, actor, ActionScheduleReview); err != nil {
		return ev, err
	}
	if at.IsZero() {
		return ev, FieldError(ActionScheduleReview, "reviewSessionDate", "is required")
	}
	next := ev.Clone()
	at = at.UTC()
	next.ReviewSessionDate = &at
	return next, nil
}

// StartReview: pending_manager_review → in_review_session. Any existing draft is kept.
func StartReview(ev Evaluation, actor Actor, now time.Time) (Evaluation, error) {
	if err := Authorize(ev, actor, ActionStartReview); err != nil {
		return ev, err
	}
	next := ev.Clone()
	next.Status = StatusInReviewSession
	next.ReviewStartedAt = &now
	return next, nil
}

// CompleteReview persists the answers it completes with, then finalizes:
// in_review_session → completed. managerEvaluation is written exactly once here.
func CompleteReview(ev Evaluation, tpl tmodel.Template, actor Actor, ans answers.Map, comments string, now time.Time) (Evaluation, error) {
	if err := Authorize(ev, actor, ActionCompleteReview); err != nil {
		return ev, err
	}
	if err := CheckAnswers(tpl, ActionCompleteReview, ans); err != nil {
		return ev, err
	}
	if err := RequireComplete(tpl, ActionCompleteReview, ans); err != nil {
		return ev, err
	}
	next := ev.Clone()
	next.DraftEvaluation = ans.Clone()
	next.DraftComments = comments
	next.ManagerEvaluation = ans.Clone()
	next.OverallComments = comments
	next.Status = StatusCompleted
	next.CompletedAt = &now
	return next, nil
}

// Acknowledge records the employee's acknowledgement. Status stays completed.
func Acknowledge(ev Evaluation, actor Actor, now time.Time) (Evaluation, error) {
	if err := Authorize(ev, actor, ActionAcknowledge); err != nil {
		return ev, err
	}
	next := ev.Clone()
	next.Acknowledgement = Acknowledgement{Acknowledged: true, Date: &now}
	return next, nil
}

// ReassignEvaluator is the admin side-channel. Status does not change.
func ReassignEvaluator(ev Evaluation, actor Actor, target Actor) (Evaluation, error) {
	if err := Authorize(ev, actor, ActionReassignEvaluator); err != nil {
		return ev, err
	}
	if !constants.IsElevated(target.Role) {
		return ev, NewGuardViolation(ActionReassignEvaluator, ev.Status,
			fmt.Sprintf("user %s lacks an evaluator role (has %q)", target.ID, target.Role))
	}
	if target.ID == ev.EmployeeID {
		return ev, NewGuardViolation(ActionReassignEvaluator, ev.Status, "employee cannot evaluate themselves")
	}
	next := ev.Clone()
	next.EvaluatorID = target.ID
	return next, nil
}

// MarkReminded checks the reminder guard and stamps the send time.
func MarkReminded(ev Evaluation, actor Actor, now time.Time) (Evaluation, error) {
	if err := Authorize(ev, actor, ActionNotifyUnacknowledged); err != nil {
		return ev, err
	}
	next := ev.Clone()
	next.LastReminderAt = &now
	return next, nil
}
