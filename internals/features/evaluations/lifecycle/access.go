package lifecycle

import "restaurantops_backend/internals/constants"

// Read-side and creation checks. They are not state transitions, so they stay
// out of Actions and Allowed.
const (
	ActionView   Action = "view_evaluation"
	ActionCreate Action = "create_evaluation"
)

// CanView lets the employee, the evaluator and admins read an evaluation.
func CanView(ev Evaluation, actor Actor) error {
	if ev.IsEmployee(actor) || ev.IsEvaluator(actor) || constants.IsAdmin(actor.Role) {
		return nil
	}
	return NewGuardViolation(ActionView, ev.Status, "not a participant of this evaluation")
}

// CanCreate checks the creator and the proposed participants.
func CanCreate(creator, employee, evaluator Actor) error {
	if !constants.HasRole(creator.Role, constants.ManagerAndAbove) {
		return NewGuardViolation(ActionCreate, "", "only an admin, Director or Leader may create evaluations")
	}
	if !constants.IsElevated(evaluator.Role) {
		return NewGuardViolation(ActionCreate, "", "evaluator must hold the Director or Leader role")
	}
	if employee.ID == evaluator.ID {
		return NewGuardViolation(ActionCreate, "", "employee cannot evaluate themselves")
	}
	return nil
}

// Redact hides the manager's working draft from the employee and the final
// manager answers until the review is completed.
func Redact(ev Evaluation, actor Actor) Evaluation {
	out := ev.Clone()
	if ev.IsEvaluator(actor) || constants.IsAdmin(actor.Role) {
		return out
	}
	out.DraftEvaluation = nil
	out.DraftComments = ""
	if ev.Status != StatusCompleted {
		out.ManagerEvaluation = nil
		out.OverallComments = ""
	}
	return out
}
