// file: internals/features/evaluations/lifecycle/draft.go
package lifecycle

import (
	"restaurantops_backend/internals/features/evaluations/answers"
	tmodel "restaurantops_backend/internals/features/evaluations/templates/model"
)

// DraftPayload is a checkpoint write. Exactly one of Self or Manager is set.
// It never changes status; PreventStatusChange is accepted for wire compatibility.
type DraftPayload struct {
	Self                answers.Map
	Manager             answers.Map
	OverallComments     *string
	PreventStatusChange bool
}

// DraftAction resolves which guard applies to the payload.
func (p DraftPayload) DraftAction() Action {
	if p.Manager != nil {
		return ActionSaveManagerDraft
	}
	return ActionSaveSelfDraft
}

// SaveDraft writes a checkpoint. Repeating the same payload yields the same state.
func SaveDraft(ev Evaluation, tpl tmodel.Template, actor Actor, p DraftPayload) (Evaluation, error) {
	if p.Self != nil && p.Manager != nil {
		return ev, FieldError(ActionSaveManagerDraft, "payload", "send either selfEvaluation or managerEvaluation, not both")
	}
	if p.Self == nil && p.Manager == nil {
		return ev, FieldError(ActionSaveManagerDraft, "payload", "selfEvaluation or managerEvaluation is required")
	}

	action := p.DraftAction()
	if err := Authorize(ev, actor, action); err != nil {
		return ev, err
	}

	next := ev.Clone()
	switch action {
	case ActionSaveSelfDraft:
		if err := CheckAnswers(tpl, action, p.Self); err != nil {
			return ev, err
		}
		next.SelfEvaluation = p.Self.Clone()
	default:
		if err := CheckAnswers(tpl, action, p.Manager); err != nil {
			return ev, err
		}
		next.DraftEvaluation = p.Manager.Clone()
		if p.OverallComments != nil {
			next.DraftComments = *p.OverallComments
		}
	}
	return next, nil
}

// ManagerWorkingCopy is the manager's editable answer map on load: a draft with
// answers or comments always wins over the final evaluation.
func ManagerWorkingCopy(ev Evaluation) (answers.Map, string) {
	if len(ev.DraftEvaluation) > 0 || ev.DraftComments != "" {
		return ev.DraftEvaluation.Clone(), ev.DraftComments
	}
	return ev.ManagerEvaluation.Clone(), ev.OverallComments
}

// EditableAnswers returns the answers the actor edits right now, or ok=false when
// the actor has nothing editable in the current status.
func EditableAnswers(ev Evaluation, actor Actor) (ans answers.Map, comments string, ok bool) {
	switch {
	case ev.IsEmployee(actor) && ev.Status == StatusPendingSelfEvaluation:
		return ev.SelfEvaluation.Clone(), "", true
	case ev.IsEvaluator(actor) && ev.Status == StatusInReviewSession:
		a, c := ManagerWorkingCopy(ev)
		return a, c, true
	default:
		return nil, "", false
	}
}
