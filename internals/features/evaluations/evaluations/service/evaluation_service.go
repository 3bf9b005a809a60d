// file: internals/features/evaluations/evaluations/service/evaluation_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"restaurantops_backend/internals/constants"
	"restaurantops_backend/internals/features/evaluations/answers"
	"restaurantops_backend/internals/features/evaluations/evaluations/repository"
	"restaurantops_backend/internals/features/evaluations/lifecycle"
	"restaurantops_backend/internals/features/evaluations/navigator"
	"restaurantops_backend/internals/features/evaluations/scoring"
	tmodel "restaurantops_backend/internals/features/evaluations/templates/model"
	nmodel "restaurantops_backend/internals/features/home/notifications/model"
	nservice "restaurantops_backend/internals/features/home/notifications/service"
	uservice "restaurantops_backend/internals/features/users/user/service"
)

// Notifier accepts fire-and-forget notifications.
type Notifier interface {
	Send(n nservice.Notification)
}

type Service struct {
	Store     repository.Store
	Directory uservice.Directory
	Notifier  Notifier
	Logger    zerolog.Logger
	Now       func() time.Time
}

func New(store repository.Store, dir uservice.Directory, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{
		Store:     store,
		Directory: dir,
		Notifier:  notifier,
		Logger:    log,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// Person is a participant as shown next to an evaluation.
type Person struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role string    `json:"role,omitempty"`
}

// Editable is the caller's working copy plus the initial navigator cursor.
type Editable struct {
	Answers  answers.Map      `json:"answers"`
	Comments string           `json:"comments"`
	Cursor   navigator.Cursor `json:"cursor"`
}

// Detail is the GET evaluation(id) aggregate, already redacted for the caller.
type Detail struct {
	Evaluation   lifecycle.Evaluation
	Employee     Person
	Evaluator    Person
	Template     tmodel.Template
	Scales       tmodel.ScaleSet
	SelfScore    scoring.Result
	ManagerScore *scoring.Result
	Comparison   map[answers.Key]scoring.Comparison
	Editable     *Editable
	Allowed      []lifecycle.Action
}

// ResolveActor replaces the claimed role with the directory's one.
// Unknown or inactive users cannot act.
func (s *Service) ResolveActor(ctx context.Context, claimed lifecycle.Actor) (lifecycle.Actor, error) {
	if s.Directory == nil {
		return claimed, nil
	}
	a, err := uservice.ActorFor(ctx, s.Directory, claimed.ID)
	if lifecycle.KindOf(err) == lifecycle.KindNotFound {
		return lifecycle.Actor{}, lifecycle.NewGuardViolation("resolve_actor", "", "unknown or inactive user")
	}
	return a, err
}

func (s *Service) Get(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) (Detail, error) {
	ev, err := s.Store.GetEvaluation(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	if err := lifecycle.CanView(ev, actor); err != nil {
		return Detail{}, err
	}
	return s.detail(ctx, actor, ev)
}

func (s *Service) detail(ctx context.Context, actor lifecycle.Actor, ev lifecycle.Evaluation) (Detail, error) {
	tpl, err := s.Store.GetTemplate(ctx, ev.TemplateID)
	if err != nil {
		return Detail{}, err
	}
	scales, err := s.Store.GetGradingScales(ctx, tpl.ScaleIDs())
	if err != nil {
		return Detail{}, err
	}

	d := Detail{
		Evaluation: lifecycle.Redact(ev, actor),
		Employee:   s.person(ctx, ev.EmployeeID),
		Evaluator:  s.person(ctx, ev.EvaluatorID),
		Template:   tpl,
		Scales:     scales,
		SelfScore:  scoring.Score(tpl, scales, ev.SelfEvaluation),
		Allowed:    lifecycle.Allowed(ev, actor),
	}

	if manager, ok := managerAnswersFor(ev, actor); ok {
		r := scoring.Score(tpl, scales, manager)
		d.ManagerScore = &r
		d.Comparison = scoring.Compare(tpl, scales, ev.SelfEvaluation, manager)
	}

	if ans, comments, ok := lifecycle.EditableAnswers(ev, actor); ok {
		if ans == nil {
			ans = answers.Map{}
		}
		d.Editable = &Editable{Answers: ans, Comments: comments, Cursor: navigator.Start(tpl, ans)}
	}
	return d, nil
}

// managerAnswersFor: final answers once completed; the evaluator (and admins)
// also see the working copy while the review runs.
func managerAnswersFor(ev lifecycle.Evaluation, actor lifecycle.Actor) (answers.Map, bool) {
	if ev.Status == lifecycle.StatusCompleted {
		return ev.ManagerEvaluation, true
	}
	if ev.Status == lifecycle.StatusInReviewSession && (ev.IsEvaluator(actor) || constants.IsAdmin(actor.Role)) {
		a, _ := lifecycle.ManagerWorkingCopy(ev)
		return a, true
	}
	return nil, false
}

func (s *Service) person(ctx context.Context, id uuid.UUID) Person {
	p := Person{ID: id}
	if s.Directory == nil {
		return p
	}
	u, err := s.Directory.Lookup(ctx, id)
	if err != nil {
		s.Logger.Debug().Err(err).Str("user_id", id.String()).Msg("participant lookup failed")
		return p
	}
	p.Name, p.Role = u.DisplayName(), u.Role
	return p
}

// Scope selects which evaluations List returns.
type Scope string

const (
	ScopeMine Scope = "mine"
	ScopeTeam Scope = "team"
	ScopeAll  Scope = "all"
)

type ListQuery struct {
	Scope    Scope
	Statuses []lifecycle.Status
	Offset   int
	Limit    int
}

func (s *Service) List(ctx context.Context, actor lifecycle.Actor, q ListQuery) ([]lifecycle.Evaluation, int64, error) {
	f := repository.ListFilter{Statuses: q.Statuses, Offset: q.Offset, Limit: q.Limit}
	switch q.Scope {
	case ScopeMine, "":
		f.EmployeeID = &actor.ID
	case ScopeTeam:
		f.EvaluatorID = &actor.ID
	case ScopeAll:
		if !constants.IsAdmin(actor.Role) {
			return nil, 0, lifecycle.NewGuardViolation("list_evaluations", "", "only an admin may list every evaluation")
		}
	default:
		return nil, 0, lifecycle.FieldError("list_evaluations", "scope", "must be mine, team or all")
	}

	rows, total, err := s.Store.ListEvaluations(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	for i := range rows {
		rows[i] = lifecycle.Redact(rows[i], actor)
	}
	return rows, total, nil
}

// transition loads, applies fn, and stores the result with a CAS on the loaded state.
func (s *Service) transition(
	ctx context.Context,
	actor lifecycle.Actor,
	id uuid.UUID,
	action lifecycle.Action,
	fn func(ev lifecycle.Evaluation, tpl tmodel.Template) (lifecycle.Evaluation, error),
) (lifecycle.Evaluation, error) {
	ev, err := s.Store.GetEvaluation(ctx, id)
	if err != nil {
		return lifecycle.Evaluation{}, err
	}
	tpl, err := s.Store.GetTemplate(ctx, ev.TemplateID)
	if err != nil {
		return lifecycle.Evaluation{}, err
	}

	next, err := fn(ev, tpl)
	if err != nil {
		s.Logger.Info().
			Str("evaluation_id", id.String()).
			Str("action", string(action)).
			Str("status", string(ev.Status)).
			Str("kind", string(lifecycle.KindOf(err))).
			Msg("transition rejected")
		return ev, err
	}

	saved, err := s.Store.UpdateEvaluation(ctx, action, ev, next)
	if err != nil {
		return saved, err
	}
	s.Logger.Info().
		Str("evaluation_id", id.String()).
		Str("action", string(action)).
		Str("actor", actor.ID.String()).
		Str("from", string(ev.Status)).
		Str("to", string(saved.Status)).
		Msg("transition applied")
	return saved, nil
}

func (s *Service) respond(ctx context.Context, actor lifecycle.Actor, ev lifecycle.Evaluation, err error) (Detail, error) {
	if err != nil {
		return Detail{}, err
	}
	return s.detail(ctx, actor, ev)
}

func (s *Service) SubmitSelfEvaluation(ctx context.Context, actor lifecycle.Actor, id uuid.UUID, ans answers.Map) (Detail, error) {
	ev, err := s.transition(ctx, actor, id, lifecycle.ActionSubmitSelfEvaluation,
		func(ev lifecycle.Evaluation, tpl tmodel.Template) (lifecycle.Evaluation, error) {
			return lifecycle.SubmitSelfEvaluation(ev, tpl, actor, ans, s.Now())
		})
	if err == nil {
		s.notify(nmodel.KindSelfSubmitted, ev.EvaluatorID, ev,
			"Self-evaluation submitted", "An employee submitted their self-evaluation. Schedule the review session.")
	}
	return s.respond(ctx, actor, ev, err)
}

func (s *Service) ScheduleReview(ctx context.Context, actor lifecycle.Actor, id uuid.UUID, at time.Time) (Detail, error) {
	ev, err := s.transition(ctx, actor, id, lifecycle.ActionScheduleReview,
		func(ev lifecycle.Evaluation, _ tmodel.Template) (lifecycle.Evaluation, error) {
			return lifecycle.ScheduleReview(ev, actor, at)
		})
	if err == nil {
		s.notify(nmodel.KindReviewScheduled, ev.EmployeeID, ev,
			"Review session scheduled",
			fmt.Sprintf("Your review session is scheduled for %s.", ev.ReviewSessionDate.Format("2006-01-02 15:04 MST")))
	}
	return s.respond(ctx, actor, ev, err)
}

func (s *Service) StartReview(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) (Detail, error) {
	ev, err := s.transition(ctx, actor, id, lifecycle.ActionStartReview,
		func(ev lifecycle.Evaluation, _ tmodel.Template) (lifecycle.Evaluation, error) {
			return lifecycle.StartReview(ev, actor, s.Now())
		})
	return s.respond(ctx, actor, ev, err)
}

// SaveDraft is last-write-wins within the allowed status.
func (s *Service) SaveDraft(ctx context.Context, actor lifecycle.Actor, id uuid.UUID, p lifecycle.DraftPayload) (Detail, error) {
	ev, err := s.transition(ctx, actor, id, p.DraftAction(),
		func(ev lifecycle.Evaluation, tpl tmodel.Template) (lifecycle.Evaluation, error) {
			return lifecycle.SaveDraft(ev, tpl, actor, p)
		})
	return s.respond(ctx, actor, ev, err)
}

func (s *Service) CompleteReview(ctx context.Context, actor lifecycle.Actor, id uuid.UUID, ans answers.Map, comments string) (Detail, error) {
	ev, err := s.transition(ctx, actor, id, lifecycle.ActionCompleteReview,
		func(ev lifecycle.Evaluation, tpl tmodel.Template) (lifecycle.Evaluation, error) {
			return lifecycle.CompleteReview(ev, tpl, actor, ans, comments, s.Now())
		})
	if err == nil {
		s.notify(nmodel.KindEvaluationCompleted, ev.EmployeeID, ev,
			"Your evaluation is complete", "Your manager completed your evaluation. Please review and acknowledge it.")
	}
	return s.respond(ctx, actor, ev, err)
}

func (s *Service) Acknowledge(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) (Detail, error) {
	ev, err := s.transition(ctx, actor, id, lifecycle.ActionAcknowledge,
		func(ev lifecycle.Evaluation, _ tmodel.Template) (lifecycle.Evaluation, error) {
			return lifecycle.Acknowledge(ev, actor, s.Now())
		})
	return s.respond(ctx, actor, ev, err)
}

// NotifyUnacknowledged sends a reminder. Status is untouched; only the reminder
// time is recorded.
func (s *Service) NotifyUnacknowledged(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) (Detail, error) {
	ev, err := s.remind(ctx, actor, id)
	return s.respond(ctx, actor, ev, err)
}

func (s *Service) remind(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) (lifecycle.Evaluation, error) {
	ev, err := s.transition(ctx, actor, id, lifecycle.ActionNotifyUnacknowledged,
		func(ev lifecycle.Evaluation, _ tmodel.Template) (lifecycle.Evaluation, error) {
			return lifecycle.MarkReminded(ev, actor, s.Now())
		})
	if err == nil {
		s.notify(nmodel.KindAcknowledgeReminder, ev.EmployeeID, ev,
			"Please acknowledge your evaluation", "Your completed evaluation is waiting for your acknowledgement.")
	}
	return ev, err
}

func (s *Service) ReassignEvaluator(ctx context.Context, actor lifecycle.Actor, id, evaluatorID uuid.UUID) (Detail, error) {
	target, err := s.lookupActor(ctx, evaluatorID, lifecycle.ActionReassignEvaluator)
	if err != nil {
		return Detail{}, err
	}
	ev, err := s.transition(ctx, actor, id, lifecycle.ActionReassignEvaluator,
		func(ev lifecycle.Evaluation, _ tmodel.Template) (lifecycle.Evaluation, error) {
			return lifecycle.ReassignEvaluator(ev, actor, target)
		})
	if err == nil {
		s.notify(nmodel.KindEvaluatorReassigned, ev.EvaluatorID, ev,
			"Evaluation reassigned to you", "You are now the evaluator of an evaluation.")
	}
	return s.respond(ctx, actor, ev, err)
}

type CreateInput struct {
	EmployeeID    uuid.UUID
	EvaluatorID   uuid.UUID
	TemplateID    uuid.UUID
	ScheduledDate time.Time
}

func (s *Service) Create(ctx context.Context, actor lifecycle.Actor, in CreateInput) (Detail, error) {
	if in.ScheduledDate.IsZero() {
		return Detail{}, lifecycle.FieldError(lifecycle.ActionCreate, "scheduledDate", "is required")
	}
	employee, err := s.lookupActor(ctx, in.EmployeeID, lifecycle.ActionCreate)
	if err != nil {
		return Detail{}, err
	}
	evaluator, err := s.lookupActor(ctx, in.EvaluatorID, lifecycle.ActionCreate)
	if err != nil {
		return Detail{}, err
	}
	if err := lifecycle.CanCreate(actor, employee, evaluator); err != nil {
		return Detail{}, err
	}
	if _, err := s.Store.GetTemplate(ctx, in.TemplateID); err != nil {
		return Detail{}, err
	}

	ev := lifecycle.Evaluation{
		EmployeeID:    in.EmployeeID,
		EvaluatorID:   in.EvaluatorID,
		TemplateID:    in.TemplateID,
		Status:        lifecycle.StatusPendingSelfEvaluation,
		ScheduledDate: in.ScheduledDate.UTC(),
	}
	if err := s.Store.CreateEvaluation(ctx, &ev); err != nil {
		return Detail{}, err
	}
	s.Logger.Info().
		Str("evaluation_id", ev.ID.String()).
		Str("employee", ev.EmployeeID.String()).
		Str("evaluator", ev.EvaluatorID.String()).
		Msg("evaluation created")

	s.notify(nmodel.KindEvaluationAssigned, ev.EmployeeID, ev,
		"New evaluation assigned", "Please complete your self-evaluation.")
	s.notify(nmodel.KindEvaluationAssigned, ev.EvaluatorID, ev,
		"You were assigned as evaluator", "A new evaluation lists you as the evaluator.")
	return s.detail(ctx, actor, ev)
}

// SweepUnacknowledged reminds employees of evaluations completed more than
// after ago, at most once per after. Per-evaluation failures are logged and skipped.
func (s *Service) SweepUnacknowledged(ctx context.Context, after time.Duration, limit int) (int, error) {
	now := s.Now()
	due, err := s.Store.ListUnacknowledged(ctx, now.Add(-after), now.Add(-after), limit)
	if err != nil {
		return 0, err
	}
	system := lifecycle.Actor{Role: constants.RoleAdmin}
	sent := 0
	for _, ev := range due {
		if _, err := s.remind(ctx, system, ev.ID); err != nil {
			s.Logger.Warn().Err(err).Str("evaluation_id", ev.ID.String()).Msg("reminder skipped")
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *Service) lookupActor(ctx context.Context, id uuid.UUID, action lifecycle.Action) (lifecycle.Actor, error) {
	if s.Directory == nil {
		return lifecycle.Actor{}, errors.New("identity directory not configured")
	}
	a, err := uservice.ActorFor(ctx, s.Directory, id)
	if lifecycle.KindOf(err) == lifecycle.KindNotFound {
		return lifecycle.Actor{}, lifecycle.FieldError(action, "userId", fmt.Sprintf("user %s not found", id))
	}
	return a, err
}

func (s *Service) notify(kind string, to uuid.UUID, ev lifecycle.Evaluation, title, body string) {
	if s.Notifier == nil || to == uuid.Nil {
		return
	}
	id := ev.ID
	s.Notifier.Send(nservice.Notification{
		Kind:         kind,
		RecipientID:  to,
		EvaluationID: &id,
		Title:        title,
		Body:         body,
		Tags:         []string{"evaluation", string(ev.Status)},
	})
}
