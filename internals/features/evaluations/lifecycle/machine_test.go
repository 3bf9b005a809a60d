package lifecycle

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"restaurantops_backend/internals/constants"
	"restaurantops_backend/internals/features/evaluations/answers"
	tmodel "restaurantops_backend/internals/features/evaluations/templates/model"
)

var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type cast struct {
	employee  Actor
	evaluator Actor
	admin     Actor
	stranger  Actor
}

func newCast() cast {
	return cast{
		employee:  Actor{ID: uuid.New(), Role: constants.RoleEmployee},
		evaluator: Actor{ID: uuid.New(), Role: constants.RoleDirector},
		admin:     Actor{ID: uuid.New(), Role: constants.RoleAdmin},
		stranger:  Actor{ID: uuid.New(), Role: constants.RoleLeader},
	}
}

func twoByTwo() tmodel.Template {
	scaleID := uuid.New()
	q := func(text string) tmodel.Question {
		id := scaleID
		return tmodel.Question{Text: text, Type: tmodel.QuestionRating, Required: true, GradingScaleID: &id}
	}
	return tmodel.Template{
		ID: uuid.New(),
		Sections: []tmodel.Section{
			{Title: "Service", Questions: []tmodel.Question{q("Greets guests"), q("Upsells")}},
			{Title: "Safety", Questions: []tmodel.Question{q("Logs temperatures"), q("Cleans station")}},
		},
	}
}

func fullAnswers() answers.Map {
	return answers.Map{
		answers.K(0, 0): answers.Number(1),
		answers.K(0, 1): answers.Number(2),
		answers.K(1, 0): answers.Number(3),
		answers.K(1, 1): answers.Number(2),
	}
}

func evaluationIn(c cast, status Status) Evaluation {
	ev := Evaluation{
		ID:            uuid.New(),
		EmployeeID:    c.employee.ID,
		EvaluatorID:   c.evaluator.ID,
		TemplateID:    uuid.New(),
		Status:        status,
		ScheduledDate: now.AddDate(0, 0, 7),
	}
	if !status.Before(StatusPendingManagerReview) {
		ev.SelfEvaluation = fullAnswers()
	}
	if status == StatusCompleted {
		ev.ManagerEvaluation = fullAnswers()
		ev.DraftEvaluation = fullAnswers()
	}
	return ev
}

func TestAuthorizeMatchesTransitionTable(t *testing.T) {
	t.Parallel()

	c := newCast()
	type legal map[string][]Action

	tests := []struct {
		name  string
		ev    func() Evaluation
		legal legal
	}{
		{
			name: "pending self evaluation",
			ev:   func() Evaluation { return evaluationIn(c, StatusPendingSelfEvaluation) },
			legal: legal{
				"employee": {ActionSubmitSelfEvaluation, ActionSaveSelfDraft},
				"admin":    {ActionReassignEvaluator},
			},
		},
		{
			name: "pending manager review",
			ev:   func() Evaluation { return evaluationIn(c, StatusPendingManagerReview) },
			legal: legal{
				"evaluator": {ActionScheduleReview, ActionStartReview},
				"admin":     {ActionReassignEvaluator},
			},
		},
		{
			name: "in review session",
			ev:   func() Evaluation { return evaluationIn(c, StatusInReviewSession) },
			legal: legal{
				"evaluator": {ActionSaveManagerDraft, ActionCompleteReview},
				"admin":     {ActionReassignEvaluator},
			},
		},
		{
			name: "completed",
			ev:   func() Evaluation { return evaluationIn(c, StatusCompleted) },
			legal: legal{
				"employee":  {ActionAcknowledge},
				"evaluator": {ActionNotifyUnacknowledged},
				"admin":     {ActionNotifyUnacknowledged},
			},
		},
		{
			name: "completed and acknowledged",
			ev: func() Evaluation {
				ev := evaluationIn(c, StatusCompleted)
				ev.Acknowledgement = Acknowledgement{Acknowledged: true, Date: &now}
				return ev
			},
			legal: legal{},
		},
	}

	actors := map[string]Actor{
		"employee": c.employee, "evaluator": c.evaluator, "admin": c.admin, "stranger": c.stranger,
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for name, actor := range actors {
				want := tt.legal[name]
				if want == nil {
					want = []Action{}
				}
				require.ElementsMatch(t, want, Allowed(tt.ev(), actor), "actor %s", name)

				for _, a := range Actions {
					err := Authorize(tt.ev(), actor, a)
					if err != nil {
						require.Equal(t, KindGuard, KindOf(err))
						require.Equal(t, http.StatusForbidden, HTTPStatus(err))
					}
				}
			}
		})
	}
}

func TestSubmitSelfEvaluation(t *testing.T) {
	t.Parallel()

	c := newCast()
	tpl := twoByTwo()
	ev := evaluationIn(c, StatusPendingSelfEvaluation)

	next, err := SubmitSelfEvaluation(ev, tpl, c.employee, fullAnswers(), now)
	require.NoError(t, err)
	require.Equal(t, StatusPendingManagerReview, next.Status)
	require.True(t, fullAnswers().Equal(next.SelfEvaluation))
	require.Equal(t, now, *next.SelfSubmittedAt)
	require.Equal(t, StatusPendingSelfEvaluation, ev.Status, "input is not mutated")

	_, err = SubmitSelfEvaluation(next, tpl, c.employee, fullAnswers(), now)
	require.Equal(t, KindGuard, KindOf(err), "self-evaluation is immutable after submission")
}

func TestSubmitSelfEvaluationNamesEveryMissingQuestion(t *testing.T) {
	t.Parallel()

	c := newCast()
	tpl := twoByTwo()
	ev := evaluationIn(c, StatusPendingSelfEvaluation)
	partial := answers.Map{answers.K(0, 0): answers.Number(1), answers.K(1, 0): answers.Number(2)}

	next, err := SubmitSelfEvaluation(ev, tpl, c.employee, partial, now)
	require.Error(t, err)
	require.Equal(t, StatusPendingSelfEvaluation, next.Status)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, []string{"Section 1 - Upsells", "Section 2 - Cleans station"}, ve.Labels())
	require.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestCheckAnswersRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	c := newCast()
	ans := fullAnswers()
	ans[answers.K(4, 0)] = answers.Number(1)

	_, err := SubmitSelfEvaluation(evaluationIn(c, StatusPendingSelfEvaluation), twoByTwo(), c.employee, ans, now)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Contains(t, ve.Fields["answers"], "4-0")
}

func TestReviewFlow(t *testing.T) {
	t.Parallel()

	c := newCast()
	tpl := twoByTwo()
	ev := evaluationIn(c, StatusPendingManagerReview)

	at := time.Date(2026, 3, 10, 14, 0, 0, 0, time.FixedZone("x", 3600))
	scheduled, err := ScheduleReview(ev, c.evaluator, at)
	require.NoError(t, err)
	require.Equal(t, StatusPendingManagerReview, scheduled.Status)
	require.True(t, at.Equal(*scheduled.ReviewSessionDate))

	_, err = ScheduleReview(ev, c.evaluator, time.Time{})
	require.Equal(t, KindValidation, KindOf(err))

	scheduled.DraftEvaluation = answers.Map{answers.K(0, 0): answers.Number(3)}
	started, err := StartReview(scheduled, c.evaluator, now)
	require.NoError(t, err)
	require.Equal(t, StatusInReviewSession, started.Status)
	require.Len(t, started.DraftEvaluation, 1, "start review keeps an existing draft")

	done, err := CompleteReview(started, tpl, c.evaluator, fullAnswers(), "solid quarter", now)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, done.Status)
	require.True(t, fullAnswers().Equal(done.ManagerEvaluation))
	require.True(t, fullAnswers().Equal(done.DraftEvaluation), "completion saves before finalizing")
	require.Equal(t, "solid quarter", done.OverallComments)

	_, err = CompleteReview(done, tpl, c.evaluator, fullAnswers(), "again", now)
	require.Equal(t, KindGuard, KindOf(err), "second completion is rejected")
}

func TestCompleteReviewWithMissingAnswerKeepsStatus(t *testing.T) {
	t.Parallel()

	c := newCast()
	ev := evaluationIn(c, StatusInReviewSession)
	ans := fullAnswers()
	delete(ans, answers.K(1, 1))

	next, err := CompleteReview(ev, twoByTwo(), c.evaluator, ans, "", now)
	require.Equal(t, StatusInReviewSession, next.Status)
	require.Empty(t, next.ManagerEvaluation)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, []string{"Section 2 - Cleans station"}, ve.Labels())
}

func TestAcknowledge(t *testing.T) {
	t.Parallel()

	c := newCast()
	_, err := Acknowledge(evaluationIn(c, StatusInReviewSession), c.employee, now)
	require.Equal(t, KindGuard, KindOf(err))

	done := evaluationIn(c, StatusCompleted)
	_, err = Acknowledge(done, c.evaluator, now)
	require.Equal(t, KindGuard, KindOf(err))

	acked, err := Acknowledge(done, c.employee, now)
	require.NoError(t, err)
	require.True(t, acked.Acknowledgement.Acknowledged)
	require.Equal(t, now, *acked.Acknowledgement.Date)
	require.Equal(t, StatusCompleted, acked.Status)
	require.True(t, acked.Terminal())
}

func TestReassignEvaluator(t *testing.T) {
	t.Parallel()

	c := newCast()
	ev := evaluationIn(c, StatusInReviewSession)
	leader := Actor{ID: uuid.New(), Role: constants.RoleLeader}

	next, err := ReassignEvaluator(ev, c.admin, leader)
	require.NoError(t, err)
	require.Equal(t, leader.ID, next.EvaluatorID)
	require.Equal(t, ev.Status, next.Status)

	_, err = ReassignEvaluator(ev, c.admin, Actor{ID: uuid.New(), Role: constants.RoleEmployee})
	require.Equal(t, KindGuard, KindOf(err))

	_, err = ReassignEvaluator(ev, c.evaluator, leader)
	require.Equal(t, KindGuard, KindOf(err))

	_, err = ReassignEvaluator(evaluationIn(c, StatusCompleted), c.admin, leader)
	require.Equal(t, KindGuard, KindOf(err))
}

func TestMarkReminded(t *testing.T) {
	t.Parallel()

	c := newCast()
	next, err := MarkReminded(evaluationIn(c, StatusCompleted), c.admin, now)
	require.NoError(t, err)
	require.Equal(t, now, *next.LastReminderAt)

	_, err = MarkReminded(evaluationIn(c, StatusInReviewSession), c.admin, now)
	require.Equal(t, KindGuard, KindOf(err))
}

func TestCloneDoesNotAlias(t *testing.T) {
	t.Parallel()

	c := newCast()
	ev := evaluationIn(c, StatusCompleted)
	ev.ReviewSessionDate = &now

	cp := ev.Clone()
	cp.SelfEvaluation[answers.K(0, 0)] = answers.Text("changed")
	*cp.ReviewSessionDate = now.Add(time.Hour)

	require.Equal(t, answers.Number(1), ev.SelfEvaluation[answers.K(0, 0)])
	require.Equal(t, now, *ev.ReviewSessionDate)
}

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	require.Equal(t, KindNone, KindOf(nil))
	require.Equal(t, KindNotFound, KindOf(NewNotFound("evaluation", "x")))
	require.Equal(t, http.StatusNotFound, HTTPStatus(NewNotFound("evaluation", "x")))
	require.Equal(t, KindTransient, KindOf(NewTransient("save", errors.New("boom"))))
	require.Equal(t, http.StatusServiceUnavailable, HTTPStatus(NewTransient("save", nil)))
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("unknown")))
}

func TestAccessChecks(t *testing.T) {
	t.Parallel()

	c := newCast()
	ev := evaluationIn(c, StatusInReviewSession)
	ev.DraftEvaluation = fullAnswers()
	ev.DraftComments = "private"

	require.NoError(t, CanView(ev, c.employee))
	require.NoError(t, CanView(ev, c.evaluator))
	require.NoError(t, CanView(ev, c.admin))
	require.Equal(t, KindGuard, KindOf(CanView(ev, c.stranger)))

	hidden := Redact(ev, c.employee)
	require.Nil(t, hidden.DraftEvaluation)
	require.Empty(t, hidden.DraftComments)
	require.NotNil(t, Redact(ev, c.evaluator).DraftEvaluation)

	require.NoError(t, CanCreate(c.admin, c.employee, c.evaluator))
	require.Error(t, CanCreate(c.employee, c.employee, c.evaluator))
	require.Error(t, CanCreate(c.admin, c.employee, c.employee))
	require.Error(t, CanCreate(c.admin, c.evaluator, c.evaluator))
}
