package client

import (
	"context"

	"github.com/google/uuid"

	"restaurantops_backend/internals/features/evaluations/answers"
	"restaurantops_backend/internals/features/evaluations/evaluations/dto"
	"restaurantops_backend/internals/features/evaluations/lifecycle"
	"restaurantops_backend/internals/features/evaluations/navigator"
	tmodel "restaurantops_backend/internals/features/evaluations/templates/model"
)

// ReviewSession is one person filling in an editable evaluation, question by
// question. Moving forward always saves the draft first; the cursor only moves
// once that save has succeeded.
type ReviewSession struct {
	client  *Client
	id      uuid.UUID
	tpl     tmodel.Template
	manager bool

	answers  answers.Map
	comments string
	cursor   answers.Key
	onCursor bool

	// last state the server accepted
	savedAnswers  answers.Map
	savedComments string
}

// Open loads the evaluation and positions the cursor at the first unanswered
// question. It fails with a GuardViolation when the caller has nothing to edit.
func (c *Client) Open(ctx context.Context, id uuid.UUID) (*ReviewSession, error) {
	ev, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ev.Editable == nil {
		return nil, lifecycle.NewGuardViolation("edit_answers", ev.Status, "nothing editable for this user")
	}
	s := &ReviewSession{
		client:   c,
		id:       id,
		tpl:      ev.Template,
		manager:  ev.Status == lifecycle.StatusInReviewSession,
		answers:  ev.Editable.Answers.Clone(),
		comments: ev.Editable.Comments,
	}
	if s.answers == nil {
		s.answers = answers.Map{}
	}
	s.savedAnswers, s.savedComments = s.answers.Clone(), s.comments
	s.cursor, s.onCursor = ev.Editable.Cursor.Position, ev.Editable.Cursor.HasPosition
	return s, nil
}

func (s *ReviewSession) Answers() answers.Map { return s.answers.Clone() }

func (s *ReviewSession) Comments() string { return s.comments }

// Position reports the current question. ok is false when the session is on
// the summary view.
func (s *ReviewSession) Position() (answers.Key, bool) { return s.cursor, s.onCursor }

// Number is the 1-based ordinal of the current question, 0 on the summary view.
func (s *ReviewSession) Number() int {
	if !s.onCursor {
		return 0
	}
	return navigator.QuestionNumber(s.tpl, s.cursor)
}

// ShowSummary is true once every required question has an answer.
func (s *ReviewSession) ShowSummary() bool {
	return len(navigator.MissingRequired(s.tpl, s.answers)) == 0
}

func (s *ReviewSession) Answer(k answers.Key, a answers.Answer) error {
	if _, ok := s.tpl.Question(k); !ok {
		return lifecycle.FieldError("edit_answers", k.String(), "question does not exist")
	}
	s.answers[k] = a
	return nil
}

func (s *ReviewSession) SetComments(comments string) { s.comments = comments }

// Dirty reports whether anything changed since the last accepted save.
// Comments only count for the manager's draft.
func (s *ReviewSession) Dirty() bool {
	if !s.answers.Equal(s.savedAnswers) {
		return true
	}
	return s.manager && s.comments != s.savedComments
}

// Save writes the current answers as a draft. Nothing is sent when the
// session is not dirty.
func (s *ReviewSession) Save(ctx context.Context) error {
	if !s.Dirty() {
		return nil
	}
	ans, comments := s.answers.Clone(), s.comments
	req := dto.SaveDraftRequest{PreventStatusChange: true}
	if s.manager {
		req.ManagerEvaluation = ans
		req.OverallComments = &comments
	} else {
		req.SelfEvaluation = ans
	}
	if _, err := s.client.SaveDraft(ctx, s.id, req); err != nil {
		return err
	}
	s.savedAnswers, s.savedComments = ans.Clone(), comments
	return nil
}

// Next saves, then moves to the next unanswered question. ok is false when no
// question is left; the session then shows the summary.
func (s *ReviewSession) Next(ctx context.Context) (answers.Key, bool, error) {
	if err := s.Save(ctx); err != nil {
		return s.cursor, s.onCursor, err
	}
	k, ok := navigator.Next(s.tpl, s.answers, s.cursor)
	s.cursor, s.onCursor = k, ok
	return k, ok, nil
}

// Previous steps back one question without saving.
func (s *ReviewSession) Previous() (answers.Key, bool) {
	if !s.onCursor {
		keys := s.tpl.Keys()
		if len(keys) == 0 {
			return answers.Key{}, false
		}
		s.cursor, s.onCursor = keys[len(keys)-1], true
		return s.cursor, true
	}
	k, ok := navigator.Previous(s.tpl, s.cursor)
	if ok {
		s.cursor = k
	}
	return k, ok
}

// Finish submits the self evaluation or completes the review.
func (s *ReviewSession) Finish(ctx context.Context) (dto.EvaluationResponse, error) {
	if s.manager {
		return s.client.CompleteReview(ctx, s.id, s.answers.Clone(), s.comments)
	}
	return s.client.SubmitSelfEvaluation(ctx, s.id, s.answers.Clone())
}
