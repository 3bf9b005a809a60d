package client

import (
	"time"

	"restaurantops_backend/internals/features/evaluations/answers"
	"restaurantops_backend/internals/features/evaluations/evaluations/dto"
	"restaurantops_backend/internals/features/evaluations/lifecycle"
	"restaurantops_backend/internals/features/evaluations/scoring"
	tmodel "restaurantops_backend/internals/features/evaluations/templates/model"
)

// CloneEvaluation deep-copies every map, slice and pointer of a cached document.
func CloneEvaluation(ev dto.EvaluationResponse) dto.EvaluationResponse {
	out := ev
	out.Template = cloneTemplate(ev.Template)
	if ev.GradingScales != nil {
		out.GradingScales = make([]tmodel.GradingScale, len(ev.GradingScales))
		for i, g := range ev.GradingScales {
			if g.Grades != nil {
				g.Grades = append(make([]tmodel.Grade, 0, len(g.Grades)), g.Grades...)
			}
			out.GradingScales[i] = g
		}
	}
	out.ReviewSessionDate = cloneTime(ev.ReviewSessionDate)
	out.SelfEvaluation = ev.SelfEvaluation.Clone()
	out.ManagerEvaluation = ev.ManagerEvaluation.Clone()
	out.DraftEvaluation = ev.DraftEvaluation.Clone()
	out.Acknowledgement.Date = cloneTime(ev.Acknowledgement.Date)
	out.SelfSubmittedAt = cloneTime(ev.SelfSubmittedAt)
	out.ReviewStartedAt = cloneTime(ev.ReviewStartedAt)
	out.CompletedAt = cloneTime(ev.CompletedAt)
	out.LastReminderAt = cloneTime(ev.LastReminderAt)
	if ev.Scores.Manager != nil {
		m := *ev.Scores.Manager
		out.Scores.Manager = &m
	}
	if ev.Comparison != nil {
		out.Comparison = make(map[answers.Key]scoring.Comparison, len(ev.Comparison))
		for k, v := range ev.Comparison {
			out.Comparison[k] = v
		}
	}
	if ev.Editable != nil {
		e := *ev.Editable
		e.Answers = ev.Editable.Answers.Clone()
		out.Editable = &e
	}
	if ev.AllowedActions != nil {
		out.AllowedActions = append([]lifecycle.Action{}, ev.AllowedActions...)
	}
	return out
}

func cloneTemplate(t tmodel.Template) tmodel.Template {
	if t.Sections == nil {
		return t
	}
	out := t
	out.Sections = make([]tmodel.Section, len(t.Sections))
	for i, s := range t.Sections {
		if s.Questions != nil {
			qs := make([]tmodel.Question, len(s.Questions))
			for j, q := range s.Questions {
				if q.GradingScaleID != nil {
					id := *q.GradingScaleID
					q.GradingScaleID = &id
				}
				qs[j] = q
			}
			s.Questions = qs
		}
		out.Sections[i] = s
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
