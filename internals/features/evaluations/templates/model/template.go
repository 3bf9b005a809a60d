// file: internals/features/evaluations/templates/model/template.go
package model

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"restaurantops_backend/internals/features/evaluations/answers"
)

type QuestionType string

const (
	QuestionRating QuestionType = "rating"
	QuestionText   QuestionType = "text"
)

type Question struct {
	ID             string       `json:"id"`
	Text           string       `json:"text" validate:"required,max=500"`
	Type           QuestionType `json:"type" validate:"required,oneof=rating text"`
	Required       bool         `json:"required"`
	GradingScaleID *uuid.UUID   `json:"gradingScaleId,omitempty"`
}

// Gradable: a rating question bound to a scale.
func (q Question) Gradable() bool {
	return q.Type == QuestionRating && q.GradingScaleID != nil && *q.GradingScaleID != uuid.Nil
}

type Section struct {
	Title     string     `json:"title" validate:"required,max=200"`
	Questions []Question `json:"questions" validate:"dive"`
}

// Template is the read-only structure of an evaluation.
type Template struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Sections []Section `json:"sections"`
}

// Question looks up a question by key.
func (t Template) Question(k answers.Key) (Question, bool) {
	if k.Section < 0 || k.Section >= len(t.Sections) {
		return Question{}, false
	}
	qs := t.Sections[k.Section].Questions
	if k.Question < 0 || k.Question >= len(qs) {
		return Question{}, false
	}
	return qs[k.Question], true
}

// Count is the number of questions across all sections.
func (t Template) Count() int {
	n := 0
	for _, s := range t.Sections {
		n += len(s.Questions)
	}
	return n
}

// Keys lists every question key in traversal order.
func (t Template) Keys() []answers.Key {
	out := make([]answers.Key, 0, t.Count())
	for si, s := range t.Sections {
		for qi := range s.Questions {
			out = append(out, answers.K(si, qi))
		}
	}
	return out
}

// Label is the human form used in validation messages: "Section 2 - <text>".
func (t Template) Label(k answers.Key) string {
	q, ok := t.Question(k)
	if !ok {
		return fmt.Sprintf("Section %d - question %d", k.Section+1, k.Question+1)
	}
	return fmt.Sprintf("Section %d - %s", k.Section+1, q.Text)
}

// ScaleIDs returns the distinct grading scales referenced by the template.
func (t Template) ScaleIDs() []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	out := []uuid.UUID{}
	for _, s := range t.Sections {
		for _, q := range s.Questions {
			if q.GradingScaleID == nil || seen[*q.GradingScaleID] {
				continue
			}
			seen[*q.GradingScaleID] = true
			out = append(out, *q.GradingScaleID)
		}
	}
	return out
}

type Grade struct {
	Value float64 `json:"value"`
	Label string  `json:"label" validate:"required,max=80"`
	Color string  `json:"color,omitempty" validate:"omitempty,max=32"`
}

type GradingScale struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Grades []Grade   `json:"grades"`
}

// Sorted returns the grades ordered by value ascending; position+1 is the rank.
func (g GradingScale) Sorted() []Grade {
	out := append([]Grade(nil), g.Grades...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// ScaleSet resolves a question's grading scale.
type ScaleSet map[uuid.UUID]GradingScale

func (s ScaleSet) For(q Question) (GradingScale, bool) {
	if !q.Gradable() {
		return GradingScale{}, false
	}
	g, ok := s[*q.GradingScaleID]
	return g, ok
}
