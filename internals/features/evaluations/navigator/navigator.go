// Package navigator walks a template's question tree. It has no state of its own;
// every call takes the template, the answers and the current position.
package navigator

import (
	"restaurantops_backend/internals/features/evaluations/answers"
	tmodel "restaurantops_backend/internals/features/evaluations/templates/model"
)

// Next scans forward from just after cur to the end of the template, then wraps
// from (0,0) up to but not including cur. ok is false when nothing else is unanswered.
func Next(tpl tmodel.Template, ans answers.Map, cur answers.Key) (answers.Key, bool) {
	keys := tpl.Keys()
	idx := indexOf(keys, cur)

	start := 0
	if idx >= 0 {
		start = idx + 1
	}
	for _, k := range keys[start:] {
		if !ans.Answered(k) {
			return k, true
		}
	}

	end := idx
	if end < 0 {
		end = 0
	}
	for _, k := range keys[:end] {
		if !ans.Answered(k) {
			return k, true
		}
	}
	return answers.Key{}, false
}

// Previous steps back one question, crossing into the last question of the
// previous non-empty section. ok is false at the very first question.
func Previous(tpl tmodel.Template, cur answers.Key) (answers.Key, bool) {
	if _, valid := tpl.Question(cur); !valid {
		return answers.Key{}, false
	}
	if cur.Question > 0 {
		return answers.K(cur.Section, cur.Question-1), true
	}
	for s := cur.Section - 1; s >= 0; s-- {
		if n := len(tpl.Sections[s].Questions); n > 0 {
			return answers.K(s, n-1), true
		}
	}
	return answers.Key{}, false
}

// QuestionNumber is the 1-based ordinal of k across the whole template.
func QuestionNumber(tpl tmodel.Template, k answers.Key) int {
	n := 0
	for s := 0; s < k.Section && s < len(tpl.Sections); s++ {
		n += len(tpl.Sections[s].Questions)
	}
	return n + k.Question + 1
}

// FirstUnanswered returns the first question without an answer, in template order.
func FirstUnanswered(tpl tmodel.Template, ans answers.Map) (answers.Key, bool) {
	for _, k := range tpl.Keys() {
		if !ans.Answered(k) {
			return k, true
		}
	}
	return answers.Key{}, false
}

// MissingRequired lists required questions without an answer, in template order.
func MissingRequired(tpl tmodel.Template, ans answers.Map) []answers.Key {
	out := []answers.Key{}
	for _, k := range tpl.Keys() {
		q, _ := tpl.Question(k)
		if q.Required && !ans.Answered(k) {
			out = append(out, k)
		}
	}
	return out
}

// Cursor is the initial view for an editable evaluation.
type Cursor struct {
	Position    answers.Key `json:"position"`
	HasPosition bool        `json:"hasPosition"`
	Number      int         `json:"number"`
	Total       int         `json:"total"`
	// ShowSummary is set once every required question is answered.
	ShowSummary bool `json:"showSummary"`
}

// Start positions the cursor at the first unanswered question.
func Start(tpl tmodel.Template, ans answers.Map) Cursor {
	c := Cursor{Total: tpl.Count(), ShowSummary: len(MissingRequired(tpl, ans)) == 0}
	if k, ok := FirstUnanswered(tpl, ans); ok {
		c.Position, c.HasPosition = k, true
		c.Number = QuestionNumber(tpl, k)
	}
	return c
}

func indexOf(keys []answers.Key, k answers.Key) int {
	for i, x := range keys {
		if x == k {
			return i
		}
	}
	return -1
}
