// Package scoring turns answer maps into comparable (score, total) pairs.
//
// A grade's rank is its 1-based position in the scale sorted by value, never the
// raw value: a scale {10, 50, 90} scores as {1, 2, 3}.
package scoring

import (
	"math"
	"strings"

	"restaurantops_backend/internals/features/evaluations/answers"
	tmodel "restaurantops_backend/internals/features/evaluations/templates/model"
)

const legacyPrefix = "- "

// Rank resolves an answer against a scale. 0 means unresolvable.
func Rank(scale tmodel.GradingScale, a answers.Answer) int {
	grades := scale.Sorted()
	if len(grades) == 0 || a.IsBlank() {
		return 0
	}

	if f, ok := a.Float(); ok {
		for i, g := range grades {
			if g.Value == f {
				return i + 1
			}
		}
		if a.IsNumber() {
			return 0
		}
	}

	return rankByLabel(grades, a.String())
}

// rankByLabel matches legacy "- Label" answers and free-form text containing a label.
// Exact label wins, then the longest label found in the answer, then the lowest rank.
func rankByLabel(grades []tmodel.Grade, text string) int {
	s := strings.TrimSpace(text)
	s = strings.TrimSpace(strings.TrimPrefix(s, legacyPrefix))
	if s == "" {
		return 0
	}

	best, bestLen := 0, 0
	for i, g := range grades {
		label := strings.TrimSpace(g.Label)
		if label == "" {
			continue
		}
		if label == s {
			return i + 1
		}
		if strings.Contains(s, label) && len(label) > bestLen {
			best, bestLen = i+1, len(label)
		}
	}
	return best
}

// Result is an aggregate for one party.
type Result struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// Percentage is round(score/total*100), 0 when total is 0.
func (r Result) Percentage() int {
	if r.Total == 0 {
		return 0
	}
	return int(math.Round(float64(r.Score) / float64(r.Total) * 100))
}

// QuestionScore is one gradable question's contribution.
type QuestionScore struct {
	Key      answers.Key `json:"key"`
	Rank     int         `json:"rank"`
	Max      int         `json:"max"`
	Answered bool        `json:"answered"`
}

// Breakdown lists every gradable question in template order.
func Breakdown(tpl tmodel.Template, scales tmodel.ScaleSet, ans answers.Map) []QuestionScore {
	out := []QuestionScore{}
	for _, k := range tpl.Keys() {
		q, _ := tpl.Question(k)
		scale, ok := scales.For(q)
		if !ok {
			continue
		}
		qs := QuestionScore{Key: k, Max: len(scale.Grades)}
		if ans.Answered(k) {
			qs.Answered = true
			qs.Rank = Rank(scale, ans[k])
		}
		out = append(out, qs)
	}
	return out
}

// Score sums ranks over answered gradable questions. Every gradable question counts
// toward Total whether answered or not, so gaps lower the percentage.
func Score(tpl tmodel.Template, scales tmodel.ScaleSet, ans answers.Map) Result {
	var r Result
	for _, qs := range Breakdown(tpl, scales, ans) {
		r.Total += qs.Max
		r.Score += qs.Rank
	}
	return r
}

type Comparison string

const (
	Greater Comparison = "greater"
	Less    Comparison = "less"
	Equal   Comparison = "equal"
)

// Compare tags each gradable question by manager rank relative to employee rank.
// Missing or unresolvable ranks on either side compare equal. Display only.
func Compare(tpl tmodel.Template, scales tmodel.ScaleSet, self, manager answers.Map) map[answers.Key]Comparison {
	out := map[answers.Key]Comparison{}
	for _, k := range tpl.Keys() {
		q, _ := tpl.Question(k)
		scale, ok := scales.For(q)
		if !ok {
			continue
		}
		out[k] = compareOne(scale, self, manager, k)
	}
	return out
}

func compareOne(scale tmodel.GradingScale, self, manager answers.Map, k answers.Key) Comparison {
	if !self.Answered(k) || !manager.Answered(k) {
		return Equal
	}
	er, mr := Rank(scale, self[k]), Rank(scale, manager[k])
	switch {
	case er == 0 || mr == 0:
		return Equal
	case mr > er:
		return Greater
	case mr < er:
		return Less
	default:
		return Equal
	}
}
