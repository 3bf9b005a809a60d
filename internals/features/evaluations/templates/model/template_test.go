package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"restaurantops_backend/internals/features/evaluations/answers"
)

func TestTemplateLookup(t *testing.T) {
	t.Parallel()

	scale := uuid.New()
	tpl := Template{Sections: []Section{
		{Title: "Floor", Questions: []Question{
			{Text: "Greets guests", Type: QuestionRating, GradingScaleID: &scale},
			{Text: "Notes", Type: QuestionText},
		}},
		{Title: "Empty"},
		{Title: "Kitchen", Questions: []Question{
			{Text: "Labels containers", Type: QuestionRating, GradingScaleID: &scale},
		}},
	}}

	require.Equal(t, 3, tpl.Count())
	require.Equal(t, []answers.Key{answers.K(0, 0), answers.K(0, 1), answers.K(2, 0)}, tpl.Keys())
	require.Equal(t, "Section 3 - Labels containers", tpl.Label(answers.K(2, 0)))
	require.Equal(t, "Section 2 - question 1", tpl.Label(answers.K(1, 0)))
	require.Equal(t, []uuid.UUID{scale}, tpl.ScaleIDs())

	_, ok := tpl.Question(answers.K(0, 5))
	require.False(t, ok)

	q, _ := tpl.Question(answers.K(0, 1))
	require.False(t, q.Gradable())
}

func TestGradingScaleSortedIsStableCopy(t *testing.T) {
	t.Parallel()

	g := GradingScale{Grades: []Grade{{Value: 90, Label: "C"}, {Value: 10, Label: "A"}, {Value: 50, Label: "B"}}}
	sorted := g.Sorted()

	require.Equal(t, []string{"A", "B", "C"}, []string{sorted[0].Label, sorted[1].Label, sorted[2].Label})
	require.Equal(t, "C", g.Grades[0].Label, "source order is untouched")
}

func TestModelRoundTripKeepsSections(t *testing.T) {
	t.Parallel()

	tpl := Template{ID: uuid.New(), Name: "Line cook", Sections: []Section{{Title: "Prep", Questions: []Question{{Text: "Mise en place", Type: QuestionText}}}}}
	require.Equal(t, tpl, NewTemplateModel(tpl).ToDomain())

	g := GradingScale{ID: uuid.New(), Name: "3-point", Grades: []Grade{{Value: 1, Label: "Low"}}}
	require.Equal(t, g, NewGradingScaleModel(g).ToDomain())
}
