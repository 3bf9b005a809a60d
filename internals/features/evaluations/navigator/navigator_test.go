package navigator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"restaurantops_backend/internals/features/evaluations/answers"
	tmodel "restaurantops_backend/internals/features/evaluations/templates/model"
)

func shape(counts ...int) tmodel.Template {
	tpl := tmodel.Template{}
	for _, n := range counts {
		sec := tmodel.Section{Title: "S"}
		for i := 0; i < n; i++ {
			sec.Questions = append(sec.Questions, tmodel.Question{Text: "Q", Type: tmodel.QuestionText, Required: true})
		}
		tpl.Sections = append(tpl.Sections, sec)
	}
	return tpl
}

func TestNextScansForwardThenWraps(t *testing.T) {
	t.Parallel()

	tpl := shape(2, 2)
	ans := answers.Map{answers.K(0, 1): answers.Text("x"), answers.K(1, 1): answers.Text("x")}

	k, ok := Next(tpl, ans, answers.K(0, 0))
	require.True(t, ok)
	require.Equal(t, answers.K(1, 0), k)

	k, ok = Next(tpl, ans, answers.K(1, 0))
	require.True(t, ok)
	require.Equal(t, answers.K(0, 0), k, "wraps to the start")
}

func TestNextReturnsFalseWhenEverythingElseAnswered(t *testing.T) {
	t.Parallel()

	tpl := shape(1, 2)
	ans := answers.Map{answers.K(0, 0): answers.Text("a"), answers.K(1, 0): answers.Text("b"), answers.K(1, 1): answers.Text("c")}

	_, ok := Next(tpl, ans, answers.K(1, 1))
	require.False(t, ok)
}

func TestNextVisitsEveryQuestionOnce(t *testing.T) {
	t.Parallel()

	for _, tpl := range []tmodel.Template{shape(1), shape(3, 0, 2), shape(2, 2), shape(0, 4, 1)} {
		ans := answers.Map{}
		visited := map[answers.Key]int{}

		cur, ok := FirstUnanswered(tpl, ans)
		for ok {
			visited[cur]++
			ans[cur] = answers.Text("done")
			cur, ok = Next(tpl, ans, cur)
		}

		require.Len(t, visited, tpl.Count())
		for k, n := range visited {
			require.Equal(t, 1, n, "question %s visited more than once", k)
		}
	}
}

func TestNextFromPartialAnswers(t *testing.T) {
	t.Parallel()

	tpl := shape(2, 2)
	ans := answers.Map{answers.K(0, 0): answers.Text("a"), answers.K(1, 1): answers.Text("b")}

	visited := []answers.Key{}
	cur, ok := FirstUnanswered(tpl, ans)
	for ok {
		visited = append(visited, cur)
		ans[cur] = answers.Text("done")
		cur, ok = Next(tpl, ans, cur)
	}
	require.Equal(t, []answers.Key{answers.K(0, 1), answers.K(1, 0)}, visited)
}

func TestPrevious(t *testing.T) {
	t.Parallel()

	tpl := shape(2, 0, 3)

	k, ok := Previous(tpl, answers.K(2, 1))
	require.True(t, ok)
	require.Equal(t, answers.K(2, 0), k)

	k, ok = Previous(tpl, answers.K(2, 0))
	require.True(t, ok)
	require.Equal(t, answers.K(0, 1), k, "skips the empty section")

	_, ok = Previous(tpl, answers.K(0, 0))
	require.False(t, ok)

	_, ok = Previous(tpl, answers.K(5, 0))
	require.False(t, ok)
}

func TestQuestionNumber(t *testing.T) {
	t.Parallel()

	tpl := shape(2, 3, 1)
	require.Equal(t, 1, QuestionNumber(tpl, answers.K(0, 0)))
	require.Equal(t, 3, QuestionNumber(tpl, answers.K(1, 0)))
	require.Equal(t, 5, QuestionNumber(tpl, answers.K(1, 2)))
	require.Equal(t, 6, QuestionNumber(tpl, answers.K(2, 0)))
}

func TestStart(t *testing.T) {
	t.Parallel()

	tpl := shape(2, 2)
	ans := answers.Map{
		answers.K(0, 0): answers.Number(1),
		answers.K(0, 1): answers.Number(2),
		answers.K(1, 0): answers.Number(3),
	}

	c := Start(tpl, ans)
	require.True(t, c.HasPosition)
	require.Equal(t, answers.K(1, 1), c.Position)
	require.Equal(t, 4, c.Number)
	require.False(t, c.ShowSummary)

	ans[answers.K(1, 1)] = answers.Number(2)
	c = Start(tpl, ans)
	require.False(t, c.HasPosition)
	require.True(t, c.ShowSummary)
}

func TestStartShowsSummaryWhenOnlyOptionalRemain(t *testing.T) {
	t.Parallel()

	tpl := shape(2)
	tpl.Sections[0].Questions[1].Required = false

	c := Start(tpl, answers.Map{answers.K(0, 0): answers.Text("a")})
	require.True(t, c.ShowSummary)
	require.True(t, c.HasPosition)
	require.Equal(t, answers.K(0, 1), c.Position)
}

func TestMissingRequired(t *testing.T) {
	t.Parallel()

	tpl := shape(1, 2)
	tpl.Sections[1].Questions[0].Required = false

	got := MissingRequired(tpl, answers.Map{answers.K(0, 0): answers.Text("  ")})
	require.Equal(t, []answers.Key{answers.K(0, 0), answers.K(1, 1)}, got)
}
