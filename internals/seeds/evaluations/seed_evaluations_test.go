package evaluations

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"restaurantops_backend/internals/features/evaluations/templates/repository"
	"restaurantops_backend/internals/features/evaluations/templates/service"
)

func TestSeedFromJSONIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := service.New(repository.NewMemory(), zerolog.Nop())

	require.NoError(t, SeedFromJSON(ctx, svc, "data_evaluations.json", zerolog.Nop()))
	require.NoError(t, SeedFromJSON(ctx, svc, "data_evaluations.json", zerolog.Nop()))

	scales, total, err := svc.ListGradingScales(ctx, 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)

	tpls, total, err := svc.ListTemplates(ctx, 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	q := tpls[0].Sections[0].Questions[0]
	require.Equal(t, scales[0].ID, *q.GradingScaleID)
	require.NotEmpty(t, q.ID)
	require.Nil(t, tpls[0].Sections[1].Questions[1].GradingScaleID)
}

func TestSeedRejectsUnknownScale(t *testing.T) {
	t.Parallel()

	svc := service.New(repository.NewMemory(), zerolog.Nop())
	err := Seed(context.Background(), svc, SeedFile{Templates: []TemplateSeed{{
		Name: "Broken",
		Sections: []SectionSeed{{Title: "A", Questions: []QuestionSeed{
			{Text: "Q", Type: "rating", Required: true, GradingScale: "missing"},
		}}},
	}}}, zerolog.Nop())
	require.ErrorContains(t, err, `unknown grading scale "missing"`)
}
