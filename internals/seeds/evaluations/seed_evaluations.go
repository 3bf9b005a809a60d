package evaluations

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"restaurantops_backend/internals/features/evaluations/templates/model"
	"restaurantops_backend/internals/features/evaluations/templates/service"
)

type QuestionSeed struct {
	Text     string `json:"text"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	// GradingScale names a scale from the same file.
	GradingScale string `json:"grading_scale,omitempty"`
}

type SectionSeed struct {
	Title     string         `json:"title"`
	Questions []QuestionSeed `json:"questions"`
}

type TemplateSeed struct {
	Name     string        `json:"name"`
	Sections []SectionSeed `json:"sections"`
}

type GradingScaleSeed struct {
	Name   string        `json:"name"`
	Grades []model.Grade `json:"grades"`
}

type SeedFile struct {
	GradingScales []GradingScaleSeed `json:"grading_scales"`
	Templates     []TemplateSeed     `json:"templates"`
}

// SeedFromJSON inserts grading scales and templates whose names do not exist yet.
func SeedFromJSON(ctx context.Context, svc *service.Service, filePath string, log zerolog.Logger) error {
	log.Info().Str("file", filePath).Msg("📥 reading evaluation seeds")
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", filePath, err)
	}
	var file SeedFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}
	return Seed(ctx, svc, file, log)
}

func Seed(ctx context.Context, svc *service.Service, file SeedFile, log zerolog.Logger) error {
	existing, _, err := svc.ListGradingScales(ctx, 0, 1000)
	if err != nil {
		return err
	}
	scales := map[string]uuid.UUID{}
	for _, g := range existing {
		scales[g.Name] = g.ID
	}

	for _, s := range file.GradingScales {
		if _, ok := scales[s.Name]; ok {
			log.Info().Str("grading_scale", s.Name).Msg("ℹ️ grading scale exists, skipped")
			continue
		}
		created, err := svc.CreateGradingScale(ctx, model.GradingScale{Name: s.Name, Grades: s.Grades})
		if err != nil {
			return fmt.Errorf("seed grading scale %q: %w", s.Name, err)
		}
		scales[s.Name] = created.ID
		log.Info().Str("grading_scale", s.Name).Msg("✅ grading scale seeded")
	}

	templates, _, err := svc.ListTemplates(ctx, 0, 1000)
	if err != nil {
		return err
	}
	names := map[string]bool{}
	for _, t := range templates {
		names[t.Name] = true
	}

	for _, ts := range file.Templates {
		if names[ts.Name] {
			log.Info().Str("template", ts.Name).Msg("ℹ️ template exists, skipped")
			continue
		}
		tpl, err := ts.toModel(scales)
		if err != nil {
			return err
		}
		if _, err := svc.CreateTemplate(ctx, tpl); err != nil {
			return fmt.Errorf("seed template %q: %w", ts.Name, err)
		}
		names[ts.Name] = true
		log.Info().Str("template", ts.Name).Msg("✅ template seeded")
	}
	return nil
}

func (ts TemplateSeed) toModel(scales map[string]uuid.UUID) (model.Template, error) {
	tpl := model.Template{Name: ts.Name}
	for _, sec := range ts.Sections {
		out := model.Section{Title: sec.Title}
		for _, q := range sec.Questions {
			mq := model.Question{Text: q.Text, Type: model.QuestionType(q.Type), Required: q.Required}
			if q.GradingScale != "" {
				id, ok := scales[q.GradingScale]
				if !ok {
					return model.Template{}, fmt.Errorf("template %q: unknown grading scale %q", ts.Name, q.GradingScale)
				}
				mq.GradingScaleID = &id
			}
			out.Questions = append(out.Questions, mq)
		}
		tpl.Sections = append(tpl.Sections, out)
	}
	return tpl, nil
}
