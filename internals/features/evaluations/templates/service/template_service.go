package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"restaurantops_backend/internals/features/evaluations/lifecycle"
	"restaurantops_backend/internals/features/evaluations/templates/model"
	"restaurantops_backend/internals/features/evaluations/templates/repository"
)

const (
	actionCreateTemplate lifecycle.Action = "create_template"
	actionUpdateTemplate lifecycle.Action = "update_template"
	actionCreateScale    lifecycle.Action = "create_grading_scale"
)

type Service struct {
	Store  repository.Store
	Logger zerolog.Logger
}

func New(store repository.Store, log zerolog.Logger) *Service {
	return &Service{Store: store, Logger: log}
}

func (s *Service) GetTemplate(ctx context.Context, id uuid.UUID) (model.Template, error) {
	return s.Store.GetTemplate(ctx, id)
}

func (s *Service) ListTemplates(ctx context.Context, offset, limit int) ([]model.Template, int64, error) {
	return s.Store.ListTemplates(ctx, offset, limit)
}

func (s *Service) CreateTemplate(ctx context.Context, t model.Template) (model.Template, error) {
	if err := s.checkTemplate(ctx, actionCreateTemplate, &t); err != nil {
		return model.Template{}, err
	}
	t.ID = uuid.Nil
	if err := s.Store.CreateTemplate(ctx, &t); err != nil {
		return model.Template{}, err
	}
	s.Logger.Info().Str("template_id", t.ID.String()).Int("questions", t.Count()).Msg("template created")
	return t, nil
}

// UpdateTemplate replaces name and sections. A template in use by any
// evaluation is frozen.
func (s *Service) UpdateTemplate(ctx context.Context, t model.Template) (model.Template, error) {
	if _, err := s.Store.GetTemplate(ctx, t.ID); err != nil {
		return model.Template{}, err
	}
	used, err := s.Store.TemplateReferenced(ctx, t.ID)
	if err != nil {
		return model.Template{}, err
	}
	if used {
		return model.Template{}, lifecycle.NewGuardViolation(actionUpdateTemplate, "", "template is referenced by an evaluation")
	}
	if err := s.checkTemplate(ctx, actionUpdateTemplate, &t); err != nil {
		return model.Template{}, err
	}
	if err := s.Store.UpdateTemplate(ctx, t); err != nil {
		return model.Template{}, err
	}
	s.Logger.Info().Str("template_id", t.ID.String()).Msg("template updated")
	return t, nil
}

// checkTemplate trims text, assigns missing question ids and makes sure every
// rating question names an existing scale.
func (s *Service) checkTemplate(ctx context.Context, action lifecycle.Action, t *model.Template) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return lifecycle.FieldError(action, "name", "is required")
	}
	if len(t.Sections) == 0 {
		return lifecycle.FieldError(action, "sections", "at least one section is required")
	}
	for si := range t.Sections {
		sec := &t.Sections[si]
		sec.Title = strings.TrimSpace(sec.Title)
		if len(sec.Questions) == 0 {
			return lifecycle.FieldError(action, fmt.Sprintf("sections[%d].questions", si), "at least one question is required")
		}
		for qi := range sec.Questions {
			q := &sec.Questions[qi]
			q.Text = strings.TrimSpace(q.Text)
			if q.ID == "" {
				q.ID = uuid.NewString()
			}
			if q.Type == model.QuestionRating && (q.GradingScaleID == nil || *q.GradingScaleID == uuid.Nil) {
				return lifecycle.FieldError(action, fmt.Sprintf("sections[%d].questions[%d].gradingScaleId", si, qi), "rating questions need a grading scale")
			}
		}
	}
	if _, err := s.Store.GetGradingScales(ctx, t.ScaleIDs()); err != nil {
		if lifecycle.KindOf(err) == lifecycle.KindNotFound {
			return lifecycle.FieldError(action, "gradingScaleId", err.Error())
		}
		return err
	}
	return nil
}

func (s *Service) GetGradingScale(ctx context.Context, id uuid.UUID) (model.GradingScale, error) {
	return s.Store.GetGradingScale(ctx, id)
}

func (s *Service) ListGradingScales(ctx context.Context, offset, limit int) ([]model.GradingScale, int64, error) {
	return s.Store.ListGradingScales(ctx, offset, limit)
}

// CreateGradingScale requires distinct values and labels so ranks are unambiguous.
func (s *Service) CreateGradingScale(ctx context.Context, g model.GradingScale) (model.GradingScale, error) {
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return model.GradingScale{}, lifecycle.FieldError(actionCreateScale, "name", "is required")
	}
	if len(g.Grades) == 0 {
		return model.GradingScale{}, lifecycle.FieldError(actionCreateScale, "grades", "at least one grade is required")
	}
	values := map[float64]bool{}
	labels := map[string]bool{}
	for i := range g.Grades {
		g.Grades[i].Label = strings.TrimSpace(g.Grades[i].Label)
		lbl := strings.ToLower(g.Grades[i].Label)
		if values[g.Grades[i].Value] || labels[lbl] {
			return model.GradingScale{}, lifecycle.FieldError(actionCreateScale, fmt.Sprintf("grades[%d]", i), "duplicate value or label")
		}
		values[g.Grades[i].Value] = true
		labels[lbl] = true
	}
	g.ID = uuid.Nil
	if err := s.Store.CreateGradingScale(ctx, &g); err != nil {
		return model.GradingScale{}, err
	}
	return g, nil
}
