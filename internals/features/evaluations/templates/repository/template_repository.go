// file: internals/features/evaluations/templates/repository/template_repository.go
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"restaurantops_backend/internals/features/evaluations/lifecycle"
	"restaurantops_backend/internals/features/evaluations/templates/model"
)

// Store is the template/grading-scale provider.
type Store interface {
	GetTemplate(ctx context.Context, id uuid.UUID) (model.Template, error)
	ListTemplates(ctx context.Context, offset, limit int) ([]model.Template, int64, error)
	CreateTemplate(ctx context.Context, t *model.Template) error
	UpdateTemplate(ctx context.Context, t model.Template) error
	TemplateReferenced(ctx context.Context, id uuid.UUID) (bool, error)

	GetGradingScale(ctx context.Context, id uuid.UUID) (model.GradingScale, error)
	GetGradingScales(ctx context.Context, ids []uuid.UUID) (model.ScaleSet, error)
	ListGradingScales(ctx context.Context, offset, limit int) ([]model.GradingScale, int64, error)
	CreateGradingScale(ctx context.Context, g *model.GradingScale) error
}

// Repository is the Postgres Store.
type Repository struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) GetTemplate(ctx context.Context, id uuid.UUID) (model.Template, error) {
	var m model.EvaluationTemplateModel
	err := r.DB.WithContext(ctx).
		Where("evaluation_template_id = ?", id).
		First(&m).Error
	if err != nil {
		return model.Template{}, mapErr("template", id, err)
	}
	return m.ToDomain(), nil
}

func (r *Repository) ListTemplates(ctx context.Context, offset, limit int) ([]model.Template, int64, error) {
	var (
		rows  []model.EvaluationTemplateModel
		total int64
	)
	q := r.DB.WithContext(ctx).Model(&model.EvaluationTemplateModel{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, lifecycle.NewTransient("count templates", err)
	}
	if err := q.Order("evaluation_template_created_at DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, lifecycle.NewTransient("list templates", err)
	}
	out := make([]model.Template, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.ToDomain())
	}
	return out, total, nil
}

func (r *Repository) CreateTemplate(ctx context.Context, t *model.Template) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	m := model.NewTemplateModel(*t)
	if err := r.DB.WithContext(ctx).Create(&m).Error; err != nil {
		return lifecycle.NewTransient("create template", err)
	}
	return nil
}

func (r *Repository) UpdateTemplate(ctx context.Context, t model.Template) error {
	m := model.NewTemplateModel(t)
	res := r.DB.WithContext(ctx).
		Model(&model.EvaluationTemplateModel{}).
		Where("evaluation_template_id = ?", t.ID).
		Updates(map[string]any{
			"evaluation_template_name":       m.EvaluationTemplateName,
			"evaluation_template_sections":   m.EvaluationTemplateSections,
			"evaluation_template_updated_at": gorm.Expr("now()"),
		})
	if res.Error != nil {
		return lifecycle.NewTransient("update template", res.Error)
	}
	if res.RowsAffected == 0 {
		return lifecycle.NewNotFound("template", t.ID.String())
	}
	return nil
}

// TemplateReferenced reports whether any evaluation points at the template.
func (r *Repository) TemplateReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Table("evaluations").
		Where("evaluation_template_id = ? AND evaluation_deleted_at IS NULL", id).
		Limit(1).
		Count(&n).Error
	if err != nil {
		return false, lifecycle.NewTransient("count template references", err)
	}
	return n > 0, nil
}

func (r *Repository) GetGradingScale(ctx context.Context, id uuid.UUID) (model.GradingScale, error) {
	var m model.GradingScaleModel
	if err := r.DB.WithContext(ctx).Where("grading_scale_id = ?", id).First(&m).Error; err != nil {
		return model.GradingScale{}, mapErr("grading scale", id, err)
	}
	return m.ToDomain(), nil
}

// GetGradingScales loads every requested scale; a missing one is NotFound.
func (r *Repository) GetGradingScales(ctx context.Context, ids []uuid.UUID) (model.ScaleSet, error) {
	out := model.ScaleSet{}
	if len(ids) == 0 {
		return out, nil
	}
	var rows []model.GradingScaleModel
	if err := r.DB.WithContext(ctx).Where("grading_scale_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, lifecycle.NewTransient("load grading scales", err)
	}
	for _, m := range rows {
		out[m.GradingScaleID] = m.ToDomain()
	}
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			return nil, lifecycle.NewNotFound("grading scale", id.String())
		}
	}
	return out, nil
}

func (r *Repository) ListGradingScales(ctx context.Context, offset, limit int) ([]model.GradingScale, int64, error) {
	var (
		rows  []model.GradingScaleModel
		total int64
	)
	q := r.DB.WithContext(ctx).Model(&model.GradingScaleModel{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, lifecycle.NewTransient("count grading scales", err)
	}
	if err := q.Order("grading_scale_name ASC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, lifecycle.NewTransient("list grading scales", err)
	}
	out := make([]model.GradingScale, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.ToDomain())
	}
	return out, total, nil
}

func (r *Repository) CreateGradingScale(ctx context.Context, g *model.GradingScale) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	m := model.NewGradingScaleModel(*g)
	if err := r.DB.WithContext(ctx).Create(&m).Error; err != nil {
		return lifecycle.NewTransient("create grading scale", err)
	}
	return nil
}

func mapErr(resource string, id uuid.UUID, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return lifecycle.NewNotFound(resource, id.String())
	}
	return lifecycle.NewTransient("load "+resource, err)
}
