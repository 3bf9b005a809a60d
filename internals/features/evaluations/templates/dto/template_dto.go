package dto

import (
	"github.com/google/uuid"

	"restaurantops_backend/internals/features/evaluations/templates/model"
)

type TemplateRequest struct {
	Name     string          `json:"name" validate:"required,max=160"`
	Sections []model.Section `json:"sections" validate:"required,min=1,dive"`
}

func (r TemplateRequest) ToModel(id uuid.UUID) model.Template {
	return model.Template{ID: id, Name: r.Name, Sections: r.Sections}
}

type GradingScaleRequest struct {
	Name   string        `json:"name" validate:"required,max=120"`
	Grades []model.Grade `json:"grades" validate:"required,min=1,dive"`
}

func (r GradingScaleRequest) ToModel() model.GradingScale {
	return model.GradingScale{Name: r.Name, Grades: r.Grades}
}
