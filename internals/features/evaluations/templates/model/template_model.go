// file: internals/features/evaluations/templates/model/template_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EvaluationTemplateModel struct {
	EvaluationTemplateID       uuid.UUID                      `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:evaluation_template_id" json:"evaluation_template_id"`
	EvaluationTemplateName     string                         `gorm:"type:varchar(160);not null;column:evaluation_template_name" json:"evaluation_template_name"`
	EvaluationTemplateSections datatypes.JSONType[[]Section] `gorm:"type:jsonb;not null;column:evaluation_template_sections" json:"evaluation_template_sections"`

	EvaluationTemplateCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:evaluation_template_created_at" json:"evaluation_template_created_at"`
	EvaluationTemplateUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:evaluation_template_updated_at" json:"evaluation_template_updated_at"`
	EvaluationTemplateDeletedAt gorm.DeletedAt `gorm:"column:evaluation_template_deleted_at;index" json:"evaluation_template_deleted_at,omitempty"`
}

func (EvaluationTemplateModel) TableName() string { return "evaluation_templates" }

func (m EvaluationTemplateModel) ToDomain() Template {
	return Template{
		ID:       m.EvaluationTemplateID,
		Name:     m.EvaluationTemplateName,
		Sections: m.EvaluationTemplateSections.Data(),
	}
}

func NewTemplateModel(t Template) EvaluationTemplateModel {
	return EvaluationTemplateModel{
		EvaluationTemplateID:       t.ID,
		EvaluationTemplateName:     t.Name,
		EvaluationTemplateSections: datatypes.NewJSONType(t.Sections),
	}
}

type GradingScaleModel struct {
	GradingScaleID     uuid.UUID                    `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:grading_scale_id" json:"grading_scale_id"`
	GradingScaleName   string                       `gorm:"type:varchar(120);not null;column:grading_scale_name" json:"grading_scale_name"`
	GradingScaleGrades datatypes.JSONType[[]Grade] `gorm:"type:jsonb;not null;column:grading_scale_grades" json:"grading_scale_grades"`

	GradingScaleCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:grading_scale_created_at" json:"grading_scale_created_at"`
	GradingScaleUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:grading_scale_updated_at" json:"grading_scale_updated_at"`
	GradingScaleDeletedAt gorm.DeletedAt `gorm:"column:grading_scale_deleted_at;index" json:"grading_scale_deleted_at,omitempty"`
}

func (GradingScaleModel) TableName() string { return "grading_scales" }

func (m GradingScaleModel) ToDomain() GradingScale {
	return GradingScale{
		ID:     m.GradingScaleID,
		Name:   m.GradingScaleName,
		Grades: m.GradingScaleGrades.Data(),
	}
}

func NewGradingScaleModel(g GradingScale) GradingScaleModel {
	return GradingScaleModel{
		GradingScaleID:     g.ID,
		GradingScaleName:   g.Name,
		GradingScaleGrades: datatypes.NewJSONType(g.Grades),
	}
}
