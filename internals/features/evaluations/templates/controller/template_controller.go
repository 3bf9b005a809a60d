package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"restaurantops_backend/internals/features/evaluations/templates/dto"
	"restaurantops_backend/internals/features/evaluations/templates/service"
	helper "restaurantops_backend/internals/helpers"
)

type TemplateController struct {
	Service *service.Service
}

func NewTemplateController(svc *service.Service) *TemplateController {
	return &TemplateController{Service: svc}
}

// GET /api/u/evaluation-templates/:id
func (ctrl *TemplateController) GetTemplate(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return helper.JsonDomainError(c, err)
	}
	t, err := ctrl.Service.GetTemplate(c.UserContext(), id)
	if err != nil {
		return helper.JsonDomainError(c, err)
	}
	return helper.JsonOK(c, "template", t)
}

// GET /api/a/evaluation-templates
func (ctrl *TemplateController) ListTemplates(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctrl.Service.ListTemplates(c.UserContext(), p.Offset, p.Limit)
	if err != nil {
		return helper.JsonDomainError(c, err)
	}
	return helper.JsonList(c, "templates", rows, helper.BuildPagination(total, p, len(rows)))
}

// POST /api/a/evaluation-templates
func (ctrl *TemplateController) CreateTemplate(c *fiber.Ctx) error {
	var req dto.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonValidationError(c, "invalid body", map[string][]string{"body": {err.Error()}})
	}
	if err := helper.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, "invalid template", helper.ValidationErrorMap(err))
	}
	t, err := ctrl.Service.CreateTemplate(c.UserContext(), req.ToModel(uuid.Nil))
	if err != nil {
		return helper.JsonDomainError(c, err)
	}
	return helper.JsonCreated(c, "template created", t)
}

// PUT /api/a/evaluation-templates/:id
func (ctrl *TemplateController) UpdateTemplate(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return helper.JsonDomainError(c, err)
	}
	var req dto.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonValidationError(c, "invalid body", map[string][]string{"body": {err.Error()}})
	}
	if err := helper.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, "invalid template", helper.ValidationErrorMap(err))
	}
	t, err := ctrl.Service.UpdateTemplate(c.UserContext(), req.ToModel(id))
	if err != nil {
		return helper.JsonDomainError(c, err)
	}
	return helper.JsonUpdated(c, "template updated", t)
}

// GET /api/u/grading-scales/:id
func (ctrl *TemplateController) GetGradingScale(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return helper.JsonDomainError(c, err)
	}
	g, err := ctrl.Service.GetGradingScale(c.UserContext(), id)
	if err != nil {
		return helper.JsonDomainError(c, err)
	}
	return helper.JsonOK(c, "grading scale", g)
}

// GET /api/a/grading-scales
func (ctrl *TemplateController) ListGradingScales(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctrl.Service.ListGradingScales(c.UserContext(), p.Offset, p.Limit)
	if err != nil {
		return helper.JsonDomainError(c, err)
	}
	return helper.JsonList(c, "grading scales", rows, helper.BuildPagination(total, p, len(rows)))
}

// POST /api/a/grading-scales
func (ctrl *TemplateController) CreateGradingScale(c *fiber.Ctx) error {
	var req dto.GradingScaleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonValidationError(c, "invalid body", map[string][]string{"body": {err.Error()}})
	}
	if err := helper.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, "invalid grading scale", helper.ValidationErrorMap(err))
	}
	g, err := ctrl.Service.CreateGradingScale(c.UserContext(), req.ToModel())
	if err != nil {
		return helper.JsonDomainError(c, err)
	}
	return helper.JsonCreated(c, "grading scale created", g)
}
