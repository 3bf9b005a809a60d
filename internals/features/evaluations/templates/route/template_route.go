package route

import (
	"github.com/gofiber/fiber/v2"

	"restaurantops_backend/internals/features/evaluations/templates/controller"
)

func TemplateUserRoutes(r fiber.Router, ctrl *controller.TemplateController) {
	r.Get("/evaluation-templates/:id", ctrl.GetTemplate)
	r.Get("/grading-scales/:id", ctrl.GetGradingScale)
}

func TemplateAdminRoutes(r fiber.Router, ctrl *controller.TemplateController) {
	t := r.Group("/evaluation-templates")
	t.Get("/", ctrl.ListTemplates)
	t.Post("/", ctrl.CreateTemplate)
	t.Put("/:id", ctrl.UpdateTemplate)

	g := r.Group("/grading-scales")
	g.Get("/", ctrl.ListGradingScales)
	g.Post("/", ctrl.CreateGradingScale)
}
