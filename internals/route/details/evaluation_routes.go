package details

import (
	"github.com/gofiber/fiber/v2"

	evaluationController "restaurantops_backend/internals/features/evaluations/evaluations/controller"
	evaluationRoutes "restaurantops_backend/internals/features/evaluations/evaluations/route"
	evaluationService "restaurantops_backend/internals/features/evaluations/evaluations/service"
	templateController "restaurantops_backend/internals/features/evaluations/templates/controller"
	templateRoutes "restaurantops_backend/internals/features/evaluations/templates/route"
	templateService "restaurantops_backend/internals/features/evaluations/templates/service"
)

// ✅ Untuk user login (employee, evaluator)
// Contoh akses: /api/u/evaluations/:id
func EvaluationUserRoutes(api fiber.Router, evals *evaluationService.Service, tpls *templateService.Service) {
	evaluationRoutes.EvaluationUserRoutes(api, evaluationController.NewEvaluationController(evals))
	templateRoutes.TemplateUserRoutes(api, templateController.NewTemplateController(tpls))
}

// ✅ Untuk admin / Director / Leader
// Contoh akses: /api/a/evaluations
func EvaluationAdminRoutes(api fiber.Router, evals *evaluationService.Service, tpls *templateService.Service) {
	evaluationRoutes.EvaluationAdminRoutes(api, evaluationController.NewEvaluationController(evals))
	templateRoutes.TemplateAdminRoutes(api, templateController.NewTemplateController(tpls))
}
