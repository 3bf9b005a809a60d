package route

import (
	"github.com/gofiber/fiber/v2"

	"restaurantops_backend/internals/constants"
	"restaurantops_backend/internals/features/evaluations/evaluations/controller"
	authMiddleware "restaurantops_backend/internals/middlewares/auth"
)

// EvaluationUserRoutes mounts under /api/u; role and status guards live in the service.
func EvaluationUserRoutes(r fiber.Router, ctrl *controller.EvaluationController) {
	g := r.Group("/evaluations")
	g.Get("/", ctrl.ListEvaluations)
	g.Get("/:id", ctrl.GetEvaluation)
	g.Post("/:id/self-evaluation", ctrl.SubmitSelfEvaluation)
	g.Post("/:id/schedule-review", ctrl.ScheduleReview)
	g.Post("/:id/start-review", ctrl.StartReview)
	g.Put("/:id/draft", ctrl.SaveDraft)
	g.Post("/:id/complete", ctrl.CompleteReview)
	g.Post("/:id/acknowledge", ctrl.Acknowledge)
	g.Post("/:id/notify-unacknowledged", ctrl.NotifyUnacknowledged)
}

// EvaluationAdminRoutes mounts under /api/a.
func EvaluationAdminRoutes(r fiber.Router, ctrl *controller.EvaluationController) {
	g := r.Group("/evaluations")
	g.Post("/",
		authMiddleware.OnlyRoles(constants.RoleErrorManager("evaluation creation"), constants.ManagerAndAbove...),
		ctrl.CreateEvaluation,
	)
	g.Patch("/:id/evaluator",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("evaluator reassignment"), constants.AdminOnly...),
		ctrl.ReassignEvaluator,
	)
}
