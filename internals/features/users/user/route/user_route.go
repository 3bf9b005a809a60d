package routes

import (
	"github.com/gofiber/fiber/v2"

	userController "restaurantops_backend/internals/features/users/user/controller"
)

func UserUserRoutes(r fiber.Router, ctrl *userController.UserController) {
	r.Get("/users/me", ctrl.GetMe)
}

// guards run on /users only.
func UserAdminRoutes(r fiber.Router, ctrl *userController.UserController, guards ...fiber.Handler) {
	users := r.Group("/users", guards...)
	users.Get("/", ctrl.GetUsers)
	users.Post("/", ctrl.CreateUser)
	users.Patch("/:id", ctrl.UpdateUser)
}
