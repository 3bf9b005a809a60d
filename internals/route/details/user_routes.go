package details

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"restaurantops_backend/internals/constants"
	userController "restaurantops_backend/internals/features/users/user/controller"
	userRoutes "restaurantops_backend/internals/features/users/user/route"
	userService "restaurantops_backend/internals/features/users/user/service"
	authMiddleware "restaurantops_backend/internals/middlewares/auth"
)

// Contoh akses: /api/u/users/me
func UserRoutes(api fiber.Router, staff userService.Staff, log zerolog.Logger) {
	userRoutes.UserUserRoutes(api, userController.NewUserController(staff, log))
}

// Staff registry is admin only, on top of the admin group guard.
// Contoh akses: /api/a/users
func UserAdminRoutes(api fiber.Router, staff userService.Staff, log zerolog.Logger) {
	onlyAdmin := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("the staff registry"), constants.AdminOnly...)
	userRoutes.UserAdminRoutes(api, userController.NewUserController(staff, log), onlyAdmin)
}
