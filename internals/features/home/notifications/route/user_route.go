package route

import (
	"github.com/gofiber/fiber/v2"

	"restaurantops_backend/internals/features/home/notifications/controller"
)

func NotificationUserRoutes(user fiber.Router, ctrl *controller.NotificationController) {
	notification := user.Group("/notifications")
	notification.Get("/", ctrl.GetMyNotifications)
	notification.Patch("/:id/read", ctrl.MarkRead)
}
