package details

import (
	"github.com/gofiber/fiber/v2"

	notificationController "restaurantops_backend/internals/features/home/notifications/controller"
	notificationRoutes "restaurantops_backend/internals/features/home/notifications/route"
	notificationService "restaurantops_backend/internals/features/home/notifications/service"
)

// Contoh akses: /api/u/notifications
func HomePrivateRoutes(api fiber.Router, inbox notificationService.Inbox) {
	notificationRoutes.NotificationUserRoutes(api, notificationController.NewNotificationController(inbox))
}
