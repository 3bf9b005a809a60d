package controller

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"restaurantops_backend/internals/features/home/notifications/dto"
	"restaurantops_backend/internals/features/home/notifications/service"
	helper "restaurantops_backend/internals/helpers"
)

type NotificationController struct {
	Inbox service.Inbox
	Now   func() time.Time
}

func NewNotificationController(inbox service.Inbox) *NotificationController {
	return &NotificationController{Inbox: inbox, Now: time.Now}
}

// GET /api/u/notifications?unread=true  (+ pagination)
func (ctrl *NotificationController) GetMyNotifications(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	unread, _ := strconv.ParseBool(c.Query("unread", "false"))
	p := helper.ResolvePaging(c, 10, 100)

	rows, total, err := ctrl.Inbox.List(c.UserContext(), userID, unread, p.Offset, p.Limit)
	if err != nil {
		return helper.JsonDomainError(c, err)
	}
	return helper.JsonList(c, "notifications", dto.ToNotificationResponseList(rows), helper.BuildPagination(total, p, len(rows)))
}

// PATCH /api/u/notifications/:id/read
func (ctrl *NotificationController) MarkRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return helper.JsonDomainError(c, err)
	}
	if err := ctrl.Inbox.MarkRead(c.UserContext(), userID, id, ctrl.Now().UTC()); err != nil {
		return helper.JsonDomainError(c, err)
	}
	return helper.JsonUpdated(c, "notification marked as read", fiber.Map{"notification_id": id})
}
