package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"restaurantops_backend/internals/features/evaluations/lifecycle"
	"restaurantops_backend/internals/features/home/notifications/model"
)

// Inbox is the read side of in-app notifications.
type Inbox interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, offset, limit int) ([]model.NotificationModel, int64, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) error
}

type GormInbox struct {
	DB *gorm.DB
}

func NewGormInbox(db *gorm.DB) *GormInbox { return &GormInbox{DB: db} }

func (i *GormInbox) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, offset, limit int) ([]model.NotificationModel, int64, error) {
	q := i.DB.WithContext(ctx).Model(&model.NotificationModel{}).Where("notification_user_id = ?", userID)
	if unreadOnly {
		q = q.Where("notification_read = false")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, lifecycle.NewTransient("count notifications", err)
	}
	var rows []model.NotificationModel
	if err := q.Order("notification_created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, lifecycle.NewTransient("list notifications", err)
	}
	return rows, total, nil
}

// MarkRead only touches the caller's own notifications.
func (i *GormInbox) MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) error {
	res := i.DB.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("notification_id = ? AND notification_user_id = ?", id, userID).
		Updates(map[string]any{"notification_read": true, "notification_read_at": at})
	if res.Error != nil {
		return lifecycle.NewTransient("mark notification read", res.Error)
	}
	if res.RowsAffected == 0 {
		return lifecycle.NewNotFound("notification", id.String())
	}
	return nil
}
