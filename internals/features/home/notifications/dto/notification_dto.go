package dto

import (
	"time"

	"github.com/google/uuid"

	"restaurantops_backend/internals/features/home/notifications/model"
)

// ================== RESPONSE ==================
type NotificationResponse struct {
	NotificationID           uuid.UUID  `json:"notification_id"`
	NotificationKind         string     `json:"notification_kind"`
	NotificationTitle        string     `json:"notification_title"`
	NotificationDescription  string     `json:"notification_description"`
	NotificationEvaluationID *uuid.UUID `json:"notification_evaluation_id"` // nullable
	NotificationTags         []string   `json:"notification_tags"`
	NotificationRead         bool       `json:"notification_read"`
	NotificationReadAt       *time.Time `json:"notification_read_at,omitempty"`
	NotificationCreatedAt    string     `json:"notification_created_at"`
}

// ================ CONVERSION =================
func ToNotificationResponse(m model.NotificationModel) NotificationResponse {
	tags := []string(m.NotificationTags)
	if tags == nil {
		tags = []string{}
	}
	return NotificationResponse{
		NotificationID:           m.NotificationID,
		NotificationKind:         m.NotificationKind,
		NotificationTitle:        m.NotificationTitle,
		NotificationDescription:  m.NotificationDescription,
		NotificationEvaluationID: m.NotificationEvaluationID,
		NotificationTags:         tags,
		NotificationRead:         m.NotificationRead,
		NotificationReadAt:       m.NotificationReadAt,
		NotificationCreatedAt:    m.NotificationCreatedAt.Format(time.RFC3339),
	}
}

func ToNotificationResponseList(models []model.NotificationModel) []NotificationResponse {
	result := make([]NotificationResponse, 0, len(models))
	for _, m := range models {
		result = append(result, ToNotificationResponse(m))
	}
	return result
}
