package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Notification kinds raised by evaluation transitions.
const (
	KindEvaluationAssigned  = "evaluation_assigned"
	KindSelfSubmitted       = "self_evaluation_submitted"
	KindReviewScheduled     = "review_scheduled"
	KindEvaluationCompleted = "evaluation_completed"
	KindAcknowledgeReminder = "acknowledgement_reminder"
	KindEvaluatorReassigned = "evaluator_reassigned"
)

// NotificationModel is one in-app notification for one recipient.
type NotificationModel struct {
	NotificationID           uuid.UUID      `gorm:"column:notification_id;primaryKey;type:uuid;default:gen_random_uuid()" json:"notification_id"`
	NotificationUserID       uuid.UUID      `gorm:"column:notification_user_id;type:uuid;not null;index" json:"notification_user_id"`
	NotificationKind         string         `gorm:"column:notification_kind;type:varchar(40);not null" json:"notification_kind"`
	NotificationTitle        string         `gorm:"column:notification_title;type:varchar(255);not null" json:"notification_title"`
	NotificationDescription  string         `gorm:"column:notification_description;type:text" json:"notification_description"`
	NotificationEvaluationID *uuid.UUID     `gorm:"column:notification_evaluation_id;type:uuid" json:"notification_evaluation_id"` // nullable
	NotificationTags         pq.StringArray `gorm:"column:notification_tags;type:text[]" json:"notification_tags"`
	NotificationRead         bool           `gorm:"column:notification_read;not null;default:false" json:"notification_read"`
	NotificationReadAt       *time.Time     `gorm:"column:notification_read_at" json:"notification_read_at,omitempty"`
	NotificationCreatedAt    time.Time      `gorm:"column:notification_created_at;autoCreateTime" json:"notification_created_at"`
	NotificationUpdatedAt    time.Time      `gorm:"column:notification_updated_at;autoUpdateTime" json:"notification_updated_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}
