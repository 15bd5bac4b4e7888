package notification

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType defines the type of notification.
type NotificationType string

const (
	DraftSubmitted NotificationType = "draft_submitted"
	DraftApproved  NotificationType = "draft_approved"
	DraftRejected  NotificationType = "draft_rejected"
	ProfileDeleted NotificationType = "profile_deleted"
)

// Notification represents a user notification.
type Notification struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID        `gorm:"type:uuid;not null;index:idx_notification_user_status" json:"user_id"` // User who receives it
	Type           NotificationType `gorm:"type:varchar(100);not null" json:"type"`
	Message        string           `gorm:"type:text;not null" json:"message"`
	RelatedDraftID *uuid.UUID       `gorm:"type:uuid" json:"related_draft_id,omitempty"` // Nullable
	IsRead         bool             `gorm:"not null;default:false;index:idx_notification_user_status" json:"is_read"`
	CreatedAt      time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_notification_user_status" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}
