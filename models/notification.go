package models

import (
	"time"
)

// NotificationType labels what a notification is about
type NotificationType string

const (
	NotificationMigrationApproved NotificationType = "migration_approved"
	NotificationMigrationRejected NotificationType = "migration_rejected"
	NotificationMigrationFailed   NotificationType = "migration_failed"
	NotificationMigrationDone     NotificationType = "migration_completed"
)

// Notification is a best-effort message to a user. Delivery failures are
// logged and swallowed; they never block the transition that produced them.
type Notification struct {
	ID      string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID  string           `json:"userId" gorm:"type:uuid;not null;index"`
	TeamID  string           `json:"teamId" gorm:"type:uuid;not null;index"`
	Type    NotificationType `json:"type" gorm:"type:varchar(40);not null"`
	Message string           `json:"message" gorm:"type:text;not null"`

	ReadAt    *time.Time `json:"readAt" gorm:"default:null"`
	CreatedAt time.Time  `json:"createdAt"`
}

// TableName sets the table name for Notification model
func (Notification) TableName() string {
	return "notifications"
}
