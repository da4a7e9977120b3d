package repositories

import (
	"github.com/kpizzy812/saturn-platform-sub000/database"
	"github.com/kpizzy812/saturn-platform-sub000/models"
)

// NotificationRepository handles database operations for notifications
type NotificationRepository struct{}

// NewNotificationRepository creates a new notification repository instance
func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

// Create inserts a new notification
func (r *NotificationRepository) Create(notification models.Notification) (models.Notification, error) {
	result := database.DB.Create(&notification)
	return notification, result.Error
}

// ListByUser retrieves notifications for a user, newest first
func (r *NotificationRepository) ListByUser(userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var notifications []models.Notification
	result := database.DB.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&notifications)
	return notifications, result.Error
}
