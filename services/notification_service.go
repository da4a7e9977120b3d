package services

import (
	"github.com/sirupsen/logrus"

	"github.com/kpizzy812/saturn-platform-sub000/models"
	"github.com/kpizzy812/saturn-platform-sub000/repositories"
)

// NotificationService records best-effort notifications for users.
// Failures are logged and swallowed: a broken notification channel must
// never fail the state transition that produced the message.
type NotificationService struct {
	notifications notificationStore
}

// NewNotificationService creates a new notification service instance
func NewNotificationService() *NotificationService {
	return &NotificationService{
		notifications: repositories.NewNotificationRepository(),
	}
}

// Notify stores a notification for the user, swallowing any failure
func (s *NotificationService) Notify(userID, teamID string, kind models.NotificationType, message string) {
	_, err := s.notifications.Create(models.Notification{
		UserID:  userID,
		TeamID:  teamID,
		Type:    kind,
		Message: message,
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"component": "notifications",
			"user":      userID,
			"type":      kind,
		}).Warnf("failed to deliver notification: %v", err)
	}
}
