package services

import (
	"log"

	"gerai/internal/models"
	"gerai/internal/repositories"
	"gerai/pkg/rabbitmq"
)

// Notifier is the fire-and-forget notification sink the workflows emit to.
// Implementations must never fail the calling workflow: errors are logged
// and swallowed.
type Notifier interface {
	Notify(userID, eventType, content, relatedEntityID string)
}

// NotificationService stores notifications and publishes them as events to
// RabbitMQ. Both actions are best-effort.
type NotificationService struct {
	repo     repositories.NotificationRepository
	mqClient *rabbitmq.Client // may be nil when messaging is not configured
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repositories.NotificationRepository, mqClient *rabbitmq.Client) *NotificationService {
	return &NotificationService{
		repo:     repo,
		mqClient: mqClient,
	}
}

// Notify records a notification for the user and publishes a matching event.
// Failures are logged and never propagated to the caller.
func (s *NotificationService) Notify(userID, eventType, content, relatedEntityID string) {
	notification := &models.Notification{
		UserID:           userID,
		NotificationType: eventType,
		Content:          content,
		RelatedEntityID:  relatedEntityID,
	}
	if err := s.repo.Create(notification); err != nil {
		log.Printf("Warning: failed to store %s notification for user %s: %v", eventType, userID, err)
	}

	if s.mqClient == nil {
		return
	}
	err := s.mqClient.PublishEvent(rabbitmq.Event{
		EventType:       eventType,
		UserID:          userID,
		Content:         content,
		RelatedEntityID: relatedEntityID,
	})
	if err != nil {
		log.Printf("Warning: failed to publish %s event for user %s: %v", eventType, userID, err)
	}
}

// GetUserNotifications retrieves notifications for a user.
func (s *NotificationService) GetUserNotifications(userID string, unreadOnly bool) ([]models.Notification, error) {
	return s.repo.GetByUser(userID, unreadOnly)
}
