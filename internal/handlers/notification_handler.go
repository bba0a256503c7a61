package handlers

import (
	"log"

	"gerai/internal/services"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles HTTP requests for user notifications.
type NotificationHandler struct {
	service *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// RegisterRoutes registers the notification routes with the Fiber app.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/notifications", h.HandleGetNotifications)
}

// HandleGetNotifications lists the authenticated user's notifications.
// Pass ?unread=true to restrict to unread notifications.
func (h *NotificationHandler) HandleGetNotifications(c *fiber.Ctx) error {
	unreadOnly := c.Query("unread") == "true"
	notifications, err := h.service.GetUserNotifications(currentUserID(c), unreadOnly)
	if err != nil {
		log.Printf("Error getting notifications: %v", err)
		return respondError(c, err)
	}
	return c.JSON(notifications)
}
