package handlers

import (
	"log"
	"time"

	"gerai/internal/models"
	"gerai/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ShipmentHandler handles HTTP requests for shipments and tracking events.
// The status and event routes are the ingestion point for carrier updates;
// customer-facing tracking goes through the order track endpoint.
type ShipmentHandler struct {
	service  *services.ShipmentService
	validate *validator.Validate
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(service *services.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the shipment routes with the Fiber app.
func (h *ShipmentHandler) RegisterRoutes(router fiber.Router) {
	shipmentRoutes := router.Group("/shipments")
	shipmentRoutes.Get("/:id", h.HandleGetShipment)
	shipmentRoutes.Patch("/:id/status", h.HandleUpdateStatus)
	shipmentRoutes.Get("/:id/events", h.HandleGetTrackingEvents)
	shipmentRoutes.Post("/:id/events", h.HandleAddTrackingEvent)
}

// HandleGetShipment retrieves a shipment by its ID.
func (h *ShipmentHandler) HandleGetShipment(c *fiber.Ctx) error {
	shipment, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting shipment %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(shipment)
}

// UpdateShipmentStatusRequest represents the request body for a shipment
// status change.
type UpdateShipmentStatusRequest struct {
	Status      string `json:"status" validate:"required"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// HandleUpdateStatus changes a shipment's status. Every change appends a
// tracking event and keeps the owning order's status in step.
func (h *ShipmentHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req UpdateShipmentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	shipment, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	shipment, err = h.service.UpdateShipmentStatus(shipment, models.ShipmentStatus(req.Status), req.Location, req.Description, currentUserID(c))
	if err != nil {
		log.Printf("Error updating shipment %s status: %v", shipment.ID, err)
		return respondError(c, err)
	}

	return c.JSON(shipment)
}

// HandleGetTrackingEvents lists a shipment's tracking events, newest first.
func (h *ShipmentHandler) HandleGetTrackingEvents(c *fiber.Ctx) error {
	shipment, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	events, err := h.service.GetTrackingEvents(shipment.ID)
	if err != nil {
		log.Printf("Error getting tracking events for shipment %s: %v", shipment.ID, err)
		return respondError(c, err)
	}

	return c.JSON(events)
}

// AddTrackingEventRequest represents the request body for recording a
// carrier tracking event.
type AddTrackingEventRequest struct {
	Status      string     `json:"status" validate:"required"`
	EventDate   *time.Time `json:"event_date"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
}

// HandleAddTrackingEvent records a carrier event against a shipment. The
// event's status becomes the shipment's current status.
func (h *ShipmentHandler) HandleAddTrackingEvent(c *fiber.Ctx) error {
	var req AddTrackingEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	eventDate := time.Now()
	if req.EventDate != nil {
		eventDate = *req.EventDate
	}

	shipment, err := h.service.AddTrackingEvent(c.Params("id"), models.ShipmentStatus(req.Status), eventDate, req.Location, req.Description, currentUserID(c))
	if err != nil {
		log.Printf("Error adding tracking event to shipment %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(shipment)
}
