package repositories

import (
	"gerai/internal/models"
)

// ShipmentRepository defines the interface for shipment and tracking-event
// data access. A shipment belongs to exactly one order.
type ShipmentRepository interface {
	Create(shipment *models.Shipment) error
	GetByID(id string) (*models.Shipment, error)
	GetByOrderID(orderID string) (*models.Shipment, error)
	Update(shipment *models.Shipment) error
	AddTrackingEvent(event *models.ShipmentTrackingEvent) error
	GetTrackingEvents(shipmentID string) ([]models.ShipmentTrackingEvent, error)
}
