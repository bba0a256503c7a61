package repositories

import (
	"errors"
	"fmt"

	"gerai/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMShipmentRepository is a GORM implementation of ShipmentRepository.
type GORMShipmentRepository struct {
	db *gorm.DB
}

// NewGORMShipmentRepository creates a new instance of GORMShipmentRepository.
func NewGORMShipmentRepository(db *gorm.DB) *GORMShipmentRepository {
	return &GORMShipmentRepository{
		db: db,
	}
}

// Create creates a new shipment.
func (r *GORMShipmentRepository) Create(shipment *models.Shipment) error {
	if shipment.ID == "" {
		shipment.ID = uuid.New().String()
	}
	for i := range shipment.TrackingEvents {
		if shipment.TrackingEvents[i].ID == "" {
			shipment.TrackingEvents[i].ID = uuid.New().String()
		}
		shipment.TrackingEvents[i].ShipmentID = shipment.ID
	}
	if err := r.db.Create(shipment).Error; err != nil {
		return fmt.Errorf("failed to create shipment: %w", err)
	}
	return nil
}

// GetByID retrieves a shipment with its tracking events.
func (r *GORMShipmentRepository) GetByID(id string) (*models.Shipment, error) {
	var shipment models.Shipment
	if err := r.db.Preload("TrackingEvents", func(db *gorm.DB) *gorm.DB {
		return db.Order("event_date DESC")
	}).First(&shipment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shipment with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get shipment by ID %s: %w", id, err)
	}
	return &shipment, nil
}

// GetByOrderID retrieves the shipment for an order.
func (r *GORMShipmentRepository) GetByOrderID(orderID string) (*models.Shipment, error) {
	var shipment models.Shipment
	if err := r.db.Preload("TrackingEvents", func(db *gorm.DB) *gorm.DB {
		return db.Order("event_date DESC")
	}).First(&shipment, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shipment for order %s: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get shipment for order %s: %w", orderID, err)
	}
	return &shipment, nil
}

// Update persists the mutable fields of an existing shipment.
func (r *GORMShipmentRepository) Update(shipment *models.Shipment) error {
	res := r.db.Omit("TrackingEvents").Save(shipment)
	if res.Error != nil {
		return fmt.Errorf("failed to update shipment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("shipment with ID %s for update: %w", shipment.ID, ErrNotFound)
	}
	return nil
}

// AddTrackingEvent appends an immutable tracking event to a shipment.
func (r *GORMShipmentRepository) AddTrackingEvent(event *models.ShipmentTrackingEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("failed to add tracking event: %w", err)
	}
	return nil
}

// GetTrackingEvents retrieves all tracking events for a shipment, newest first.
func (r *GORMShipmentRepository) GetTrackingEvents(shipmentID string) ([]models.ShipmentTrackingEvent, error) {
	var events []models.ShipmentTrackingEvent
	if err := r.db.Order("event_date DESC").Find(&events, "shipment_id = ?", shipmentID).Error; err != nil {
		return nil, fmt.Errorf("failed to get tracking events for shipment %s: %w", shipmentID, err)
	}
	return events, nil
}
