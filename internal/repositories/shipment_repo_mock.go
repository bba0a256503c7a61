package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"gerai/internal/models"

	"github.com/google/uuid"
)

// MockShipmentRepository is an in-memory implementation of ShipmentRepository.
type MockShipmentRepository struct {
	shipments map[string]models.Shipment
	events    map[string][]models.ShipmentTrackingEvent // keyed by shipment ID
	mu        sync.RWMutex
}

// NewMockShipmentRepository creates a new instance of MockShipmentRepository.
func NewMockShipmentRepository() *MockShipmentRepository {
	return &MockShipmentRepository{
		shipments: make(map[string]models.Shipment),
		events:    make(map[string][]models.ShipmentTrackingEvent),
	}
}

// Create adds a new shipment.
func (r *MockShipmentRepository) Create(shipment *models.Shipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if shipment.ID == "" {
		shipment.ID = uuid.New().String()
	}
	shipment.CreatedAt = time.Now()
	shipment.UpdatedAt = time.Now()
	for i := range shipment.TrackingEvents {
		event := shipment.TrackingEvents[i]
		if event.ID == "" {
			event.ID = uuid.New().String()
		}
		event.ShipmentID = shipment.ID
		r.events[shipment.ID] = append(r.events[shipment.ID], event)
	}
	stored := *shipment
	stored.TrackingEvents = nil
	r.shipments[shipment.ID] = stored
	return nil
}

// GetByID returns a shipment with its tracking events.
func (r *MockShipmentRepository) GetByID(id string) (*models.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shipment, ok := r.shipments[id]
	if !ok {
		return nil, fmt.Errorf("shipment with ID %s: %w", id, ErrNotFound)
	}
	shipment.TrackingEvents = r.sortedEvents(id)
	return &shipment, nil
}

// GetByOrderID returns the shipment for an order.
func (r *MockShipmentRepository) GetByOrderID(orderID string) (*models.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, shipment := range r.shipments {
		if shipment.OrderID == orderID {
			shipment.TrackingEvents = r.sortedEvents(shipment.ID)
			return &shipment, nil
		}
	}
	return nil, fmt.Errorf("shipment for order %s: %w", orderID, ErrNotFound)
}

// Update replaces the stored shipment.
func (r *MockShipmentRepository) Update(shipment *models.Shipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shipments[shipment.ID]; !ok {
		return fmt.Errorf("shipment with ID %s for update: %w", shipment.ID, ErrNotFound)
	}
	stored := *shipment
	stored.TrackingEvents = nil
	stored.UpdatedAt = time.Now()
	r.shipments[shipment.ID] = stored
	return nil
}

// AddTrackingEvent appends a tracking event.
func (r *MockShipmentRepository) AddTrackingEvent(event *models.ShipmentTrackingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shipments[event.ShipmentID]; !ok {
		return fmt.Errorf("shipment with ID %s: %w", event.ShipmentID, ErrNotFound)
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	event.CreatedAt = time.Now()
	r.events[event.ShipmentID] = append(r.events[event.ShipmentID], *event)
	return nil
}

// GetTrackingEvents returns all tracking events for a shipment, newest first.
func (r *MockShipmentRepository) GetTrackingEvents(shipmentID string) ([]models.ShipmentTrackingEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedEvents(shipmentID), nil
}

func (r *MockShipmentRepository) sortedEvents(shipmentID string) []models.ShipmentTrackingEvent {
	events := append([]models.ShipmentTrackingEvent(nil), r.events[shipmentID]...)
	sort.Slice(events, func(i, j int) bool {
		return events[i].EventDate.After(events[j].EventDate)
	})
	return events
}
