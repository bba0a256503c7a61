package services

import (
	"errors"
	"fmt"
	"time"

	"gerai/internal/models"
	"gerai/internal/repositories"
)

// ShipmentService owns shipment tracking: status changes always append a
// tracking event in the same operation, and shipment status changes drive
// the mapped order status one way (shipment event -> order status).
type ShipmentService struct {
	shipmentRepo repositories.ShipmentRepository
	orderRepo    repositories.OrderRepository
	notifier     Notifier
}

// NewShipmentService creates a new ShipmentService.
func NewShipmentService(shipmentRepo repositories.ShipmentRepository, orderRepo repositories.OrderRepository, notifier Notifier) *ShipmentService {
	return &ShipmentService{
		shipmentRepo: shipmentRepo,
		orderRepo:    orderRepo,
		notifier:     notifier,
	}
}

// GetByID retrieves a shipment by its ID.
func (s *ShipmentService) GetByID(id string) (*models.Shipment, error) {
	return s.shipmentRepo.GetByID(id)
}

// GetByOrder retrieves the shipment linked to an order.
func (s *ShipmentService) GetByOrder(orderID string) (*models.Shipment, error) {
	return s.shipmentRepo.GetByOrderID(orderID)
}

// GetTrackingEvents retrieves the tracking events of a shipment, newest first.
func (s *ShipmentService) GetTrackingEvents(shipmentID string) ([]models.ShipmentTrackingEvent, error) {
	return s.shipmentRepo.GetTrackingEvents(shipmentID)
}

// UpdateDetails persists carrier/tracking metadata without a status change.
func (s *ShipmentService) UpdateDetails(shipment *models.Shipment) error {
	return s.shipmentRepo.Update(shipment)
}

// UpdateShipmentStatus changes a shipment's status, appending a tracking
// event in the same operation, so the status is never changed silently. The
// new shipment status is then mapped onto the order:
//
//	picked_up, in_transit -> shipped
//	delivered             -> delivered
//	returned              -> returned
//	cancelled             -> cancelled
//
// The first transition to delivered also stamps the actual delivery date.
func (s *ShipmentService) UpdateShipmentStatus(shipment *models.Shipment, status models.ShipmentStatus, location, description string, actorID string) (*models.Shipment, error) {
	return s.applyStatusChange(shipment, status, location, description, time.Now(), actorID)
}

// AddTrackingEvent ingests a carrier tracking event for a shipment. The
// shipment takes on the event's status through the same mapping path as a
// manual status update, with the event's own date preserved.
func (s *ShipmentService) AddTrackingEvent(shipmentID string, status models.ShipmentStatus, eventDate time.Time, location, description string, actorID string) (*models.Shipment, error) {
	shipment, err := s.shipmentRepo.GetByID(shipmentID)
	if err != nil {
		return nil, err
	}
	if eventDate.IsZero() {
		eventDate = time.Now()
	}
	return s.applyStatusChange(shipment, status, location, description, eventDate, actorID)
}

func (s *ShipmentService) applyStatusChange(shipment *models.Shipment, status models.ShipmentStatus, location, description string, eventDate time.Time, actorID string) (*models.Shipment, error) {
	oldStatus := shipment.Status
	shipment.Status = status

	if status == models.ShipmentDelivered && shipment.ActualDeliveryDate == nil {
		delivered := eventDate
		shipment.ActualDeliveryDate = &delivered
	}

	if description == "" {
		description = fmt.Sprintf("Status updated from %s to %s", oldStatus, status)
	}

	if err := s.shipmentRepo.Update(shipment); err != nil {
		return nil, err
	}
	event := &models.ShipmentTrackingEvent{
		ShipmentID:  shipment.ID,
		EventDate:   eventDate,
		Location:    location,
		Status:      status,
		Description: description,
	}
	if err := s.shipmentRepo.AddTrackingEvent(event); err != nil {
		return nil, err
	}

	if err := s.syncOrderStatus(shipment, status, actorID); err != nil {
		return nil, err
	}

	return shipment, nil
}

// syncOrderStatus applies the shipment -> order status mapping and notifies
// the order's owner. Statuses outside the mapping leave the order untouched.
func (s *ShipmentService) syncOrderStatus(shipment *models.Shipment, status models.ShipmentStatus, actorID string) error {
	if shipment.OrderID == "" {
		return nil
	}
	order, err := s.orderRepo.GetByID(shipment.OrderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}

	var mapped models.OrderStatus
	switch status {
	case models.ShipmentPickedUp, models.ShipmentInTransit:
		mapped = models.OrderShipped
	case models.ShipmentDelivered:
		mapped = models.OrderDelivered
	case models.ShipmentReturned:
		mapped = models.OrderReturned
	case models.ShipmentCancelled:
		mapped = models.OrderCancelled
	}

	if mapped != "" && mapped != order.Status {
		order.Status = mapped
		if err := s.orderRepo.Update(order); err != nil {
			return err
		}
	}

	s.notifier.Notify(order.UserID, "shipment_update",
		fmt.Sprintf("Your shipment for order #%s has been updated to %s.", order.ID, status),
		order.ID)

	return nil
}

// CreateFromOrder creates the shipment for an order, deriving the initial
// shipment status from the order's status. An existing shipment is returned
// as is.
func (s *ShipmentService) CreateFromOrder(order *models.Order, carrier, trackingNumber string, estimatedDeliveryDate *time.Time) (*models.Shipment, error) {
	existing, err := s.shipmentRepo.GetByOrderID(order.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	status := models.ShipmentPending
	switch order.Status {
	case models.OrderProcessing:
		status = models.ShipmentProcessing
	case models.OrderShipped:
		status = models.ShipmentInTransit
	case models.OrderDelivered:
		status = models.ShipmentDelivered
	case models.OrderCancelled:
		status = models.ShipmentCancelled
	case models.OrderReturned:
		status = models.ShipmentReturned
	}

	if carrier == "" {
		carrier = order.ShippingCarrier
	}
	if trackingNumber == "" {
		trackingNumber = order.TrackingNumber
	}
	if estimatedDeliveryDate == nil {
		if order.EstimatedDeliveryDate != nil {
			estimatedDeliveryDate = order.EstimatedDeliveryDate
		} else {
			// Default to a week out when nothing better is known.
			eta := time.Now().Add(7 * 24 * time.Hour)
			estimatedDeliveryDate = &eta
		}
	}

	shipment := &models.Shipment{
		OrderID:               order.ID,
		Status:                status,
		Carrier:               carrier,
		TrackingNumber:        trackingNumber,
		EstimatedDeliveryDate: estimatedDeliveryDate,
		TrackingEvents: []models.ShipmentTrackingEvent{
			{
				EventDate:   time.Now(),
				Status:      status,
				Description: fmt.Sprintf("Shipment created with status: %s", status),
			},
		},
	}
	if err := s.shipmentRepo.Create(shipment); err != nil {
		return nil, err
	}
	return shipment, nil
}

// TrackOrder returns the shipment for an order, lazily creating a pending
// shipment when the order has none yet.
func (s *ShipmentService) TrackOrder(order *models.Order) (*models.Shipment, error) {
	shipment, err := s.shipmentRepo.GetByOrderID(order.ID)
	if err == nil {
		return shipment, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	return s.CreateFromOrder(order, "", "", nil)
}
