package models

import "time"

// ShipmentStatus is the shipment lifecycle, a superset of the order lifecycle.
type ShipmentStatus string

const (
	ShipmentPending        ShipmentStatus = "pending"
	ShipmentProcessing     ShipmentStatus = "processing"
	ShipmentPickedUp       ShipmentStatus = "picked_up"
	ShipmentInTransit      ShipmentStatus = "in_transit"
	ShipmentOutForDelivery ShipmentStatus = "out_for_delivery"
	ShipmentDelivered      ShipmentStatus = "delivered"
	ShipmentFailedDelivery ShipmentStatus = "failed_delivery"
	ShipmentReturned       ShipmentStatus = "returned"
	ShipmentCancelled      ShipmentStatus = "cancelled"
)

// Shipment carries tracking information for exactly one order. Its status is
// never changed without appending a tracking event in the same operation.
type Shipment struct {
	ID                    string                  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID               string                  `json:"order_id" gorm:"uniqueIndex;type:varchar(36)"`
	Status                ShipmentStatus          `json:"status" gorm:"type:varchar(30)"`
	Carrier               string                  `json:"carrier,omitempty" gorm:"type:varchar(100)"`
	TrackingNumber        string                  `json:"tracking_number,omitempty" gorm:"type:varchar(100)"`
	EstimatedDeliveryDate *time.Time              `json:"estimated_delivery_date,omitempty"`
	ActualDeliveryDate    *time.Time              `json:"actual_delivery_date,omitempty"`
	ShippingCost          float64                 `json:"shipping_cost,omitempty"`
	TrackingEvents        []ShipmentTrackingEvent `json:"tracking_events,omitempty" gorm:"foreignKey:ShipmentID"`
	CreatedAt             time.Time               `json:"created_at"`
	UpdatedAt             time.Time               `json:"updated_at"`
}

// ShipmentTrackingEvent is an immutable record of one shipment status change.
type ShipmentTrackingEvent struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ShipmentID  string         `json:"shipment_id" gorm:"index;type:varchar(36)"`
	EventDate   time.Time      `json:"event_date"`
	Location    string         `json:"location,omitempty" gorm:"type:varchar(255)"`
	Status      ShipmentStatus `json:"status" gorm:"type:varchar(30)"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
}
