package models

import "time"

// OrderStatus is the lifecycle status of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderReturned   OrderStatus = "returned"
)

// PaymentStatus is the payment state of an order or payment record.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// OrderItem represents a single item within an order.
type OrderItem struct {
	ID        string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string  `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID string  `json:"product_id" gorm:"type:varchar(36)"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"` // Price at the time of order
}

// Order represents a customer order. TotalAmount is always recomputed
// server-side from current product prices, never taken from the client.
type Order struct {
	ID                    string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID                string        `json:"user_id" gorm:"index;type:varchar(36)"`
	ShippingAddressID     string        `json:"shipping_address_id" gorm:"type:varchar(36)"`
	Items                 []OrderItem   `json:"items" gorm:"foreignKey:OrderID"`
	TotalAmount           float64       `json:"total_amount"`
	Status                OrderStatus   `json:"status" gorm:"type:varchar(20)"`
	PaymentMethod         string        `json:"payment_method" gorm:"type:varchar(50)"`
	PaymentStatus         PaymentStatus `json:"payment_status" gorm:"type:varchar(20)"`
	ShippingCarrier       string        `json:"shipping_carrier,omitempty" gorm:"type:varchar(100)"`
	TrackingNumber        string        `json:"tracking_number,omitempty" gorm:"type:varchar(100)"`
	EstimatedDeliveryDate *time.Time    `json:"estimated_delivery_date,omitempty"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

// Transaction records one payment attempt or refund against an order.
type Transaction struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID         string    `json:"order_id" gorm:"index;type:varchar(36)"`
	TransactionType string    `json:"transaction_type" gorm:"type:varchar(20)"` // payment, refund
	Amount          float64   `json:"amount"`
	PaymentMethod   string    `json:"payment_method" gorm:"type:varchar(50)"`
	Status          string    `json:"status" gorm:"type:varchar(20)"` // pending, success, failed
	Notes           string    `json:"notes,omitempty" gorm:"type:text"`
	TransactionDate time.Time `json:"transaction_date"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Transaction type and status values.
const (
	TransactionPayment = "payment"
	TransactionRefund  = "refund"

	TransactionStatusPending = "pending"
	TransactionStatusSuccess = "success"
	TransactionStatusFailed  = "failed"
)
