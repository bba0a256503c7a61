package models

import "time"

// Payment is one payment attempt keyed by a client-supplied idempotency key.
// Exactly one row exists per key; the unique index is what a retried or
// concurrent submission with the same key runs into. OrderID stays empty
// until the associated order has been created, and is set exactly once.
type Payment struct {
	ID             string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string        `json:"user_id" gorm:"index;type:varchar(36)"`
	CardID         string        `json:"card_id" gorm:"type:varchar(36)"`
	Amount         float64       `json:"amount"`
	Status         PaymentStatus `json:"status" gorm:"type:varchar(20)"`
	IdempotencyKey string        `json:"idempotency_key" gorm:"uniqueIndex;type:varchar(255)"`
	OrderID        string        `json:"order_id,omitempty" gorm:"type:varchar(36)"`
	GatewayRef     string        `json:"gateway_ref,omitempty" gorm:"type:varchar(100)"`
	FailureReason  string        `json:"failure_reason,omitempty" gorm:"type:text"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Card is a saved payment instrument. The full card number is never
// serialized; clients only ever see the masked form.
type Card struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string    `json:"user_id" gorm:"index;type:varchar(36)"`
	CardHolderName string    `json:"card_holder_name" gorm:"type:varchar(100)"`
	CardNumber     string    `json:"-" gorm:"type:varchar(50)"`
	MaskedNumber   string    `json:"masked_number" gorm:"type:varchar(50)"`
	Brand          string    `json:"brand" gorm:"type:varchar(30)"`
	ExpiryMonth    int       `json:"expiry_month"`
	ExpiryYear     int       `json:"expiry_year"`
	IsDefault      bool      `json:"is_default"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
