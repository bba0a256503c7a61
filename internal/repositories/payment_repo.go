package repositories

import (
	"gerai/internal/models"
)

// PaymentRepository defines the interface for payment record data access.
// The idempotency key carries a uniqueness constraint at the data-store
// level: Create returns ErrDuplicateKey when a record for the key already
// exists, and the caller is expected to re-read and follow the
// "already exists" branch instead of inserting again.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByIdempotencyKey(key string) (*models.Payment, error)
	Update(payment *models.Payment) error
}

// CardRepository defines the interface for saved card data access.
type CardRepository interface {
	Create(card *models.Card) error
	GetByID(id string) (*models.Card, error)
	GetByUser(userID string) ([]models.Card, error)
}
