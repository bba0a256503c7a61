package repositories

import (
	"gerai/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error) // items included
	GetByUser(userID string) ([]models.Order, error)
	// Create persists the order header and its items as one atomic unit.
	Create(order *models.Order) error
	// Update persists status, payment status and shipping fields.
	Update(order *models.Order) error
}
