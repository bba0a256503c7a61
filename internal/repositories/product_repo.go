package repositories

import (
	"gerai/internal/models"
)

// ProductRepository defines the interface for product and variant data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error

	// GetVariants returns the variants of a product in a stable order.
	// An empty slice means the product tracks stock on its own counter.
	GetVariants(productID string) ([]models.ProductVariant, error)
	CreateVariant(variant *models.ProductVariant) error
	UpdateVariant(variant *models.ProductVariant) error
}
