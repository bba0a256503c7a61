package models

import "gorm.io/gorm"

// Product represents a product in the store. Quantity is the stock counter
// for products without variants; when variants exist, available stock is the
// sum of the variant stocks and Quantity is ignored.
type Product struct {
	ID          string           `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string           `json:"name" validate:"required,min=3,max=100"`
	Description string           `json:"description" validate:"omitempty,max=500"`
	Price       float64          `json:"price" validate:"required,gt=0"`
	Quantity    int              `json:"quantity" validate:"gte=0"`
	Variants    []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID"`
	gorm.Model                   // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// ProductVariant is a size/attribute variant of a product with its own
// stock counter.
type ProductVariant struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ProductID string `json:"product_id" gorm:"index;type:varchar(36)" validate:"required"`
	Size      string `json:"size" validate:"required,max=50"`
	Stock     int    `json:"stock" validate:"gte=0"`
	gorm.Model
}
