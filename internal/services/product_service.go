package services

import (
	"fmt"

	"gerai/internal/models"
	"gerai/internal/repositories"
)

// ProductService contains the business logic for catalog management.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

// GetProductByID retrieves a product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(name, description string, price float64, quantity int) (*models.Product, error) {
	if name == "" {
		return nil, &ValidationError{Message: "product name is required"}
	}
	if price < 0 {
		return nil, &ValidationError{Message: "product price cannot be negative"}
	}
	if quantity < 0 {
		return nil, &ValidationError{Message: "product quantity cannot be negative"}
	}

	product := &models.Product{
		Name:        name,
		Description: description,
		Price:       price,
		Quantity:    quantity,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(id, name, description string, price float64, quantity int) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if name != "" {
		product.Name = name
	}
	if description != "" {
		product.Description = description
	}
	if price >= 0 {
		product.Price = price
	}
	if quantity >= 0 {
		product.Quantity = quantity
	}

	if err := s.repo.Update(product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// AddVariant adds a sized variant to a product. Variant stock is tracked
// separately from the product-level quantity; availability checks prefer
// the variant sum when variants exist.
func (s *ProductService) AddVariant(productID, size string, stock int) (*models.ProductVariant, error) {
	if size == "" {
		return nil, &ValidationError{Message: "variant size is required"}
	}
	if stock < 0 {
		return nil, &ValidationError{Message: "variant stock cannot be negative"}
	}
	if _, err := s.repo.GetByID(productID); err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	variant := &models.ProductVariant{
		ProductID: productID,
		Size:      size,
		Stock:     stock,
	}
	if err := s.repo.CreateVariant(variant); err != nil {
		return nil, fmt.Errorf("failed to create variant: %w", err)
	}
	return variant, nil
}

// GetVariants retrieves the variants of a product.
func (s *ProductService) GetVariants(productID string) ([]models.ProductVariant, error) {
	variants, err := s.repo.GetVariants(productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get variants: %w", err)
	}
	return variants, nil
}

// UpdateVariantStock sets the stock level of a single variant.
func (s *ProductService) UpdateVariantStock(productID, variantID string, stock int) (*models.ProductVariant, error) {
	if stock < 0 {
		return nil, &ValidationError{Message: "variant stock cannot be negative"}
	}
	variants, err := s.repo.GetVariants(productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get variants: %w", err)
	}
	for i := range variants {
		if variants[i].ID == variantID {
			variants[i].Stock = stock
			if err := s.repo.UpdateVariant(&variants[i]); err != nil {
				return nil, fmt.Errorf("failed to update variant: %w", err)
			}
			return &variants[i], nil
		}
	}
	return nil, fmt.Errorf("variant %s not found for product %s: %w", variantID, productID, repositories.ErrNotFound)
}
