package repositories

import (
	"fmt"
	"sort"
	"sync"

	"gerai/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	variants map[string]models.ProductVariant
	seq      int
	order    map[string]int // variant id -> insertion order, for stable iteration
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
		variants: make(map[string]models.ProductVariant),
		order:    make(map[string]int),
	}
}

// GetAll returns all products.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	for i := range product.Variants {
		v := product.Variants[i]
		if v.ID == "" {
			v.ID = uuid.New().String()
			product.Variants[i].ID = v.ID
		}
		v.ProductID = product.ID
		r.variants[v.ID] = v
		r.order[v.ID] = r.seq
		r.seq++
	}
	stored := *product
	stored.Variants = nil
	r.products[product.ID] = stored
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s for update: %w", product.ID, ErrNotFound)
	}
	stored := *product
	stored.Variants = nil
	r.products[product.ID] = stored
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s for deletion: %w", id, ErrNotFound)
	}
	delete(r.products, id)
	return nil
}

// GetVariants returns the variants of a product in insertion order.
func (r *MockProductRepository) GetVariants(productID string) ([]models.ProductVariant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var variantList []models.ProductVariant
	for _, v := range r.variants {
		if v.ProductID == productID {
			variantList = append(variantList, v)
		}
	}
	sort.Slice(variantList, func(i, j int) bool {
		return r.order[variantList[i].ID] < r.order[variantList[j].ID]
	})
	return variantList, nil
}

// CreateVariant adds a new variant.
func (r *MockProductRepository) CreateVariant(variant *models.ProductVariant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if variant.ID == "" {
		variant.ID = uuid.New().String()
	}
	r.variants[variant.ID] = *variant
	r.order[variant.ID] = r.seq
	r.seq++
	return nil
}

// UpdateVariant modifies an existing variant.
func (r *MockProductRepository) UpdateVariant(variant *models.ProductVariant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.variants[variant.ID]
	if !ok {
		return fmt.Errorf("variant with ID %s for update: %w", variant.ID, ErrNotFound)
	}
	r.variants[variant.ID] = *variant
	return nil
}
