package services_test

import (
	"testing"

	"gerai/internal/models"
	"gerai/internal/repositories"
	"gerai/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestInventoryService_CheckAvailability_NoVariants(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewInventoryService(repo)

	product := &models.Product{ID: "prod-1", Name: "Mug", Price: 8.0, Quantity: 5}
	assert.NoError(t, repo.Create(product))

	assert.NoError(t, service.CheckAvailability("prod-1", 5))

	err := service.CheckAvailability("prod-1", 6)
	var stockErr *services.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 6, stockErr.Requested)
}

func TestInventoryService_CheckAvailability_SumsVariantStock(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewInventoryService(repo)

	// The product-level counter is ignored once variants exist.
	product := &models.Product{ID: "prod-1", Name: "Sneaker", Price: 80.0, Quantity: 0}
	assert.NoError(t, repo.Create(product))
	assert.NoError(t, repo.CreateVariant(&models.ProductVariant{ID: "var-1", ProductID: "prod-1", Size: "41", Stock: 3}))
	assert.NoError(t, repo.CreateVariant(&models.ProductVariant{ID: "var-2", ProductID: "prod-1", Size: "42", Stock: 4}))

	assert.NoError(t, service.CheckAvailability("prod-1", 7))

	err := service.CheckAvailability("prod-1", 8)
	var stockErr *services.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 7, stockErr.Available)
}

func TestInventoryService_Decrement_PicksVariantWithMostStock(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewInventoryService(repo)

	assert.NoError(t, repo.Create(&models.Product{ID: "prod-1", Name: "Sneaker", Price: 80.0}))
	assert.NoError(t, repo.CreateVariant(&models.ProductVariant{ID: "var-1", ProductID: "prod-1", Size: "41", Stock: 3}))
	assert.NoError(t, repo.CreateVariant(&models.ProductVariant{ID: "var-2", ProductID: "prod-1", Size: "42", Stock: 7}))

	err := service.DecrementForItems([]models.OrderItem{{ProductID: "prod-1", Quantity: 2}})
	assert.NoError(t, err)

	variants, err := repo.GetVariants("prod-1")
	assert.NoError(t, err)
	assert.Equal(t, 3, variants[0].Stock)
	assert.Equal(t, 5, variants[1].Stock)
}

func TestInventoryService_Decrement_TieFallsToFirstVariant(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewInventoryService(repo)

	assert.NoError(t, repo.Create(&models.Product{ID: "prod-1", Name: "Sneaker", Price: 80.0}))
	assert.NoError(t, repo.CreateVariant(&models.ProductVariant{ID: "var-1", ProductID: "prod-1", Size: "41", Stock: 5}))
	assert.NoError(t, repo.CreateVariant(&models.ProductVariant{ID: "var-2", ProductID: "prod-1", Size: "42", Stock: 5}))

	err := service.DecrementForItems([]models.OrderItem{{ProductID: "prod-1", Quantity: 2}})
	assert.NoError(t, err)

	variants, err := repo.GetVariants("prod-1")
	assert.NoError(t, err)
	assert.Equal(t, 3, variants[0].Stock)
	assert.Equal(t, 5, variants[1].Stock)
}

func TestInventoryService_Decrement_RestoresBatchOnFailure(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewInventoryService(repo)

	assert.NoError(t, repo.Create(&models.Product{ID: "prod-1", Name: "Mug", Price: 8.0, Quantity: 10}))
	assert.NoError(t, repo.Create(&models.Product{ID: "prod-2", Name: "Plate", Price: 12.0, Quantity: 1}))

	err := service.DecrementForItems([]models.OrderItem{
		{ProductID: "prod-1", Quantity: 2},
		{ProductID: "prod-2", Quantity: 5},
	})
	var stockErr *services.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "prod-2", stockErr.ProductID)

	// The decrement already applied to prod-1 must be restored.
	product, getErr := repo.GetByID("prod-1")
	assert.NoError(t, getErr)
	assert.Equal(t, 10, product.Quantity)
}

func TestInventoryService_Decrement_RechecksStockAtDecrementTime(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewInventoryService(repo)

	product := &models.Product{ID: "prod-1", Name: "Mug", Price: 8.0, Quantity: 5}
	assert.NoError(t, repo.Create(product))

	// Stock moves between the availability check and the decrement.
	assert.NoError(t, service.CheckAvailability("prod-1", 5))
	product.Quantity = 1
	assert.NoError(t, repo.Update(product))

	err := service.DecrementForItems([]models.OrderItem{{ProductID: "prod-1", Quantity: 5}})
	var stockErr *services.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 1, stockErr.Available)
}
