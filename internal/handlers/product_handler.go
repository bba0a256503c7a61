package handlers

import (
	"log"

	"gerai/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
	productRoutes.Get("/:id/variants", h.HandleGetVariants)
	productRoutes.Post("/:id/variants", h.HandleAddVariant)
	productRoutes.Patch("/:id/variants/:variantId", h.HandleUpdateVariantStock)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting products: %v", err)
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product with its variants.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting product %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(product)
}

// ProductRequest represents the request body for creating or updating a
// product.
type ProductRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"min=0"`
	Quantity    int     `json:"quantity" validate:"min=0"`
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	product, err := h.service.CreateProduct(req.Name, req.Description, req.Price, req.Quantity)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.service.UpdateProduct(c.Params("id"), req.Name, req.Description, req.Price, req.Quantity)
	if err != nil {
		log.Printf("Error updating product %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}

	return c.JSON(product)
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.Params("id")); err != nil {
		log.Printf("Error deleting product %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

// HandleGetVariants lists a product's variants.
func (h *ProductHandler) HandleGetVariants(c *fiber.Ctx) error {
	variants, err := h.service.GetVariants(c.Params("id"))
	if err != nil {
		log.Printf("Error getting variants for product %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(variants)
}

// VariantRequest represents the request body for adding a variant.
type VariantRequest struct {
	Size  string `json:"size" validate:"required,max=50"`
	Stock int    `json:"stock" validate:"min=0"`
}

// HandleAddVariant adds a sized variant to a product.
func (h *ProductHandler) HandleAddVariant(c *fiber.Ctx) error {
	var req VariantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	variant, err := h.service.AddVariant(c.Params("id"), req.Size, req.Stock)
	if err != nil {
		log.Printf("Error adding variant to product %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(variant)
}

// VariantStockRequest represents the request body for setting variant stock.
type VariantStockRequest struct {
	Stock int `json:"stock" validate:"min=0"`
}

// HandleUpdateVariantStock sets the stock level of a variant.
func (h *ProductHandler) HandleUpdateVariantStock(c *fiber.Ctx) error {
	var req VariantStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	variant, err := h.service.UpdateVariantStock(c.Params("id"), c.Params("variantId"), req.Stock)
	if err != nil {
		log.Printf("Error updating variant %s stock: %v", c.Params("variantId"), err)
		return respondError(c, err)
	}

	return c.JSON(variant)
}
