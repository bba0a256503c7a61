package handlers

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"gerai/internal/models"
	"gerai/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
	orderRoutes.Patch("/:id/shipping", h.HandleUpdateShippingDetails)
	orderRoutes.Get("/:id/track", h.HandleTrackOrder)
	orderRoutes.Get("/:id/transactions", h.HandleGetOrderTransactions)
	orderRoutes.Post("/:id/transactions", h.HandleRecordTransaction)

	router.Get("/transactions", h.HandleGetUserTransactions)
}

// loadOwnedOrder fetches an order and verifies it belongs to the
// authenticated user.
func (h *OrderHandler) loadOwnedOrder(c *fiber.Ctx) (*models.Order, error) {
	order, err := h.service.GetOrderByID(c.Params("id"))
	if err != nil {
		return nil, err
	}
	if order.UserID != currentUserID(c) {
		return nil, fmt.Errorf("order %s does not belong to user: %w", order.ID, services.ErrForbidden)
	}
	return order, nil
}

// HandleGetOrders retrieves the authenticated user's orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetUserOrders(currentUserID(c))
	if err != nil {
		log.Printf("Error getting orders: %v", err)
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.loadOwnedOrder(c)
	if err != nil {
		log.Printf("Error getting order %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(order)
}

// CreateOrderRequest represents the request body for creating an order.
type CreateOrderRequest struct {
	ShippingAddressID string                      `json:"shipping_address_id" validate:"required"`
	Items             []services.OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// HandleCreateOrder creates a new order for the authenticated user. Stock
// is only checked here; it is decremented when the payment completes.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing request body: %v", err)
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

	order, err := h.service.CreateOrder(currentUserID(c), req.ShippingAddressID, req.Items)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// UpdateOrderStatusRequest represents the request body for a status update.
// Either field may be set; payment status changes drive the stock workflow.
type UpdateOrderStatusRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// HandleUpdateOrderStatus updates the order status and/or payment status of
// an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing request body for status update: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}

	if req.Status == "" && req.PaymentStatus == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Either status or payment_status is required.",
		})
	}

	order, err := h.loadOwnedOrder(c)
	if err != nil {
		return respondError(c, err)
	}

	actorID := currentUserID(c)

	if req.PaymentStatus != "" {
		order, err = h.service.UpdatePaymentStatus(order, models.PaymentStatus(req.PaymentStatus), actorID)
		if err != nil {
			log.Printf("Error updating payment status for order %s: %v", order.ID, err)
			return respondError(c, err)
		}
	}

	if req.Status != "" {
		order, err = h.service.UpdateOrderStatus(order, models.OrderStatus(req.Status), actorID)
		if err != nil {
			log.Printf("Error updating order status for order %s: %v", order.ID, err)
			return respondError(c, err)
		}
	}

	return c.JSON(order)
}

// HandleCancelOrder cancels an order that has not shipped yet.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	order, err := h.loadOwnedOrder(c)
	if err != nil {
		return respondError(c, err)
	}

	order, err = h.service.CancelOrder(order, currentUserID(c))
	if err != nil {
		log.Printf("Error cancelling order %s: %v", order.ID, err)
		return respondError(c, err)
	}

	return c.JSON(order)
}

// UpdateShippingRequest represents the request body for shipping details.
type UpdateShippingRequest struct {
	TrackingNumber        string     `json:"tracking_number"`
	ShippingCarrier       string     `json:"shipping_carrier"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date"`
}

// HandleUpdateShippingDetails records carrier and tracking details on an
// order and moves a processing order into shipped.
func (h *OrderHandler) HandleUpdateShippingDetails(c *fiber.Ctx) error {
	var req UpdateShippingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, err := h.loadOwnedOrder(c)
	if err != nil {
		return respondError(c, err)
	}

	order, err = h.service.UpdateShippingDetails(order, req.TrackingNumber, req.ShippingCarrier, req.EstimatedDeliveryDate, currentUserID(c))
	if err != nil {
		log.Printf("Error updating shipping details for order %s: %v", order.ID, err)
		return respondError(c, err)
	}

	return c.JSON(order)
}

// HandleTrackOrder returns the shipment and tracking history for an order,
// creating the shipment lazily for legacy orders that predate shipments.
func (h *OrderHandler) HandleTrackOrder(c *fiber.Ctx) error {
	order, err := h.loadOwnedOrder(c)
	if err != nil {
		return respondError(c, err)
	}

	shipment, err := h.service.TrackOrder(order)
	if err != nil {
		log.Printf("Error tracking order %s: %v", order.ID, err)
		return respondError(c, err)
	}

	return c.JSON(shipment)
}

// RecordTransactionRequest represents the request body for recording a
// financial transaction against an order.
type RecordTransactionRequest struct {
	TransactionType string  `json:"transaction_type" validate:"required"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod   string  `json:"payment_method" validate:"required"`
	Status          string  `json:"status" validate:"required"`
	Notes           string  `json:"notes"`
}

// HandleRecordTransaction records a transaction for an order. A successful
// payment transaction also completes the order's payment workflow.
func (h *OrderHandler) HandleRecordTransaction(c *fiber.Ctx) error {
	var req RecordTransactionRequest
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

	order, err := h.loadOwnedOrder(c)
	if err != nil {
		return respondError(c, err)
	}

	transaction := &models.Transaction{
		OrderID:         order.ID,
		TransactionType: req.TransactionType,
		Amount:          req.Amount,
		PaymentMethod:   req.PaymentMethod,
		Status:          req.Status,
		Notes:           req.Notes,
		TransactionDate: time.Now(),
	}

	transaction, err = h.service.RecordTransaction(transaction, currentUserID(c))
	if err != nil {
		log.Printf("Error recording transaction for order %s: %v", order.ID, err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(transaction)
}

// HandleGetOrderTransactions lists the transactions recorded for an order.
func (h *OrderHandler) HandleGetOrderTransactions(c *fiber.Ctx) error {
	order, err := h.loadOwnedOrder(c)
	if err != nil {
		return respondError(c, err)
	}

	transactions, err := h.service.GetOrderTransactions(order.ID)
	if err != nil {
		log.Printf("Error getting transactions for order %s: %v", order.ID, err)
		return respondError(c, err)
	}

	return c.JSON(transactions)
}

// HandleGetUserTransactions lists the authenticated user's transaction
// history across all their orders.
func (h *OrderHandler) HandleGetUserTransactions(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	transactions, err := h.service.GetUserTransactions(currentUserID(c), limit, offset)
	if err != nil {
		log.Printf("Error getting user transactions: %v", err)
		return respondError(c, err)
	}

	return c.JSON(transactions)
}
