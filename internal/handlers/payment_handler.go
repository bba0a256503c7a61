package handlers

import (
	"log"

	"gerai/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles HTTP requests for card payments and saved cards.
type PaymentHandler struct {
	service  *services.PaymentService
	validate *validator.Validate
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	paymentRoutes := router.Group("/payments")
	paymentRoutes.Post("/card", h.HandleCardPayment)

	cardRoutes := router.Group("/cards")
	cardRoutes.Post("/", h.HandleSaveCard)
	cardRoutes.Get("/", h.HandleGetCards)
}

// HandleCardPayment submits a card payment. Retried submissions with the
// same idempotency key never charge twice; the outcome reports which of the
// completed, pending, failed, or order_failed cases applies.
func (h *PaymentHandler) HandleCardPayment(c *fiber.Ctx) error {
	var req services.SubmitCardPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing card payment request body: %v", err)
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

	outcome, err := h.service.SubmitCardPayment(currentUserID(c), req)
	if err != nil {
		log.Printf("Error processing card payment: %v", err)
		return respondError(c, err)
	}

	status := fiber.StatusOK
	switch outcome.Kind {
	case services.OutcomeCompleted:
		status = fiber.StatusCreated
	case services.OutcomePending:
		status = fiber.StatusConflict
	case services.OutcomeFailed:
		status = fiber.StatusPaymentRequired
	}
	return c.Status(status).JSON(outcome)
}

// HandleSaveCard stores a card for the authenticated user. Responses carry
// only the masked number and brand, never the full number.
func (h *PaymentHandler) HandleSaveCard(c *fiber.Ctx) error {
	var req services.SaveCardRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing save card request body: %v", err)
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

	card, err := h.service.SaveCard(currentUserID(c), req)
	if err != nil {
		log.Printf("Error saving card: %v", err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(card)
}

// HandleGetCards lists the authenticated user's saved cards.
func (h *PaymentHandler) HandleGetCards(c *fiber.Ctx) error {
	cards, err := h.service.GetUserCards(currentUserID(c))
	if err != nil {
		log.Printf("Error getting cards: %v", err)
		return respondError(c, err)
	}
	return c.JSON(cards)
}
