package handlers

import (
	"log"

	"gerai/internal/models"
	"gerai/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AddressHandler handles HTTP requests for shipping addresses.
type AddressHandler struct {
	service *services.AddressService
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(service *services.AddressService) *AddressHandler {
	return &AddressHandler{service: service}
}

// RegisterRoutes registers the address routes with the Fiber app.
func (h *AddressHandler) RegisterRoutes(router fiber.Router) {
	addressRoutes := router.Group("/addresses")
	addressRoutes.Get("/", h.HandleGetAddresses)
	addressRoutes.Post("/", h.HandleCreateAddress)
	addressRoutes.Get("/:id", h.HandleGetAddressByID)
}

// HandleGetAddresses lists the authenticated user's addresses.
func (h *AddressHandler) HandleGetAddresses(c *fiber.Ctx) error {
	addresses, err := h.service.GetUserAddresses(currentUserID(c))
	if err != nil {
		log.Printf("Error getting addresses: %v", err)
		return respondError(c, err)
	}
	return c.JSON(addresses)
}

// HandleCreateAddress stores a new shipping address.
func (h *AddressHandler) HandleCreateAddress(c *fiber.Ctx) error {
	var address models.Address
	if err := c.BodyParser(&address); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	created, err := h.service.CreateAddress(currentUserID(c), &address)
	if err != nil {
		log.Printf("Error creating address: %v", err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleGetAddressByID retrieves one of the user's addresses.
func (h *AddressHandler) HandleGetAddressByID(c *fiber.Ctx) error {
	address, err := h.service.GetAddress(currentUserID(c), c.Params("id"))
	if err != nil {
		log.Printf("Error getting address %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(address)
}
