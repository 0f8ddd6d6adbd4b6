package handlers

import (
	"log"

	"bazaar/internal/middleware"
	"bazaar/internal/models"
	"bazaar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AddressHandler handles HTTP requests for the user's shipping addresses.
type AddressHandler struct {
	service  *services.AddressService
	validate *validator.Validate
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(service *services.AddressService) *AddressHandler {
	return &AddressHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the address routes.
func (h *AddressHandler) RegisterRoutes(router fiber.Router) {
	addrRoutes := router.Group("/addresses")
	addrRoutes.Get("/", h.HandleGetAddresses)
	addrRoutes.Post("/", h.HandleCreateAddress)
	addrRoutes.Get("/:id", h.HandleGetAddress)
	addrRoutes.Put("/:id", h.HandleUpdateAddress)
	addrRoutes.Delete("/:id", h.HandleDeleteAddress)
}

// AddressRequest is the create/update body for an address.
type AddressRequest struct {
	Type         string `json:"type" validate:"omitempty,oneof=home work other"`
	FirstName    string `json:"first_name" validate:"required,max=50"`
	LastName     string `json:"last_name" validate:"required,max=50"`
	Phone        string `json:"phone" validate:"required,max=15"`
	AddressLine1 string `json:"address_line_1" validate:"required,max=200"`
	AddressLine2 string `json:"address_line_2" validate:"omitempty,max=200"`
	City         string `json:"city" validate:"required,max=100"`
	State        string `json:"state" validate:"required,max=100"`
	PostalCode   string `json:"postal_code" validate:"required,max=20"`
	Country      string `json:"country" validate:"omitempty,max=100"`
	IsDefault    bool   `json:"is_default"`
}

func (h *AddressHandler) parseAddress(c *fiber.Ctx) (*models.Address, error) {
	var req AddressRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, err
	}
	if err := h.validate.Struct(req); err != nil {
		return nil, err
	}
	return &models.Address{
		Type:         req.Type,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		IsDefault:    req.IsDefault,
	}, nil
}

// HandleGetAddresses lists the user's addresses.
func (h *AddressHandler) HandleGetAddresses(c *fiber.Ctx) error {
	addresses, err := h.service.GetAddresses(middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting addresses: %v", err)
		return fail(c, err, "Could not retrieve addresses")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"addresses": addresses},
	})
}

// HandleGetAddress returns one of the user's addresses.
func (h *AddressHandler) HandleGetAddress(c *fiber.Ctx) error {
	addressID := c.Params("id")
	address, err := h.service.GetAddress(addressID, middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting address %s: %v", addressID, err)
		return fail(c, err, "Could not retrieve address")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"address": address},
	})
}

// HandleCreateAddress creates a new address for the user.
func (h *AddressHandler) HandleCreateAddress(c *fiber.Ctx) error {
	address, err := h.parseAddress(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.CreateAddress(middleware.UserID(c), address); err != nil {
		log.Printf("Error creating address: %v", err)
		return fail(c, err, "Failed to create address")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Address created successfully",
		"data":    fiber.Map{"address": address},
	})
}

// HandleUpdateAddress updates one of the user's addresses.
func (h *AddressHandler) HandleUpdateAddress(c *fiber.Ctx) error {
	address, err := h.parseAddress(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	address.ID = c.Params("id")

	if err := h.service.UpdateAddress(middleware.UserID(c), address); err != nil {
		log.Printf("Error updating address %s: %v", address.ID, err)
		return fail(c, err, "Failed to update address")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Address updated successfully",
		"data":    fiber.Map{"address": address},
	})
}

// HandleDeleteAddress deletes one of the user's addresses.
func (h *AddressHandler) HandleDeleteAddress(c *fiber.Ctx) error {
	addressID := c.Params("id")
	if err := h.service.DeleteAddress(addressID, middleware.UserID(c)); err != nil {
		log.Printf("Error deleting address %s: %v", addressID, err)
		return fail(c, err, "Failed to delete address")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Address deleted successfully",
	})
}
