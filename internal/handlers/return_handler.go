package handlers

import (
	"log"

	"bazaar/internal/middleware"
	"bazaar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReturnHandler handles HTTP requests for return requests.
type ReturnHandler struct {
	service  *services.ReturnService
	validate *validator.Validate
}

// NewReturnHandler creates a new ReturnHandler.
func NewReturnHandler(service *services.ReturnService) *ReturnHandler {
	return &ReturnHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers buyer routes on router and the seller/admin
// status route behind sellerOnly.
func (h *ReturnHandler) RegisterRoutes(router fiber.Router, sellerOnly fiber.Handler) {
	returnRoutes := router.Group("/returns")
	returnRoutes.Post("/", h.HandleRequestReturn)
	returnRoutes.Get("/", h.HandleGetMyReturns)
	returnRoutes.Patch("/:id/status", sellerOnly, h.HandleUpdateReturnStatus)
}

// RequestReturnRequest is the buyer return request body.
type RequestReturnRequest struct {
	OrderID     string `json:"order_id" validate:"required"`
	OrderItemID string `json:"order_item_id" validate:"required"`
	Reason      string `json:"reason" validate:"required,min=10,max=500"`
}

// HandleRequestReturn opens a return request against a delivered order item.
func (h *ReturnHandler) HandleRequestReturn(c *fiber.Ctx) error {
	var req RequestReturnRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing return request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	request, err := h.service.RequestReturn(middleware.UserID(c), req.OrderID, req.OrderItemID, req.Reason)
	if err != nil {
		log.Printf("Error creating return request: %v", err)
		return fail(c, err, "Failed to create return request")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Return requested",
		"data":    fiber.Map{"return_request": request},
	})
}

// HandleGetMyReturns lists the buyer's return requests.
func (h *ReturnHandler) HandleGetMyReturns(c *fiber.Ctx) error {
	returns, err := h.service.GetBuyerReturns(middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting return requests: %v", err)
		return fail(c, err, "Could not retrieve return requests")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"returns": returns},
	})
}

// UpdateReturnStatusRequest is the seller/admin decision body.
type UpdateReturnStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected refunded"`
}

// HandleUpdateReturnStatus lets the owning seller or an admin decide a
// return request.
func (h *ReturnHandler) HandleUpdateReturnStatus(c *fiber.Ctx) error {
	requestID := c.Params("id")
	var req UpdateReturnStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing return status request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	request, err := h.service.UpdateReturnStatus(requestID, middleware.UserID(c), middleware.Role(c), req.Status)
	if err != nil {
		log.Printf("Error updating return request %s: %v", requestID, err)
		return fail(c, err, "Failed to update return request")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Return request updated",
		"data":    fiber.Map{"return_request": request},
	})
}
