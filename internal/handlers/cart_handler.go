package handlers

import (
	"log"

	"bazaar/internal/middleware"
	"bazaar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the authenticated user's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:id", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// HandleGetCart returns the user's cart, creating an empty one if needed.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting cart: %v", err)
		return fail(c, err, "Could not retrieve cart")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"cart": cart},
	})
}

// AddCartItemRequest is the add-to-cart body.
type AddCartItemRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	VariantID *string `json:"variant_id,omitempty"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
}

// HandleAddItem adds a product (or variant) line to the cart, merging with
// an existing line for the same product/variant pair.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add cart item request body: %v", err)
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

	cart, err := h.service.AddItem(middleware.UserID(c), req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		log.Printf("Error adding item to cart: %v", err)
		return fail(c, err, "Failed to add item to cart")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Item added to cart",
		"data":    fiber.Map{"cart": cart},
	})
}

// UpdateCartItemRequest is the quantity update body. A quantity of zero
// removes the line.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// HandleUpdateItem updates the quantity of a cart line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	itemID := c.Params("id")
	var req UpdateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update cart item request body: %v", err)
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

	cart, err := h.service.UpdateItemQuantity(middleware.UserID(c), itemID, req.Quantity)
	if err != nil {
		log.Printf("Error updating cart item %s: %v", itemID, err)
		return fail(c, err, "Failed to update cart item")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cart updated",
		"data":    fiber.Map{"cart": cart},
	})
}

// HandleRemoveItem removes a line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	itemID := c.Params("id")
	cart, err := h.service.RemoveItem(middleware.UserID(c), itemID)
	if err != nil {
		log.Printf("Error removing cart item %s: %v", itemID, err)
		return fail(c, err, "Failed to remove cart item")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Item removed from cart",
		"data":    fiber.Map{"cart": cart},
	})
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.ClearCart(middleware.UserID(c)); err != nil {
		log.Printf("Error clearing cart: %v", err)
		return fail(c, err, "Failed to clear cart")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cart cleared",
	})
}
