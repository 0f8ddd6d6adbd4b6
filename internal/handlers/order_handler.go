package handlers

import (
	"fmt"
	"log"
	"time"

	"bazaar/internal/middleware"
	"bazaar/internal/services"
	"bazaar/pkg/cache"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const orderCacheTTL = 5 * time.Minute

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	cache    *cache.Cache
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler. responseCache may be nil.
func NewOrderHandler(service *services.OrderService, responseCache *cache.Cache) *OrderHandler {
	return &OrderHandler{
		service:  service,
		cache:    responseCache,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes. buyer routes require any
// authenticated user; the status route additionally requires seller/admin.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, sellerOnly fiber.Handler) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/", h.HandleGetMyOrders)
	orderRoutes.Get("/seller", sellerOnly, h.HandleGetSellerOrders)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
	orderRoutes.Patch("/:id/status", sellerOnly, h.HandleUpdateOrderStatus)
}

// CreateOrderRequest is the checkout request body.
type CreateOrderRequest struct {
	Items             []services.OrderLineInput `json:"items" validate:"required,min=1,dive"`
	ShippingAddressID string                    `json:"shipping_address_id" validate:"required"`
	PaymentMethod     string                    `json:"payment_method" validate:"required,oneof=card upi wallet cod"`
	Notes             string                    `json:"notes" validate:"omitempty,max=500"`
}

// HandleCreateOrder runs the checkout transaction for the authenticated
// buyer and returns the created order snapshot.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create order request body: %v", err)
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

	order, err := h.service.CreateOrder(services.CreateOrderInput{
		BuyerID:           middleware.UserID(c),
		Items:             req.Items,
		ShippingAddressID: req.ShippingAddressID,
		PaymentMethod:     req.PaymentMethod,
		Notes:             req.Notes,
	})
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return fail(c, err, "Failed to create order")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Order created successfully",
		"data":    fiber.Map{"order": order},
	})
}

// HandleGetMyOrders returns the authenticated buyer's orders, serving from
// the response cache when possible.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	buyerID := middleware.UserID(c)
	status := c.Query("status")
	page, limit, offset := pagination(c)

	cacheKey := fmt.Sprintf("%s:%s:%d:%d", cache.UserOrdersKey(buyerID), status, page, limit)
	var cached fiber.Map
	if h.cache.Get(c.Context(), cacheKey, &cached) {
		return c.JSON(cached)
	}

	orders, total, err := h.service.GetBuyerOrders(buyerID, status, limit, offset)
	if err != nil {
		log.Printf("Error getting orders for buyer %s: %v", buyerID, err)
		return fail(c, err, "Could not retrieve orders")
	}

	payload := fiber.Map{
		"success": true,
		"data": fiber.Map{
			"orders":     orders,
			"pagination": paginationMeta(page, limit, total),
		},
	}
	h.cache.Set(c.Context(), cacheKey, payload, orderCacheTTL)
	return c.JSON(payload)
}

// HandleGetSellerOrders returns orders containing the seller's products.
func (h *OrderHandler) HandleGetSellerOrders(c *fiber.Ctx) error {
	sellerID := middleware.UserID(c)
	status := c.Query("status")
	page, limit, offset := pagination(c)

	orders, total, err := h.service.GetSellerOrders(sellerID, status, limit, offset)
	if err != nil {
		log.Printf("Error getting orders for seller %s: %v", sellerID, err)
		return fail(c, err, "Could not retrieve orders")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"orders":     orders,
			"pagination": paginationMeta(page, limit, total),
		},
	})
}

// HandleGetOrder retrieves a single order, buyer-scoped unless the caller
// is a seller or admin. Responses are cached per requester so a buyer never
// sees an entry written for someone else.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	userID := middleware.UserID(c)
	role := middleware.Role(c)

	cacheKey := fmt.Sprintf("%s:%s:%s", cache.OrderKey(orderID), role, userID)
	var cached fiber.Map
	if h.cache.Get(c.Context(), cacheKey, &cached) {
		return c.JSON(cached)
	}

	order, err := h.service.GetOrder(orderID, userID, role)
	if err != nil {
		log.Printf("Error getting order %s: %v", orderID, err)
		return fail(c, err, "Could not retrieve order")
	}

	payload := fiber.Map{
		"success": true,
		"data":    fiber.Map{"order": order},
	}
	h.cache.Set(c.Context(), cacheKey, payload, orderCacheTTL)
	return c.JSON(payload)
}

// CancelOrderRequest carries the optional cancellation reason.
type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// HandleCancelOrder cancels the buyer's own pending/confirmed order and
// restores stock.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var req CancelOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body",
				"error":   err.Error(),
			})
		}
	}

	order, err := h.service.CancelOrder(orderID, middleware.UserID(c), req.Reason)
	if err != nil {
		log.Printf("Error cancelling order %s: %v", orderID, err)
		return fail(c, err, "Failed to cancel order")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order cancelled successfully",
		"data":    fiber.Map{"order": order},
	})
}

// UpdateOrderStatusRequest is the seller/admin status transition body.
type UpdateOrderStatusRequest struct {
	Status         string `json:"status" validate:"required,oneof=pending confirmed shipped delivered"`
	TrackingNumber string `json:"tracking_number" validate:"omitempty,max=100"`
	Notes          string `json:"notes" validate:"omitempty,max=500"`
}

// HandleUpdateOrderStatus applies a seller/admin driven status transition.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing status update request body: %v", err)
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

	order, err := h.service.UpdateStatus(services.UpdateStatusInput{
		OrderID:        orderID,
		ActorID:        middleware.UserID(c),
		ActorRole:      middleware.Role(c),
		Status:         req.Status,
		TrackingNumber: req.TrackingNumber,
		Notes:          req.Notes,
	})
	if err != nil {
		log.Printf("Error updating status of order %s: %v", orderID, err)
		return fail(c, err, "Failed to update order status")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Order status updated to %s", order.Status),
		"data":    fiber.Map{"order": order},
	})
}
