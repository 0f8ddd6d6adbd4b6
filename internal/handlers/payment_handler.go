package handlers

import (
	"log"

	"bazaar/internal/middleware"
	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles payment link creation and the provider webhook.
type PaymentHandler struct {
	service *services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterWebhookRoute registers the provider webhook. It must stay
// unauthenticated and be mounted before any auth middleware attaches to the
// prefix; the provider cannot carry a user token.
func (h *PaymentHandler) RegisterWebhookRoute(router fiber.Router) {
	router.Post("/webhooks/payments", h.HandlePaymentWebhook)
}

// RegisterRoutes registers the buyer-facing link route on an authenticated
// router.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/orders/:id/payment-link", h.HandleCreatePaymentLink)
}

// HandleCreatePaymentLink creates a hosted payment link for the buyer's
// own order.
func (h *PaymentHandler) HandleCreatePaymentLink(c *fiber.Ctx) error {
	orderID := c.Params("id")

	link, err := h.service.CreatePaymentLink(orderID, middleware.UserID(c))
	if err != nil {
		log.Printf("Error creating payment link for order %s: %v", orderID, err)
		return fail(c, err, "Failed to create payment link")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Payment link created",
		"data":    fiber.Map{"payment_link": link},
	})
}

// HandlePaymentWebhook ingests asynchronous payment notifications from the
// provider. It always acknowledges with 200 unless persistence itself
// failed; a non-2xx response makes the provider retry, and retrying a
// payload we cannot use never helps.
func (h *PaymentHandler) HandlePaymentWebhook(c *fiber.Ctx) error {
	err := h.service.HandleWebhook(
		c.Body(),
		c.Get("X-Webhook-Timestamp"),
		c.Get("X-Webhook-Signature"),
	)
	if err != nil {
		log.Printf("Error processing payment webhook: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to process webhook",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}
