package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"bazaar/internal/models"
	"bazaar/internal/repositories"
	"bazaar/pkg/cache"
	"bazaar/pkg/payments"

	"gorm.io/gorm"
)

// PaymentService owns the two halves of the payment integration: the
// outbound link creation against the gateway, and the asynchronous webhook
// reconciliation that maps provider statuses onto payment_status. It never
// touches order status or stock.
type PaymentService struct {
	orderRepo repositories.OrderRepository
	gateway   *payments.Client
	cache     *cache.Cache
}

// NewPaymentService creates a new PaymentService. gateway may be nil when
// no payment provider is configured; cache may be nil as well.
func NewPaymentService(orderRepo repositories.OrderRepository, gateway *payments.Client, responseCache *cache.Cache) *PaymentService {
	return &PaymentService{
		orderRepo: orderRepo,
		gateway:   gateway,
		cache:     responseCache,
	}
}

// CreatePaymentLink requests a hosted payment link for an order and stores
// the returned link id/url on the order for later webhook correlation. The
// requester must be the order's buyer.
func (s *PaymentService) CreatePaymentLink(orderID, buyerID string) (*payments.LinkResponse, error) {
	if s.gateway == nil {
		return nil, fmt.Errorf("payment gateway is not configured")
	}

	order, err := s.orderRepo.GetDetailed(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, ErrForbidden
	}
	if order.PaymentMethod == models.PaymentMethodCOD {
		log.Printf("Warning: creating payment link for COD order %s", order.ID)
	}

	req := payments.LinkRequest{
		Amount:   fmt.Sprintf("%.2f", order.TotalAmount),
		Currency: "INR",
		Purpose:  "Order " + order.OrderNumber,
	}
	if order.Buyer != nil {
		req.Customer = payments.CustomerDetails{
			Name:  order.Buyer.FirstName + " " + order.Buyer.LastName,
			Email: order.Buyer.Email,
			Phone: order.Buyer.Phone,
		}
	}

	link, err := s.gateway.CreateLink(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment link for order %s: %w", order.ID, err)
	}

	order.PaymentLinkID = link.LinkID
	order.PaymentLinkURL = link.LinkURL
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	return link, nil
}

// webhookPayload mirrors the handful of provider payload shapes seen in the
// wild; the link id and status may sit at several depths.
type webhookPayload struct {
	Event string `json:"event"`
	Type  string `json:"type"`
	Data  struct {
		LinkID string `json:"link_id"`
		Link   struct {
			LinkID string `json:"link_id"`
		} `json:"link"`
		LinkStatus string `json:"link_status"`
		Order      struct {
			TransactionStatus string `json:"transaction_status"`
		} `json:"order"`
	} `json:"data"`
	LinkID string `json:"link_id"`
}

func (p *webhookPayload) linkID() string {
	if p.Data.LinkID != "" {
		return p.Data.LinkID
	}
	if p.Data.Link.LinkID != "" {
		return p.Data.Link.LinkID
	}
	return p.LinkID
}

func (p *webhookPayload) status() string {
	if p.Data.LinkStatus != "" {
		return p.Data.LinkStatus
	}
	return p.Data.Order.TransactionStatus
}

// mapProviderStatus translates the provider's status vocabulary to the
// internal payment_status domain. Unknown values map to empty, meaning the
// notification is ignored.
func mapProviderStatus(providerStatus string) string {
	switch providerStatus {
	case "PAID", "SUCCESS":
		return models.PaymentStatusPaid
	case "PARTIALLY_PAID":
		return models.PaymentStatusPartial
	case "FAILED":
		return models.PaymentStatusFailed
	default:
		return ""
	}
}

// HandleWebhook processes an inbound gateway notification. Every outcome is
// an acknowledgement: malformed payloads, unknown link ids and unknown
// statuses are logged no-ops so the provider's retry queue never blocks.
// The status update is last-write-wins, so redelivery of the same
// notification is idempotent. The returned error is only ever an internal
// persistence failure.
func (s *PaymentService) HandleWebhook(rawBody []byte, timestamp, signature string) error {
	// Signature verification is advisory: a mismatch is logged but does not
	// block processing.
	if s.gateway != nil && !s.gateway.VerifySignature(timestamp, rawBody, signature) {
		log.Printf("Warning: payment webhook signature could not be verified")
	}

	var payload webhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		log.Printf("Payment webhook with invalid JSON payload ignored: %v", err)
		return nil
	}

	linkID := payload.linkID()
	if linkID == "" {
		log.Printf("Payment webhook without link id ignored")
		return nil
	}

	order, err := s.orderRepo.GetByPaymentLinkID(linkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Payment webhook for unknown link %s ignored", linkID)
			return nil
		}
		return err
	}

	paymentStatus := mapProviderStatus(payload.status())
	if paymentStatus == "" {
		log.Printf("Payment webhook event %s with status %q ignored for order %s",
			payload.Event, payload.status(), order.ID)
		return nil
	}

	if err := s.orderRepo.UpdatePaymentStatus(order.ID, paymentStatus); err != nil {
		return err
	}
	log.Printf("Order %s payment status set to %s", order.ID, paymentStatus)

	if s.cache != nil {
		ctx := context.Background()
		s.cache.InvalidatePrefix(ctx, cache.OrderKey(order.ID))
		s.cache.InvalidatePrefix(ctx, cache.UserOrdersKey(order.BuyerID))
	}
	return nil
}
