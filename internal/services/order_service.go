package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"bazaar/internal/models"
	"bazaar/internal/repositories"
	"bazaar/pkg/cache"
	"bazaar/pkg/rabbitmq"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pricing constants applied at checkout. Amounts are computed once at order
// creation and never recomputed.
const (
	TaxRate               = 0.18 // 18% GST
	FreeShippingThreshold = 500.0
	ShippingFlatFee       = 50.0
)

// allowedTransitions is the strict forward-only status table for
// seller/admin driven updates. Cancellation is buyer-only and goes through
// CancelOrder, so it is absent here. A same-status update is permitted as
// an idempotent no-op (it may attach tracking or notes).
var allowedTransitions = map[string][]string{
	models.OrderStatusPending:   {models.OrderStatusConfirmed},
	models.OrderStatusConfirmed: {models.OrderStatusShipped},
	models.OrderStatusShipped:   {models.OrderStatusDelivered},
	models.OrderStatusDelivered: {},
	models.OrderStatusCancelled: {},
}

// OrderLineInput is one requested line of a checkout: a product, an
// optional variant, and a quantity. The presence of VariantID decides which
// stock counter governs the line.
type OrderLineInput struct {
	ProductID string  `json:"product_id" validate:"required"`
	VariantID *string `json:"variant_id,omitempty"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderInput carries everything the checkout transaction needs.
type CreateOrderInput struct {
	BuyerID           string
	Items             []OrderLineInput
	ShippingAddressID string
	PaymentMethod     string
	Notes             string
}

// UpdateStatusInput carries a seller/admin status transition request.
type UpdateStatusInput struct {
	OrderID        string
	ActorID        string
	ActorRole      string
	Status         string
	TrackingNumber string
	Notes          string
}

// OrderService implements the order core: the atomic checkout transaction,
// cancellation with stock restore, the status transition state machine, and
// the buyer/seller read paths.
type OrderService struct {
	txm         repositories.TxManager
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	mqClient    *rabbitmq.Client
	cache       *cache.Cache
}

// NewOrderService creates a new OrderService. mqClient and responseCache
// may be nil; events and caching are then skipped.
func NewOrderService(txm repositories.TxManager, orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, mqClient *rabbitmq.Client, responseCache *cache.Cache) *OrderService {
	return &OrderService{
		txm:         txm,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		mqClient:    mqClient,
		cache:       responseCache,
	}
}

func generateOrderNumber() string {
	return "ORD-" + uuid.New().String()
}

// resolveLine validates one checkout line against the catalog and produces
// its OrderItem snapshot. The governing stock counter and unit price come
// from the variant when one is named, otherwise from the product; this is
// the single place that branching lives, for both creation and the stock
// error path.
func resolveLine(products repositories.ProductRepository, line OrderLineInput) (*models.OrderItem, error) {
	product, err := products.GetByID(line.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductUnavailable
		}
		return nil, err
	}
	if product.Status != models.ProductStatusActive {
		return nil, ErrProductUnavailable
	}

	unitPrice := product.UnitPrice()
	availableStock := product.StockQuantity
	productSKU := product.SKU
	var variantDetails *models.VariantDetails

	if line.VariantID != nil {
		variant, err := products.GetVariant(line.ProductID, *line.VariantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrVariantUnavailable
			}
			return nil, err
		}
		if !variant.IsActive {
			return nil, ErrVariantUnavailable
		}
		unitPrice += variant.PriceAdjustment
		availableStock = variant.StockQuantity
		productSKU = variant.SKU
		variantDetails = &models.VariantDetails{
			Size:      variant.Size,
			Color:     variant.Color,
			ColorCode: variant.ColorCode,
		}
	}

	if availableStock < line.Quantity {
		return nil, &InsufficientStockError{
			ProductName: product.Name,
			Requested:   line.Quantity,
			Available:   availableStock,
		}
	}

	return &models.OrderItem{
		ProductID:      line.ProductID,
		VariantID:      line.VariantID,
		Quantity:       line.Quantity,
		UnitPrice:      unitPrice,
		TotalPrice:     unitPrice * float64(line.Quantity),
		ProductName:    product.Name,
		ProductSKU:     productSKU,
		VariantDetails: variantDetails,
	}, nil
}

// stockError rebuilds an InsufficientStockError from the current counter
// after a lost decrement race, so the caller sees the post-update count.
func stockError(products repositories.ProductRepository, item models.OrderItem) error {
	available := 0
	if item.VariantID != nil {
		if variant, err := products.GetVariant(item.ProductID, *item.VariantID); err == nil {
			available = variant.StockQuantity
		}
	} else {
		if product, err := products.GetByID(item.ProductID); err == nil {
			available = product.StockQuantity
		}
	}
	return &InsufficientStockError{
		ProductName: item.ProductName,
		Requested:   item.Quantity,
		Available:   available,
	}
}

// CreateOrder runs the checkout transaction: validate the address and every
// line, compute pricing, then atomically write the order with its item
// snapshots, decrement the governing stock counters, bump sales counters
// and clear the buyer's cart. Any failure rolls the whole unit back.
func (s *OrderService) CreateOrder(in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("order must contain at least one item")
	}

	var orderID string
	err := s.txm.WithinTransaction(func(tx repositories.TxRepos) error {
		if _, err := tx.Addresses.FindOwned(in.ShippingAddressID, in.BuyerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidAddress
			}
			return err
		}

		var subtotal float64
		items := make([]models.OrderItem, 0, len(in.Items))
		for _, line := range in.Items {
			item, err := resolveLine(tx.Products, line)
			if err != nil {
				return err
			}
			subtotal += item.TotalPrice
			items = append(items, *item)
		}

		taxAmount := subtotal * TaxRate
		shippingAmount := ShippingFlatFee
		if subtotal > FreeShippingThreshold {
			shippingAmount = 0
		}

		order := &models.Order{
			OrderNumber:       generateOrderNumber(),
			BuyerID:           in.BuyerID,
			ShippingAddressID: in.ShippingAddressID,
			Status:            models.OrderStatusPending,
			Subtotal:          subtotal,
			TaxAmount:         taxAmount,
			ShippingAmount:    shippingAmount,
			TotalAmount:       subtotal + taxAmount + shippingAmount,
			PaymentMethod:     in.PaymentMethod,
			PaymentStatus:     models.PaymentStatusPending,
			Notes:             in.Notes,
			Items:             items,
		}
		if err := tx.Orders.Create(order); err != nil {
			return err
		}

		// The conditional decrements re-check availability under the row
		// write lock; a concurrent checkout losing the race fails here and
		// aborts the whole transaction.
		for _, item := range order.Items {
			if err := tx.Products.DecrementStock(item.ProductID, item.VariantID, item.Quantity); err != nil {
				if errors.Is(err, repositories.ErrInsufficientStock) {
					return stockError(tx.Products, item)
				}
				return err
			}
			if err := tx.Products.IncrementSales(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := tx.Carts.Clear(in.BuyerID); err != nil {
			return err
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	complete, err := s.orderRepo.GetDetailed(orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s created but could not be loaded: %w", orderID, err)
	}

	s.publishEvent(rabbitmq.EventOrderCreated, complete)
	s.invalidateOrderCaches(complete)

	return complete, nil
}

// CancelOrder reverses a pending or confirmed order: it restores the same
// governing counters that checkout decremented, by the quantities recorded
// in the item snapshots, decrements sales counters, and marks the order
// cancelled. Only the owning buyer may cancel.
func (s *OrderService) CancelOrder(orderID, buyerID, reason string) (*models.Order, error) {
	var cancelled *models.Order
	err := s.txm.WithinTransaction(func(tx repositories.TxRepos) error {
		order, err := tx.Orders.GetByID(orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.BuyerID != buyerID {
			return ErrForbidden
		}
		if !order.Cancellable() {
			return ErrNotCancellable
		}

		notes := "Cancelled by customer"
		if reason != "" {
			notes = "Cancelled by customer: " + reason
		}

		// Claim the cancellation with a conditional status flip before
		// touching any counter. If the order left a cancellable status
		// after the read above, the flip affects zero rows and nothing is
		// restored.
		if err := tx.Orders.Cancel(order.ID, notes); err != nil {
			if errors.Is(err, repositories.ErrOrderNotCancellable) {
				return ErrNotCancellable
			}
			return err
		}

		// Restore from the item snapshots, not live catalog state: the
		// snapshot records which counter governed each line at purchase.
		for _, item := range order.Items {
			if err := tx.Products.IncrementStock(item.ProductID, item.VariantID, item.Quantity); err != nil {
				return err
			}
			if err := tx.Products.DecrementSales(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		order.Status = models.OrderStatusCancelled
		order.Notes = notes
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(rabbitmq.EventOrderCancelled, cancelled)
	s.invalidateOrderCaches(cancelled)

	return cancelled, nil
}

// UpdateStatus applies a seller/admin driven status transition. A seller
// may only act on orders containing at least one of their products. The
// transition must be in the allowed table; re-applying the current status
// is an idempotent no-op that never overwrites shipped_at/delivered_at.
func (s *OrderService) UpdateStatus(in UpdateStatusInput) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(in.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if in.ActorRole != models.RoleAdmin {
		owns, err := s.sellerOwnsItem(order, in.ActorID)
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, ErrForbidden
		}
	}

	if in.Status != order.Status && !transitionAllowed(order.Status, in.Status) {
		return nil, ErrInvalidTransition
	}

	order.Status = in.Status
	if in.TrackingNumber != "" {
		order.TrackingNumber = in.TrackingNumber
	}
	if in.Notes != "" {
		order.Notes = in.Notes
	}

	// Timestamps are stamped once; repeated calls keep the first value.
	now := time.Now()
	if in.Status == models.OrderStatusShipped && order.ShippedAt == nil {
		order.ShippedAt = &now
	}
	if in.Status == models.OrderStatusDelivered && order.DeliveredAt == nil {
		order.DeliveredAt = &now
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	s.publishEvent(rabbitmq.EventOrderStatusChanged, order)
	s.invalidateOrderCaches(order)

	return order, nil
}

func transitionAllowed(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// sellerOwnsItem reports whether any of the order's items references a
// product owned by the seller.
func (s *OrderService) sellerOwnsItem(order *models.Order, sellerID string) (bool, error) {
	for _, item := range order.Items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// The product was deleted after purchase; the snapshot
				// stays, but it cannot authorize anyone.
				continue
			}
			return false, err
		}
		if product.SellerID == sellerID {
			return true, nil
		}
	}
	return false, nil
}

// GetOrder retrieves a single order. Buyers only see their own orders;
// sellers and admins see any.
func (s *OrderService) GetOrder(orderID, requesterID, requesterRole string) (*models.Order, error) {
	order, err := s.orderRepo.GetDetailed(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if requesterRole == models.RoleBuyer && order.BuyerID != requesterID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetBuyerOrders returns a page of the buyer's orders.
func (s *OrderService) GetBuyerOrders(buyerID, status string, limit, offset int) ([]models.Order, int64, error) {
	return s.orderRepo.ListByBuyer(buyerID, status, limit, offset)
}

// GetSellerOrders returns a page of orders containing the seller's
// products. Backs the seller dashboard.
func (s *OrderService) GetSellerOrders(sellerID, status string, limit, offset int) ([]models.Order, int64, error) {
	return s.orderRepo.ListBySeller(sellerID, status, limit, offset)
}

func (s *OrderService) publishEvent(event string, order *models.Order) {
	if s.mqClient == nil {
		return
	}
	err := s.mqClient.PublishOrderEvent(rabbitmq.OrderEvent{
		Event:       event,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		BuyerID:     order.BuyerID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
	})
	if err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", event, order.ID, err)
	}
}

// invalidateOrderCaches drops response cache entries that an order core
// write may have staled. The cache is read-path only; missing keys are
// harmless.
func (s *OrderService) invalidateOrderCaches(order *models.Order) {
	if s.cache == nil {
		return
	}
	ctx := context.Background()
	keys := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		keys = append(keys, cache.ProductKey(item.ProductID))
	}
	s.cache.Invalidate(ctx, keys...)
	// Single-order entries carry a per-requester suffix and buyer list
	// pages are keyed by status and page, so both go by prefix.
	s.cache.InvalidatePrefix(ctx, cache.OrderKey(order.ID))
	s.cache.InvalidatePrefix(ctx, cache.UserOrdersKey(order.BuyerID))
	s.cache.InvalidatePrefix(ctx, cache.ProductListKey(""))
}
