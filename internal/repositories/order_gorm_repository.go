package repositories

import (
	"fmt"

	"bazaar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create persists the order and its item snapshots in one go. GORM inserts
// the associated items with the order row; when called inside a transaction
// handle, the whole write is part of that transaction.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves an order with its items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetDetailed retrieves an order with items, shipping address and buyer.
func (r *GORMOrderRepository) GetDetailed(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").Preload("ShippingAddress").Preload("Buyer").
		First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByPaymentLinkID correlates an inbound payment webhook to its order.
// An unknown link id yields gorm.ErrRecordNotFound unwrapped so callers can
// treat it as a no-op.
func (r *GORMOrderRepository) GetByPaymentLinkID(linkID string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "payment_link_id = ?", linkID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get order by payment link %s: %w", linkID, err)
	}
	return &order, nil
}

// ListByBuyer returns a page of the buyer's orders, newest first.
func (r *GORMOrderRepository) ListByBuyer(buyerID, status string, limit, offset int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.Model(&models.Order{}).Where("buyer_id = ?", buyerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := query.Preload("Items").Preload("ShippingAddress").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list orders for buyer %s: %w", buyerID, err)
	}
	return orders, total, nil
}

// ListBySeller joins orders to items and products to find orders carrying
// at least one of the seller's products.
func (r *GORMOrderRepository) ListBySeller(sellerID, status string, limit, offset int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	// Orders carrying at least one of the seller's products, via the item
	// snapshots' product references.
	sellerOrderIDs := r.db.Model(&models.OrderItem{}).
		Select("order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.seller_id = ?", sellerID)

	query := r.db.Model(&models.Order{}).Where("id IN (?)", sellerOrderIDs)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count seller orders: %w", err)
	}
	if err := query.Preload("Items").Preload("Buyer").Preload("ShippingAddress").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list orders for seller %s: %w", sellerID, err)
	}
	return orders, total, nil
}

// Update saves the mutable order fields (status, notes, tracking,
// timestamps). Item snapshots are never updated through this path.
func (r *GORMOrderRepository) Update(order *models.Order) error {
	res := r.db.Omit("Items", "ShippingAddress", "Buyer").Save(order)
	if res.Error != nil {
		return fmt.Errorf("failed to update order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for update", order.ID)
	}
	return nil
}

// Cancel performs the conditional status flip:
// UPDATE orders SET status = 'cancelled' WHERE id = ? AND status IN
// ('pending', 'confirmed'). The loser of two concurrent cancellations sees
// zero rows affected and must not restore stock.
func (r *GORMOrderRepository) Cancel(orderID, notes string) error {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status IN ?", orderID, []string{models.OrderStatusPending, models.OrderStatusConfirmed}).
		UpdateColumns(map[string]interface{}{
			"status": models.OrderStatusCancelled,
			"notes":  notes,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to cancel order %s: %w", orderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotCancellable
	}
	return nil
}

// UpdatePaymentStatus applies a payment status without touching any other
// field. Used by webhook reconciliation; last write wins.
func (r *GORMOrderRepository) UpdatePaymentStatus(orderID, paymentStatus string) error {
	if err := r.db.Model(&models.Order{}).
		Where("id = ?", orderID).
		UpdateColumn("payment_status", paymentStatus).Error; err != nil {
		return fmt.Errorf("failed to update payment status for order %s: %w", orderID, err)
	}
	return nil
}
