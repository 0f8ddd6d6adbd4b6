package repositories

import (
	"errors"

	"bazaar/internal/models"
)

// ErrOrderNotCancellable is returned by Cancel when the order is no longer
// in a cancellable status by the time the conditional update runs.
var ErrOrderNotCancellable = errors.New("order is not cancellable")

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create persists an order together with its item snapshots.
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	// GetDetailed loads the order with items, shipping address and buyer.
	GetDetailed(id string) (*models.Order, error)
	GetByPaymentLinkID(linkID string) (*models.Order, error)
	ListByBuyer(buyerID, status string, limit, offset int) ([]models.Order, int64, error)
	// ListBySeller returns orders containing at least one product owned by
	// the seller. Backs the seller dashboard.
	ListBySeller(sellerID, status string, limit, offset int) ([]models.Order, int64, error)
	Update(order *models.Order) error
	// Cancel flips the order to cancelled only while it is still pending or
	// confirmed; otherwise it returns ErrOrderNotCancellable and changes
	// nothing. The conditional update is what keeps two concurrent
	// cancellations from both restoring stock.
	Cancel(orderID, notes string) error
	UpdatePaymentStatus(orderID, paymentStatus string) error
}
