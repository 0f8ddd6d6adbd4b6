package repositories

import "bazaar/internal/models"

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// GetOrCreateByUser returns the user's cart with items, creating an
	// empty cart on first use.
	GetOrCreateByUser(userID string) (*models.Cart, error)
	UpdateTotals(cartID string, totalItems int, totalAmount float64) error
	GetItem(cartID, productID string, variantID *string) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItem(item *models.CartItem) error
	DeleteItem(cartID, itemID string) error
	// Clear deletes the cart's items and zeroes its totals. Invoked inside
	// the checkout transaction, after the order has been written.
	Clear(userID string) error
}
