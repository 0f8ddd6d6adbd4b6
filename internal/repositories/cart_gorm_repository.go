package repositories

import (
	"fmt"

	"bazaar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetOrCreateByUser returns the user's cart with items, creating it on
// first access.
func (r *GORMCartRepository) GetOrCreateByUser(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items").First(&cart, "user_id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		cart = models.Cart{ID: uuid.New().String(), UserID: userID}
		if err := r.db.Create(&cart).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart for user %s: %w", userID, err)
		}
		return &cart, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	return &cart, nil
}

// UpdateTotals writes the derived totals after a cart mutation.
func (r *GORMCartRepository) UpdateTotals(cartID string, totalItems int, totalAmount float64) error {
	if err := r.db.Model(&models.Cart{}).Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"total_items":  totalItems,
			"total_amount": totalAmount,
		}).Error; err != nil {
		return fmt.Errorf("failed to update cart totals: %w", err)
	}
	return nil
}

// GetItem finds a cart line matching product and variant, if present.
func (r *GORMCartRepository) GetItem(cartID, productID string, variantID *string) (*models.CartItem, error) {
	var item models.CartItem
	query := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID)
	if variantID != nil {
		query = query.Where("variant_id = ?", *variantID)
	} else {
		query = query.Where("variant_id IS NULL")
	}
	if err := query.First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return &item, nil
}

// CreateItem adds a new line to a cart.
func (r *GORMCartRepository) CreateItem(item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}
	return nil
}

// UpdateItem saves a modified cart line.
func (r *GORMCartRepository) UpdateItem(item *models.CartItem) error {
	res := r.db.Save(item)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item with ID %s not found for update", item.ID)
	}
	return nil
}

// DeleteItem removes a line from a cart.
func (r *GORMCartRepository) DeleteItem(cartID, itemID string) error {
	res := r.db.Delete(&models.CartItem{}, "id = ? AND cart_id = ?", itemID, cartID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item with ID %s not found for deletion", itemID)
	}
	return nil
}

// Clear deletes all items of the user's cart and resets the totals. A user
// without a cart is a no-op.
func (r *GORMCartRepository) Clear(userID string) error {
	var cart models.Cart
	err := r.db.First(&cart, "user_id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	if err := r.db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}
	if err := r.db.Model(&models.Cart{}).Where("id = ?", cart.ID).
		Updates(map[string]interface{}{
			"total_items":  0,
			"total_amount": 0,
		}).Error; err != nil {
		return fmt.Errorf("failed to reset cart totals: %w", err)
	}
	return nil
}
