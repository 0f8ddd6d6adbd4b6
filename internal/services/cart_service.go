package services

import (
	"errors"
	"fmt"

	"bazaar/internal/models"
	"bazaar/internal/repositories"

	"gorm.io/gorm"
)

// CartService handles the per-buyer staging cart. Adding to a cart does not
// reserve stock; the checkout transaction is the only consumer of stock.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the user's cart, creating an empty one on first use.
func (s *CartService) GetCart(userID string) (*models.Cart, error) {
	return s.cartRepo.GetOrCreateByUser(userID)
}

// AddItem puts a product (or variant) into the cart, merging with an
// existing line for the same product/variant.
func (s *CartService) AddItem(userID, productID string, variantID *string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	product, err := s.productRepo.GetByID(productID)
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
	if variantID != nil {
		variant, err := s.productRepo.GetVariant(productID, *variantID)
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
	}

	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.GetItem(cart.ID, productID, variantID)
	switch {
	case err == nil:
		existing.Quantity += quantity
		existing.UnitPrice = unitPrice
		if err := s.cartRepo.UpdateItem(existing); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			VariantID: variantID,
			Quantity:  quantity,
			UnitPrice: unitPrice,
		}
		if err := s.cartRepo.CreateItem(item); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.refreshTotals(userID)
}

// UpdateItemQuantity sets the quantity of a cart line; zero removes it.
func (s *CartService) UpdateItemQuantity(userID, itemID string, quantity int) (*models.Cart, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative")
	}
	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}

	var target *models.CartItem
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			target = &cart.Items[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("cart item with ID %s not found", itemID)
	}

	if quantity == 0 {
		if err := s.cartRepo.DeleteItem(cart.ID, itemID); err != nil {
			return nil, err
		}
	} else {
		target.Quantity = quantity
		if err := s.cartRepo.UpdateItem(target); err != nil {
			return nil, err
		}
	}

	return s.refreshTotals(userID)
}

// RemoveItem deletes a line from the cart.
func (s *CartService) RemoveItem(userID, itemID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.DeleteItem(cart.ID, itemID); err != nil {
		return nil, err
	}
	return s.refreshTotals(userID)
}

// ClearCart empties the user's cart outside of checkout.
func (s *CartService) ClearCart(userID string) error {
	return s.cartRepo.Clear(userID)
}

// refreshTotals recomputes and persists the cart's derived totals from its
// current lines, then returns the fresh cart.
func (s *CartService) refreshTotals(userID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}
	totalItems := 0
	totalAmount := 0.0
	for _, item := range cart.Items {
		totalItems += item.Quantity
		totalAmount += item.UnitPrice * float64(item.Quantity)
	}
	if err := s.cartRepo.UpdateTotals(cart.ID, totalItems, totalAmount); err != nil {
		return nil, err
	}
	cart.TotalItems = totalItems
	cart.TotalAmount = totalAmount
	return cart, nil
}
