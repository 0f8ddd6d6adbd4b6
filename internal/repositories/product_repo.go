package repositories

import (
	"errors"

	"bazaar/internal/models"
)

// ErrInsufficientStock is returned by DecrementStock when the conditional
// decrement would drive the governing stock counter negative.
var ErrInsufficientStock = errors.New("insufficient stock")

// ProductRepository defines the interface for catalog data access. The
// stock mutation methods must be atomic conditional operations so that
// concurrent checkouts against the same counter serialize at the database.
type ProductRepository interface {
	GetAll(status string, limit, offset int) ([]models.Product, int64, error)
	GetByID(id string) (*models.Product, error)
	GetByIDWithVariants(id string) (*models.Product, error)
	GetVariant(productID, variantID string) (*models.ProductVariant, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	CreateVariant(variant *models.ProductVariant) error
	UpdateVariant(variant *models.ProductVariant) error

	// DecrementStock decrements the governing counter (variant when
	// variantID is non-nil, product otherwise) only if the result stays
	// non-negative; otherwise it returns ErrInsufficientStock and leaves
	// the counter untouched.
	DecrementStock(productID string, variantID *string, quantity int) error
	// IncrementStock restores the governing counter. Used by cancellation.
	IncrementStock(productID string, variantID *string, quantity int) error
	IncrementSales(productID string, quantity int) error
	DecrementSales(productID string, quantity int) error
}
