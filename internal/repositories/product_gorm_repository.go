package repositories

import (
	"fmt"

	"bazaar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
// Passing a transaction handle yields a repository scoped to that
// transaction.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves a page of products, optionally filtered by status.
func (r *GORMProductRepository) GetAll(status string, limit, offset int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := r.db.Model(&models.Product{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}
	if err := query.Preload("Variants").Limit(limit).Offset(offset).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get products: %w", err)
	}
	return products, total, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product with ID %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetByIDWithVariants retrieves a product together with its variants.
func (r *GORMProductRepository) GetByIDWithVariants(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Variants").First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product with ID %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetVariant retrieves a variant scoped to its parent product.
func (r *GORMProductRepository) GetVariant(productID, variantID string) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.First(&variant, "id = ? AND product_id = ?", variantID, productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("variant with ID %s not found: %w", variantID, err)
		}
		return nil, fmt.Errorf("failed to get variant by ID %s: %w", variantID, err)
	}
	return &variant, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.SKU == "" {
		product.SKU = "SKU-" + uuid.New().String()
	}
	if product.Slug == "" {
		product.Slug = product.Name + "-" + product.ID
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for update", product.ID)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for deletion", id)
	}
	return nil
}

// CreateVariant creates a new variant for a product.
func (r *GORMProductRepository) CreateVariant(variant *models.ProductVariant) error {
	if variant.ID == "" {
		variant.ID = uuid.New().String()
	}
	if variant.SKU == "" {
		variant.SKU = "SKU-" + uuid.New().String()
	}
	if err := r.db.Create(variant).Error; err != nil {
		return fmt.Errorf("failed to create variant: %w", err)
	}
	return nil
}

// UpdateVariant updates an existing variant.
func (r *GORMProductRepository) UpdateVariant(variant *models.ProductVariant) error {
	res := r.db.Save(variant)
	if res.Error != nil {
		return fmt.Errorf("failed to update variant: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("variant with ID %s not found for update", variant.ID)
	}
	return nil
}

// DecrementStock performs the conditional atomic decrement:
// UPDATE ... SET stock_quantity = stock_quantity - ? WHERE id = ? AND
// stock_quantity >= ?. Two concurrent checkouts against the same row
// serialize on the row write lock and the loser sees zero rows affected.
func (r *GORMProductRepository) DecrementStock(productID string, variantID *string, quantity int) error {
	var res *gorm.DB
	if variantID != nil {
		res = r.db.Model(&models.ProductVariant{}).
			Where("id = ? AND stock_quantity >= ?", *variantID, quantity).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	} else {
		res = r.db.Model(&models.Product{}).
			Where("id = ? AND stock_quantity >= ?", productID, quantity).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	}
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// IncrementStock restores the governing stock counter.
func (r *GORMProductRepository) IncrementStock(productID string, variantID *string, quantity int) error {
	var res *gorm.DB
	if variantID != nil {
		res = r.db.Model(&models.ProductVariant{}).
			Where("id = ?", *variantID).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
	} else {
		res = r.db.Model(&models.Product{}).
			Where("id = ?", productID).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
	}
	if res.Error != nil {
		return fmt.Errorf("failed to increment stock: %w", res.Error)
	}
	return nil
}

// IncrementSales bumps the product's total sales counter.
func (r *GORMProductRepository) IncrementSales(productID string, quantity int) error {
	if err := r.db.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("total_sales", gorm.Expr("total_sales + ?", quantity)).Error; err != nil {
		return fmt.Errorf("failed to increment sales count: %w", err)
	}
	return nil
}

// DecrementSales reverses IncrementSales on cancellation.
func (r *GORMProductRepository) DecrementSales(productID string, quantity int) error {
	if err := r.db.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("total_sales", gorm.Expr("total_sales - ?", quantity)).Error; err != nil {
		return fmt.Errorf("failed to decrement sales count: %w", err)
	}
	return nil
}
