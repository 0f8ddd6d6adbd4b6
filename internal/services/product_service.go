package services

import (
	"context"
	"errors"
	"fmt"

	"bazaar/internal/models"
	"bazaar/internal/repositories"
	"bazaar/pkg/cache"

	"gorm.io/gorm"
)

// ProductService handles business logic related to the catalog. Stock
// counters are never mutated here beyond plain seller edits; the order core
// owns the atomic decrement/increment paths.
type ProductService struct {
	repo  repositories.ProductRepository
	cache *cache.Cache
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, responseCache *cache.Cache) *ProductService {
	return &ProductService{
		repo:  repo,
		cache: responseCache,
	}
}

// GetProducts retrieves a page of products.
func (s *ProductService) GetProducts(status string, limit, offset int) ([]models.Product, int64, error) {
	return s.repo.GetAll(status, limit, offset)
}

// GetProductByID retrieves a single product with its variants.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByIDWithVariants(id)
}

// CreateProduct creates a new product owned by the seller.
func (s *ProductService) CreateProduct(sellerID string, product *models.Product) error {
	product.SellerID = sellerID
	if product.Status == "" {
		product.Status = models.ProductStatusActive
	}
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.invalidate(product.ID)
	return nil
}

// UpdateProduct updates a product after checking the seller owns it.
func (s *ProductService) UpdateProduct(sellerID string, product *models.Product) error {
	existing, err := s.repo.GetByID(product.ID)
	if err != nil {
		return err
	}
	if existing.SellerID != sellerID {
		return ErrForbidden
	}
	product.SellerID = existing.SellerID
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.invalidate(product.ID)
	return nil
}

// DeleteProduct deletes a product after checking the seller owns it.
func (s *ProductService) DeleteProduct(sellerID, productID string) error {
	existing, err := s.repo.GetByID(productID)
	if err != nil {
		return err
	}
	if existing.SellerID != sellerID {
		return ErrForbidden
	}
	if err := s.repo.Delete(productID); err != nil {
		return err
	}
	s.invalidate(productID)
	return nil
}

// AddVariant attaches a new variant to one of the seller's products.
func (s *ProductService) AddVariant(sellerID string, variant *models.ProductVariant) error {
	product, err := s.repo.GetByID(variant.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product with ID %s not found", variant.ProductID)
		}
		return err
	}
	if product.SellerID != sellerID {
		return ErrForbidden
	}
	if err := s.repo.CreateVariant(variant); err != nil {
		return err
	}
	s.invalidate(variant.ProductID)
	return nil
}

func (s *ProductService) invalidate(productID string) {
	if s.cache == nil {
		return
	}
	ctx := context.Background()
	s.cache.Invalidate(ctx, cache.ProductKey(productID))
	s.cache.InvalidatePrefix(ctx, cache.ProductListKey(""))
}
