package repositories

import (
	"fmt"

	"bazaar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReturnRepository defines the interface for return request data access.
type ReturnRepository interface {
	Create(request *models.ReturnRequest) error
	GetByID(id string) (*models.ReturnRequest, error)
	ListByBuyer(buyerID string) ([]models.ReturnRequest, error)
	Update(request *models.ReturnRequest) error
}

// GORMReturnRepository is a GORM implementation of ReturnRepository.
type GORMReturnRepository struct {
	db *gorm.DB
}

// NewGORMReturnRepository creates a new instance of GORMReturnRepository.
func NewGORMReturnRepository(db *gorm.DB) *GORMReturnRepository {
	return &GORMReturnRepository{
		db: db,
	}
}

// Create creates a new return request.
func (r *GORMReturnRepository) Create(request *models.ReturnRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	if err := r.db.Create(request).Error; err != nil {
		return fmt.Errorf("failed to create return request: %w", err)
	}
	return nil
}

// GetByID retrieves a return request by its ID.
func (r *GORMReturnRepository) GetByID(id string) (*models.ReturnRequest, error) {
	var request models.ReturnRequest
	if err := r.db.First(&request, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("return request with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get return request by ID %s: %w", id, err)
	}
	return &request, nil
}

// ListByBuyer returns the buyer's return requests, newest first.
func (r *GORMReturnRepository) ListByBuyer(buyerID string) ([]models.ReturnRequest, error) {
	var requests []models.ReturnRequest
	if err := r.db.Where("buyer_id = ?", buyerID).
		Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list return requests for buyer %s: %w", buyerID, err)
	}
	return requests, nil
}

// Update saves a modified return request.
func (r *GORMReturnRepository) Update(request *models.ReturnRequest) error {
	res := r.db.Save(request)
	if res.Error != nil {
		return fmt.Errorf("failed to update return request: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("return request with ID %s not found for update", request.ID)
	}
	return nil
}
