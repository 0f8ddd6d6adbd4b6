package services

import (
	"bazaar/internal/models"
	"bazaar/internal/repositories"
)

// AddressService handles the buyer's address book. All operations are
// scoped to the owning user; an address belonging to someone else behaves
// exactly like a missing one.
type AddressService struct {
	repo repositories.AddressRepository
}

// NewAddressService creates a new AddressService.
func NewAddressService(repo repositories.AddressRepository) *AddressService {
	return &AddressService{
		repo: repo,
	}
}

// GetAddresses returns all of the user's addresses.
func (s *AddressService) GetAddresses(userID string) ([]models.Address, error) {
	return s.repo.ListByUser(userID)
}

// GetAddress returns one of the user's addresses.
func (s *AddressService) GetAddress(addressID, userID string) (*models.Address, error) {
	return s.repo.FindOwned(addressID, userID)
}

// CreateAddress adds an address to the user's book.
func (s *AddressService) CreateAddress(userID string, address *models.Address) error {
	address.UserID = userID
	return s.repo.Create(address)
}

// UpdateAddress saves changes to one of the user's addresses.
func (s *AddressService) UpdateAddress(userID string, address *models.Address) error {
	existing, err := s.repo.FindOwned(address.ID, userID)
	if err != nil {
		return err
	}
	address.UserID = existing.UserID
	return s.repo.Update(address)
}

// DeleteAddress removes one of the user's addresses.
func (s *AddressService) DeleteAddress(addressID, userID string) error {
	return s.repo.Delete(addressID, userID)
}
