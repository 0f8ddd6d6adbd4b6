package repositories

import "bazaar/internal/models"

// AddressRepository defines the interface for address book data access.
// Lookups are always scoped to the owning user; a foreign address id is
// indistinguishable from a missing one.
type AddressRepository interface {
	FindOwned(addressID, userID string) (*models.Address, error)
	ListByUser(userID string) ([]models.Address, error)
	Create(address *models.Address) error
	Update(address *models.Address) error
	Delete(addressID, userID string) error
}
