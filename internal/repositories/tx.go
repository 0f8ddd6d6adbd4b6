package repositories

import "gorm.io/gorm"

// TxRepos bundles the repositories that participate in a multi-statement
// transaction, all scoped to the same transaction handle.
type TxRepos struct {
	Orders    OrderRepository
	Products  ProductRepository
	Addresses AddressRepository
	Carts     CartRepository
}

// TxManager runs a function inside a single all-or-nothing transaction.
// Returning an error from fn rolls back every write made through the
// transaction-scoped repositories.
type TxManager interface {
	WithinTransaction(fn func(tx TxRepos) error) error
}

// GORMTxManager implements TxManager on top of gorm's transaction closure.
type GORMTxManager struct {
	db *gorm.DB
}

// NewGORMTxManager creates a new instance of GORMTxManager.
func NewGORMTxManager(db *gorm.DB) *GORMTxManager {
	return &GORMTxManager{
		db: db,
	}
}

// WithinTransaction opens a database transaction and hands fn a set of
// repositories bound to it. Commit happens only if fn returns nil.
func (m *GORMTxManager) WithinTransaction(fn func(tx TxRepos) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return fn(TxRepos{
			Orders:    NewGORMOrderRepository(tx),
			Products:  NewGORMProductRepository(tx),
			Addresses: NewGORMAddressRepository(tx),
			Carts:     NewGORMCartRepository(tx),
		})
	})
}
