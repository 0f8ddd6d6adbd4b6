package services

import (
	"errors"
	"fmt"
)

// Domain errors surfaced by the order core. Handlers map these to HTTP
// statuses with errors.Is / errors.As; anything else is a generic failure.
var (
	// ErrInvalidAddress means the shipping address does not exist or is not
	// owned by the requesting buyer. The two cases are deliberately not
	// distinguished, to avoid leaking other users' address ids.
	ErrInvalidAddress = errors.New("invalid shipping address")

	// ErrProductUnavailable means a requested product does not exist or is
	// not active.
	ErrProductUnavailable = errors.New("product is not available")

	// ErrVariantUnavailable means a requested variant does not exist, does
	// not belong to the product, or is inactive.
	ErrVariantUnavailable = errors.New("product variant is not available")

	// ErrOrderNotFound means the order does not exist (or is outside the
	// caller's visibility).
	ErrOrderNotFound = errors.New("order not found")

	// ErrNotCancellable means the order is past the cancellable statuses.
	ErrNotCancellable = errors.New("order cannot be cancelled")

	// ErrForbidden means the caller is authenticated but not allowed to act
	// on this resource.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition means the requested status change is not in the
	// allowed transition table.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// InsufficientStockError reports a stock check or conditional decrement
// failure, naming the quantity still available on the governing counter.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (requested: %d, available: %d)",
		e.ProductName, e.Requested, e.Available)
}
