// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

var (
	ErrCartEmpty      = errors.New("cart is empty")
	ErrMissingAddress = errors.New("shipping address is required")
	ErrNotOwner       = errors.New("unauthorized action")
)

// InsufficientStockError names the product that cannot be fulfilled so the
// caller can report it back to the user.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (available: %d)", e.ProductName, e.Available)
}
