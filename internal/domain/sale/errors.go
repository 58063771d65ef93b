// internal/domain/sale/errors.go
package sale

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrSaleNotFound is returned when the requested sale does not exist
	ErrSaleNotFound = errors.New("sale not found")

	// ErrSaleAlreadyCancelled is returned when cancelling a cancelled sale
	ErrSaleAlreadyCancelled = errors.New("sale is already cancelled")

	// ErrEmptySale is returned when a sale is created with no items
	ErrEmptySale = errors.New("sale must have at least one item")

	// ErrInvalidQuantity is returned when an item quantity is not positive
	ErrInvalidQuantity = errors.New("item quantity must be positive")

	// ErrInvalidPaymentMethod is returned for unknown payment methods
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// InsufficientStockError reports which product could not cover the requested
// quantity. Creation fails as a whole on the first such product, before any
// write happens.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: requested %s, available %s",
		e.ProductName, e.Requested, e.Available)
}
