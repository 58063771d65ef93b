// internal/domain/product/errors.go
package product

import "errors"

var (
	// ErrProductNotFound is returned when the requested product does not exist
	ErrProductNotFound = errors.New("product not found")

	// ErrCategoryNotFound is returned when the requested category does not exist
	ErrCategoryNotFound = errors.New("category not found")

	// ErrProductInUse is returned when deleting a product referenced by sales
	ErrProductInUse = errors.New("product is referenced by existing sales")

	// ErrCategoryInUse is returned when deleting a category that still has products
	ErrCategoryInUse = errors.New("category still has products")
)
