package models

import (
	"fmt"
	"strings"
)

// ErrProductsNotFound reports every catalog id a request referenced that does
// not exist. Batch operations resolve all ids before writing anything, so the
// caller sees the full list at once.
type ErrProductsNotFound struct {
	IDs []string
}

func (e *ErrProductsNotFound) Error() string {
	return "products not found: " + strings.Join(e.IDs, ", ")
}

// ErrInsufficientStock reports the product whose stock cannot cover an order
// line. Finalize aborts on the first such product with nothing deducted.
type ErrInsufficientStock struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *ErrInsufficientStock) Error() string {
	return fmt.Sprintf("not enough stock for %s (have %d, need %d)",
		e.ProductName, e.Available, e.Requested)
}
