package domain

import (
	"errors"
	"strings"
)

var (
	ErrItemNotFound    = errors.New("catalog item not found")
	ErrBundleNotFound  = errors.New("bundle not found")
	ErrLineNotFound    = errors.New("cart line not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrChoiceRequired  = errors.New("bundle requires an item choice")
	ErrNotCustomizable = errors.New("bundle is not customizable")
	ErrCatalogEmpty    = errors.New("catalog is not loaded")

	// ErrPersistence marks a failed write to durable storage. The in-memory
	// mutation that triggered the write has already been committed.
	ErrPersistence = errors.New("persist failed")
)

// ValidationError lists checkout fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}
