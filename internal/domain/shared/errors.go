package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrEmptyCart           = NewDomainError("EMPTY_CART", "Cart is empty")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
)

// NewProductNotFoundError reports a cart line that references a product no
// longer present in the catalog
func NewProductNotFoundError(productID string) *DomainError {
	return NewDomainError("PRODUCT_NOT_FOUND", fmt.Sprintf("Product not found: %s", productID))
}

// NewInsufficientStockError reports a requested quantity that exceeds the
// available stock, including the shortfall
func NewInsufficientStockError(productName string, requested, available int) *DomainError {
	return NewDomainError("INSUFFICIENT_STOCK",
		fmt.Sprintf("Insufficient stock for product %s: requested %d, available %d", productName, requested, available))
}
