package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeLineNotFound       = "CART_LINE_NOT_FOUND"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeEmptyCart          = "EMPTY_CART"
	ErrCodeUnknownCurrency    = "UNKNOWN_CURRENCY"
	ErrCodeIllegalTransition  = "ILLEGAL_TRANSITION"
	ErrCodeTerminalStatus     = "TERMINAL_STATUS"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodePersistenceFailure = "PERSISTENCE_FAILURE"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

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
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrOrderNotFound     = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrLineNotFound      = NewDomainError(ErrCodeLineNotFound, "Product is not in the cart")
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be at least one")
	ErrEmptyCart         = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrUnknownCurrency   = NewDomainError(ErrCodeUnknownCurrency, "Currency is not supported")
	ErrIllegalTransition = NewDomainError(ErrCodeIllegalTransition, "Order status transition is not permitted")
	ErrTerminalStatus    = NewDomainError(ErrCodeTerminalStatus, "Order is in a terminal status")
	ErrForbidden         = NewDomainError(ErrCodeForbidden, "Operation not permitted for this session")
	ErrNoSession         = NewDomainError(ErrCodeUnauthorised, "No active session")
)

// ValidationError reports a rejected input field. Nothing is built or
// written when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a field-level validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PersistenceError wraps a store failure after which the attempted write
// was rolled back. Callers may retry the same request.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failed operation may be resubmitted.
func (e *PersistenceError) Retryable() bool {
	return true
}
