package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a product, cart line or order does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed client input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// UpstreamError wraps a failed call to the commerce backend.
type UpstreamError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("woocommerce %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("woocommerce %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StockReason says why a line failed stock validation.
type StockReason string

const (
	StockUnavailable  StockReason = "unavailable"
	StockInsufficient StockReason = "insufficient"
)

// StockError rejects an order whose line cannot be fulfilled.
type StockError struct {
	ProductID   int64
	ProductName string
	Reason      StockReason
	Requested   int
	Available   int
}

func (e *StockError) Error() string {
	if e.Reason == StockInsufficient {
		return fmt.Sprintf("product %d (%s): requested %d, available %d", e.ProductID, e.ProductName, e.Requested, e.Available)
	}
	return fmt.Sprintf("product %d is out of stock or missing", e.ProductID)
}
