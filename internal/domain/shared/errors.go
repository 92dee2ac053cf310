package shared

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

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
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized  = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrDeleted       = NewDomainError("DELETED", "Resource has been deleted")
)

// ValidationError carries field-level validation failures that are surfaced
// to the caller as a field -> message map.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a validation error with the given field failures
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

// DateOrderError is returned when a usage date precedes the delivery date
// of a batch the operation would draw from.
type DateOrderError struct {
	BatchCode     string
	DateUsed      time.Time
	DateDelivered time.Time
}

// Error implements the error interface
func (e *DateOrderError) Error() string {
	return fmt.Sprintf(
		"date used (%s) cannot be before the date delivered (%s) of batch %s",
		e.DateUsed.Format("2006-01-02"), e.DateDelivered.Format("2006-01-02"), e.BatchCode,
	)
}

// InsufficientStockError is returned when the total eligible quantity across
// all applicable batches is less than the requested amount.
type InsufficientStockError struct {
	MaterialName string
	Requested    decimal.Decimal
	Available    decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf(
		"cannot draw %s units of %s: only %s units available across all applicable batches",
		e.Requested.String(), e.MaterialName, e.Available.String(),
	)
}
