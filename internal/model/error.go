package model

import (
	"fmt"
	"strings"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string     `json:"error"`
	Message       string     `json:"message"`
	CorrelationID string     `json:"correlationId,omitempty"`
	Shortages     []Shortage `json:"shortages,omitempty"`
	Refund        string     `json:"refund,omitempty"`
	RefundCents   Cents      `json:"refundCents,omitempty"`
}

// Standard error codes
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeInvalidSelection  = "INVALID_SELECTION"
	ErrCodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeFulfillmentRace   = "FULFILLMENT_RACE"
	ErrCodeMaintenanceMode   = "MAINTENANCE_MODE"
	ErrCodeInvalidState      = "INVALID_STATE"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// inputCodes are the codes that also count as ErrInvalidInput.
var inputCodes = map[string]bool{
	ErrCodeInvalidInput:      true,
	ErrCodeInvalidSelection:  true,
	ErrCodeInsufficientFunds: true,
}

// DomainError is a business rule failure identified by Code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError with the same code, so detailed errors built
// with NewDomainError satisfy errors.Is against the sentinels below.
// Selection and funds errors also match ErrInvalidInput.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Code == e.Code {
		return true
	}
	return t.Code == ErrCodeInvalidInput && inputCodes[e.Code]
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
	ErrInvalidInput      = NewDomainError(ErrCodeInvalidInput, "Invalid input")
	ErrInvalidSelection  = NewDomainError(ErrCodeInvalidSelection, "Invalid selection")
	ErrInsufficientFunds = NewDomainError(ErrCodeInsufficientFunds, "Insufficient funds tendered")
	ErrInsufficientStock = NewDomainError(ErrCodeInsufficientStock, "Insufficient stock")
	ErrFulfillmentRace   = NewDomainError(ErrCodeFulfillmentRace, "Stock changed before the order could be dispensed")
	ErrMaintenanceMode   = NewDomainError(ErrCodeMaintenanceMode, "Machine is in maintenance")
	ErrInvalidState      = NewDomainError(ErrCodeInvalidState, "Operation not allowed in the current order state")
	ErrNotFound          = NewDomainError(ErrCodeNotFound, "Not found")
)

// StockError reports which resources could not cover a requirement.
type StockError struct {
	Shortages []Shortage
}

func (e *StockError) Error() string {
	if len(e.Shortages) == 0 {
		return ErrInsufficientStock.Message
	}
	parts := make([]string, len(e.Shortages))
	for i, s := range e.Shortages {
		parts[i] = s.String()
	}
	return strings.Join(parts, "; ")
}

// Unwrap lets errors.Is(err, ErrInsufficientStock) match.
func (e *StockError) Unwrap() error {
	return ErrInsufficientStock
}

// MaintenanceError lists the resources that put the machine in maintenance.
type MaintenanceError struct {
	Missing []ResourceKind
}

func (e *MaintenanceError) Error() string {
	names := make([]string, len(e.Missing))
	for i, kind := range e.Missing {
		names[i] = strings.ToUpper(kind.DisplayName())
	}
	return fmt.Sprintf("machine in maintenance: out of %s", strings.Join(names, ", "))
}

// Unwrap lets errors.Is(err, ErrMaintenanceMode) match.
func (e *MaintenanceError) Unwrap() error {
	return ErrMaintenanceMode
}
