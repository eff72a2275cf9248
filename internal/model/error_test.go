package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	detailed := NewDomainError(ErrCodeInvalidInput, "refill amount must not be negative")

	assert.ErrorIs(t, detailed, ErrInvalidInput)
	assert.NotErrorIs(t, detailed, ErrInsufficientStock)

	// Selection and funds errors are input errors too.
	assert.ErrorIs(t, ErrInvalidSelection, ErrInvalidInput)
	assert.ErrorIs(t, ErrInsufficientFunds, ErrInvalidInput)
	assert.NotErrorIs(t, ErrInvalidInput, ErrInvalidSelection)

	wrapped := fmt.Errorf("refill: %w", detailed)
	assert.ErrorIs(t, wrapped, ErrInvalidInput)
}

func TestStockError(t *testing.T) {
	err := &StockError{Shortages: []Shortage{
		{Kind: Milk, Required: 300, Available: 120},
		{Kind: Coffee, Required: 75, Available: 10},
	}}

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t,
		"Not enough Milk! Needed: 300ml, Available: 120ml; Not enough Coffee! Needed: 75g, Available: 10g",
		err.Error())

	var stockErr *StockError
	assert.True(t, errors.As(fmt.Errorf("order: %w", err), &stockErr))
	assert.Len(t, stockErr.Shortages, 2)
}

func TestMaintenanceError(t *testing.T) {
	err := &MaintenanceError{Missing: []ResourceKind{Milk, SugarPacket}}

	assert.ErrorIs(t, err, ErrMaintenanceMode)
	assert.Equal(t, "machine in maintenance: out of MILK, SUGAR PACKETS", err.Error())
}
