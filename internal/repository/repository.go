package repository

import (
	"context"

	"brewbox/internal/model"

	"github.com/google/uuid"
)

// SaleRepository is the append-only journal of dispensed orders. It is an
// audit trail only: nothing is ever read back into the inventory ledger.
type SaleRepository interface {
	// RecordSale stores a receipt together with its resource consumption.
	RecordSale(ctx context.Context, receipt *model.Receipt) error

	// GetByID retrieves a receipt by order ID. It returns nil, nil when the
	// order is unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error)

	// List returns receipts, newest first, with pagination support.
	List(ctx context.Context, limit, offset int) ([]model.Receipt, error)
}
