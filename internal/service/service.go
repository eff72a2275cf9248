package service

import (
	"context"
	"fmt"

	"brewbox/internal/model"

	"github.com/google/uuid"
)

// MachineService is the order engine. It owns the single order in flight
// and serializes every operation on the machine.
type MachineService interface {
	// SelectProduct opens an order for the named product.
	SelectProduct(ctx context.Context, product string) (*model.Order, error)

	// SelectSize picks a size and checks that stock covers it.
	SelectSize(ctx context.Context, size string) (*model.Order, error)

	// ChooseAddOn sets the sticker option and moves the order to payment.
	ChooseAddOn(ctx context.Context, sticker bool) (*model.Order, error)

	// SubmitTender adds one batch of coins to the order's payment.
	SubmitTender(ctx context.Context, batch model.CoinTender) (model.PaymentStatus, error)

	// SubmitAddOnRequest dispenses sugar packets and closes the order.
	SubmitAddOnRequest(ctx context.Context, count int64) (*model.Receipt, error)

	// Cancel aborts the order in flight and returns the refund.
	Cancel(ctx context.Context) (model.Cents, error)

	// CurrentOrder returns a copy of the order in flight, if any.
	CurrentOrder() (*model.Order, bool)

	// PlaceOrder runs a complete order from a prerecorded request.
	PlaceOrder(ctx context.Context, req *model.OrderRequest) (*model.Receipt, error)

	// ListProducts returns the menu.
	ListProducts(ctx context.Context) []model.MenuEntry

	// CheckAvailability reports whether a product size can be made now.
	CheckAvailability(ctx context.Context, product, size string) (*model.Availability, error)

	// Refill adds stock and returns the new quantity.
	Refill(ctx context.Context, kind model.ResourceKind, amount int64) (int64, error)

	// MaintenanceStatus reports the machine's stock health.
	MaintenanceStatus(ctx context.Context) model.MaintenanceStatus

	// InventoryReport returns the quantity of every resource.
	InventoryReport(ctx context.Context) model.InventoryReport

	// GetReceipt retrieves a journaled receipt.
	GetReceipt(ctx context.Context, id uuid.UUID) (*model.Receipt, error)

	// ListReceipts returns journaled receipts with pagination.
	ListReceipts(ctx context.Context, limit, offset int) ([]model.Receipt, error)

	// StickerPrice is the personalisation surcharge.
	StickerPrice() model.Cents

	// MaxSugarPackets is the most packets one order may receive.
	MaxSugarPackets() int64
}

// Ledger is the inventory the engine draws from.
type Ledger interface {
	Available(kind model.ResourceKind) int64
	CanFulfill(req model.Requirements) bool
	Shortages(req model.Requirements) []model.Shortage
	Deduct(req model.Requirements) error
	Replenish(kind model.ResourceKind, amount int64) (int64, error)
	Report() model.InventoryReport
}

// AbortError reports an order that ended after money was taken. Refund is
// the full amount returned to the customer.
type AbortError struct {
	OrderID uuid.UUID
	Refund  model.Cents
	Err     error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("%v (refunded %s)", e.Err, e.Refund)
}

func (e *AbortError) Unwrap() error {
	return e.Err
}
