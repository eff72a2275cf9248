package inventory

import (
	"fmt"
	"math"
	"sync"

	"brewbox/internal/model"

	"github.com/rs/zerolog"
)

// DefaultStock is the machine's stock when it is switched on.
func DefaultStock() map[model.ResourceKind]int64 {
	return map[model.ResourceKind]int64{
		model.Milk:        8000,
		model.Water:       5000,
		model.Coffee:      600,
		model.SugarPacket: 100,
	}
}

// Ledger holds the quantity of every consumable. Quantities never go below
// zero: every mutation is validated in full before it is applied, under the
// same lock.
type Ledger struct {
	mu     sync.RWMutex
	stock  map[model.ResourceKind]int64
	logger zerolog.Logger
}

// NewLedger creates a ledger with the given initial stock. Every known
// resource kind gets an entry, missing ones start at zero.
func NewLedger(initial map[model.ResourceKind]int64, logger zerolog.Logger) (*Ledger, error) {
	stock := make(map[model.ResourceKind]int64, len(model.ResourceKinds))
	for _, kind := range model.ResourceKinds {
		stock[kind] = 0
	}
	for kind, qty := range initial {
		if !kind.Valid() {
			return nil, fmt.Errorf("unknown resource %q", kind)
		}
		if qty < 0 {
			return nil, fmt.Errorf("initial %s stock must not be negative", kind)
		}
		stock[kind] = qty
	}

	return &Ledger{
		stock:  stock,
		logger: logger.With().Str("component", "ledger").Logger(),
	}, nil
}

// Available returns the current stock of kind, 0 if unknown.
func (l *Ledger) Available(kind model.ResourceKind) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stock[kind]
}

// CanFulfill reports whether every requirement is covered by current stock.
func (l *Ledger) CanFulfill(req model.Requirements) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.shortagesLocked(req)) == 0
}

// Shortages returns the requirements current stock cannot cover.
func (l *Ledger) Shortages(req model.Requirements) []model.Shortage {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.shortagesLocked(req)
}

// Deduct removes every requirement from stock, or nothing at all.
func (l *Ledger) Deduct(req model.Requirements) error {
	if err := validateRequirements(req); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if shortages := l.shortagesLocked(req); len(shortages) > 0 {
		l.logger.Debug().
			Int("shortages", len(shortages)).
			Msg("deduction rejected")
		return &model.StockError{Shortages: shortages}
	}

	for kind, qty := range req {
		l.stock[kind] -= qty
	}

	l.logger.Debug().
		Interface("deducted", req).
		Msg("stock deducted")

	return nil
}

// Replenish adds amount of kind and returns the new quantity. Refills that
// would overflow the quantity are rejected.
func (l *Ledger) Replenish(kind model.ResourceKind, amount int64) (int64, error) {
	if !kind.Valid() {
		return 0, model.NewDomainError(model.ErrCodeInvalidInput, fmt.Sprintf("unknown resource %q", kind))
	}
	if amount < 0 {
		return 0, model.NewDomainError(model.ErrCodeInvalidInput,
			fmt.Sprintf("refill amount for %s must not be negative", kind.DisplayName()))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if amount > math.MaxInt64-l.stock[kind] {
		return l.stock[kind], model.NewDomainError(model.ErrCodeInvalidInput,
			fmt.Sprintf("refill of %d would overflow %s", amount, kind.DisplayName()))
	}
	l.stock[kind] += amount

	l.logger.Debug().
		Str("resource", string(kind)).
		Int64("amount", amount).
		Int64("quantity", l.stock[kind]).
		Msg("stock replenished")

	return l.stock[kind], nil
}

// Snapshot returns a copy of every quantity.
func (l *Ledger) Snapshot() map[model.ResourceKind]int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[model.ResourceKind]int64, len(l.stock))
	for kind, qty := range l.stock {
		out[kind] = qty
	}
	return out
}

// Report returns the inventory in report order with units.
func (l *Ledger) Report() model.InventoryReport {
	snapshot := l.Snapshot()

	items := make([]model.InventoryItem, 0, len(model.ResourceKinds))
	for _, kind := range model.ResourceKinds {
		items = append(items, model.InventoryItem{
			Kind:     kind,
			Name:     kind.DisplayName(),
			Unit:     kind.Unit(),
			Quantity: snapshot[kind],
		})
	}
	return model.InventoryReport{Resources: items}
}

func (l *Ledger) shortagesLocked(req model.Requirements) []model.Shortage {
	var shortages []model.Shortage
	for _, kind := range req.Kinds() {
		need := req[kind]
		if have := l.stock[kind]; have < need {
			shortages = append(shortages, model.Shortage{Kind: kind, Required: need, Available: have})
		}
	}
	return shortages
}

func validateRequirements(req model.Requirements) error {
	for kind, qty := range req {
		if !kind.Valid() {
			return model.NewDomainError(model.ErrCodeInvalidInput, fmt.Sprintf("unknown resource %q", kind))
		}
		if qty < 0 {
			return model.NewDomainError(model.ErrCodeInvalidInput,
				fmt.Sprintf("%s requirement must not be negative", kind.DisplayName()))
		}
	}
	return nil
}
