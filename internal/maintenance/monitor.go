// Package maintenance derives the machine's maintenance state from the
// recipe catalog and the inventory ledger.
package maintenance

import (
	"sort"

	"brewbox/internal/model"
)

// RecipeSource lists every recipe the machine offers.
type RecipeSource interface {
	Recipes() []model.Recipe
}

// StockView is the read-only part of the inventory ledger.
type StockView interface {
	Available(kind model.ResourceKind) int64
	CanFulfill(req model.Requirements) bool
}

// Monitor reports shortages that block service.
type Monitor struct {
	recipes RecipeSource
	stock   StockView
	addOn   model.ResourceKind
}

// NewMonitor creates a monitor. Sugar packets are the add-on resource.
func NewMonitor(recipes RecipeSource, stock StockView) *Monitor {
	return &Monitor{recipes: recipes, stock: stock, addOn: model.SugarPacket}
}

// BlockingShortages returns every resource that cannot cover at least one
// recipe, plus the add-on resource when it has run out. An empty result
// means every catalog entry can be made.
func (m *Monitor) BlockingShortages() []model.ResourceKind {
	missing := make(map[model.ResourceKind]bool)

	for _, recipe := range m.recipes.Recipes() {
		for kind, need := range recipe.Requirements {
			if m.stock.Available(kind) < need {
				missing[kind] = true
			}
		}
	}

	if m.stock.Available(m.addOn) <= 0 {
		missing[m.addOn] = true
	}

	kinds := make([]model.ResourceKind, 0, len(missing))
	for kind := range missing {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i].Less(kinds[j]) })
	return kinds
}

// FullyStocked reports whether every catalog entry can be made.
func (m *Monitor) FullyStocked() bool {
	return len(m.BlockingShortages()) == 0
}

// AnyAvailable reports whether at least one catalog entry can be made
// right now, add-on stock included.
func (m *Monitor) AnyAvailable() bool {
	if m.stock.Available(m.addOn) <= 0 {
		return false
	}
	for _, recipe := range m.recipes.Recipes() {
		if m.stock.CanFulfill(recipe.Requirements) {
			return true
		}
	}
	return false
}

// Status combines both predicates with the shortage list.
func (m *Monitor) Status() model.MaintenanceStatus {
	shortages := m.BlockingShortages()
	return model.MaintenanceStatus{
		Operational:  len(shortages) == 0,
		AnyAvailable: m.AnyAvailable(),
		Shortages:    shortages,
	}
}
