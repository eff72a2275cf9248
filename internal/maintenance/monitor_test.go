package maintenance

import (
	"testing"

	"brewbox/internal/catalog"
	"brewbox/internal/inventory"
	"brewbox/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMonitor(t *testing.T, stock map[model.ResourceKind]int64) (*Monitor, *inventory.Ledger) {
	t.Helper()

	c, err := catalog.Default(catalog.DefaultStickerPrice)
	require.NoError(t, err)
	l, err := inventory.NewLedger(stock, zerolog.Nop())
	require.NoError(t, err)

	return NewMonitor(c, l), l
}

func TestMonitor_BlockingShortages(t *testing.T) {
	tests := []struct {
		name     string
		stock    map[model.ResourceKind]int64
		expected []model.ResourceKind
	}{
		{
			name:     "Fully stocked",
			stock:    inventory.DefaultStock(),
			expected: []model.ResourceKind{},
		},
		{
			name:     "Exactly enough for the largest recipe",
			stock:    map[model.ResourceKind]int64{model.Milk: 300, model.Water: 350, model.Coffee: 75, model.SugarPacket: 1},
			expected: []model.ResourceKind{},
		},
		{
			name:     "Sugar exhausted while every recipe is makeable",
			stock:    map[model.ResourceKind]int64{model.Milk: 8000, model.Water: 5000, model.Coffee: 600, model.SugarPacket: 0},
			expected: []model.ResourceKind{model.SugarPacket},
		},
		{
			name:     "Milk below the large cappuccino only",
			stock:    map[model.ResourceKind]int64{model.Milk: 299, model.Water: 5000, model.Coffee: 600, model.SugarPacket: 10},
			expected: []model.ResourceKind{model.Milk},
		},
		{
			name:     "Everything empty",
			stock:    map[model.ResourceKind]int64{},
			expected: []model.ResourceKind{model.Milk, model.Water, model.Coffee, model.SugarPacket},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newMonitor(t, tt.stock)

			assert.Equal(t, tt.expected, m.BlockingShortages())
			assert.Equal(t, len(tt.expected) == 0, m.FullyStocked())
		})
	}
}

func TestMonitor_AnyRecipeShortBlocksEverything(t *testing.T) {
	m, l := newMonitor(t, inventory.DefaultStock())
	require.True(t, m.FullyStocked())

	// Drain coffee down to 74g: only the 75g large cappuccino is unmakeable.
	require.NoError(t, l.Deduct(model.Requirements{model.Coffee: 600 - 74}))

	status := m.Status()
	assert.False(t, status.Operational)
	assert.True(t, status.AnyAvailable)
	assert.Equal(t, []model.ResourceKind{model.Coffee}, status.Shortages)
}

func TestMonitor_AnyAvailable(t *testing.T) {
	tests := []struct {
		name     string
		stock    map[model.ResourceKind]int64
		expected bool
	}{
		{name: "Fully stocked", stock: inventory.DefaultStock(), expected: true},
		{name: "Only a small espresso possible", stock: map[model.ResourceKind]int64{model.Water: 40, model.Coffee: 25, model.SugarPacket: 1}, expected: true},
		{name: "No sugar", stock: map[model.ResourceKind]int64{model.Milk: 8000, model.Water: 5000, model.Coffee: 600}, expected: false},
		{name: "Nothing makeable", stock: map[model.ResourceKind]int64{model.Water: 10, model.SugarPacket: 5}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newMonitor(t, tt.stock)
			assert.Equal(t, tt.expected, m.AnyAvailable())
		})
	}
}

func TestMonitor_RefillClearsMaintenance(t *testing.T) {
	m, l := newMonitor(t, map[model.ResourceKind]int64{model.Milk: 8000, model.Water: 5000, model.Coffee: 600})
	require.Equal(t, []model.ResourceKind{model.SugarPacket}, m.BlockingShortages())

	_, err := l.Replenish(model.SugarPacket, 20)
	require.NoError(t, err)

	assert.Empty(t, m.BlockingShortages())
}
