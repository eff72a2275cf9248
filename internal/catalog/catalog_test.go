package catalog

import (
	"testing"

	"brewbox/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefault(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default(DefaultStickerPrice)
	require.NoError(t, err)
	return c
}

func TestDefault_Contents(t *testing.T) {
	c := newDefault(t)

	assert.Equal(t,
		[]string{"Cappuccino", "Espresso", "Macchiato", "Black", "Americano", "Mocha"},
		c.ProductNames())
	assert.Len(t, c.Entries(), 18)
	assert.Equal(t, model.Cents(50), c.StickerPrice())

	recipe, err := c.Recipe("Cappuccino", "Large")
	require.NoError(t, err)
	assert.Equal(t, model.Requirements{model.Milk: 300, model.Water: 350, model.Coffee: 75}, recipe.Requirements)
	assert.Equal(t, model.Cents(500), recipe.Price)

	espresso, err := c.Recipe("Espresso", "Small")
	require.NoError(t, err)
	_, hasMilk := espresso.Requirements[model.Milk]
	assert.False(t, hasMilk, "espresso uses no milk")
}

func TestCatalog_Recipe_CaseInsensitive(t *testing.T) {
	c := newDefault(t)

	tests := []struct {
		name        string
		product     string
		size        string
		expected    string
		expectError bool
	}{
		{name: "Exact", product: "Mocha", size: "Medium", expected: "Mocha"},
		{name: "Lower case", product: "mocha", size: "medium", expected: "Mocha"},
		{name: "Mixed case and spaces", product: "  aMeRiCaNo ", size: " SMALL", expected: "Americano"},
		{name: "Unknown product", product: "Latte", size: "Large", expectError: true},
		{name: "Unknown size", product: "Mocha", size: "Venti", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipe, err := c.Recipe(tt.product, tt.size)
			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrInvalidSelection)
				assert.ErrorIs(t, err, model.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, recipe.Product)
		})
	}
}

func TestCatalog_FindProductAndSizes(t *testing.T) {
	c := newDefault(t)

	name, err := c.FindProduct("black")
	require.NoError(t, err)
	assert.Equal(t, "Black", name)

	sizes, err := c.SizeNames("BLACK")
	require.NoError(t, err)
	assert.Equal(t, []string{"Large", "Medium", "Small"}, sizes)

	_, err = c.FindProduct("tea")
	assert.ErrorIs(t, err, model.ErrInvalidSelection)
}

func TestCatalog_IsImmutable(t *testing.T) {
	c := newDefault(t)

	recipe, err := c.Recipe("Cappuccino", "Large")
	require.NoError(t, err)
	recipe.Requirements[model.Milk] = 1

	for _, r := range c.Recipes() {
		r.Requirements[model.Water] = 0
	}

	again, err := c.Recipe("Cappuccino", "Large")
	require.NoError(t, err)
	assert.Equal(t, int64(300), again.Requirements[model.Milk])
	assert.Equal(t, int64(350), again.Requirements[model.Water])
}

func TestNew_Validation(t *testing.T) {
	valid := Size{Name: "Large", Requirements: model.Requirements{model.Water: 10}, Price: 100}

	tests := []struct {
		name     string
		products []Product
		sticker  model.Cents
		errMatch string
	}{
		{name: "No products", products: nil, errMatch: "at least one product"},
		{name: "Negative sticker", products: []Product{{Name: "Tea", Sizes: []Size{valid}}}, sticker: -1, errMatch: "sticker price"},
		{name: "Empty product name", products: []Product{{Name: " ", Sizes: []Size{valid}}}, errMatch: "product name is required"},
		{
			name:     "Duplicate product",
			products: []Product{{Name: "Tea", Sizes: []Size{valid}}, {Name: "tea", Sizes: []Size{valid}}},
			errMatch: "duplicate product",
		},
		{name: "No sizes", products: []Product{{Name: "Tea"}}, errMatch: "has no sizes"},
		{
			name:     "Duplicate size",
			products: []Product{{Name: "Tea", Sizes: []Size{valid, valid}}},
			errMatch: "duplicate size",
		},
		{
			name:     "Negative price",
			products: []Product{{Name: "Tea", Sizes: []Size{{Name: "Large", Price: -1}}}},
			errMatch: "price must not be negative",
		},
		{
			name: "Negative ingredient",
			products: []Product{{Name: "Tea", Sizes: []Size{
				{Name: "Large", Requirements: model.Requirements{model.Water: -5}, Price: 100},
			}}},
			errMatch: "must not be negative",
		},
		{
			name: "Unknown ingredient",
			products: []Product{{Name: "Tea", Sizes: []Size{
				{Name: "Large", Requirements: model.Requirements{"cream": 5}, Price: 100},
			}}},
			errMatch: "unknown resource",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.products, tt.sticker)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMatch)
			assert.Nil(t, c)
		})
	}
}
