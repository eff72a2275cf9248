package catalog

import "brewbox/internal/model"

func size(name string, milk, water, coffee int64, price model.Cents) Size {
	req := model.Requirements{model.Water: water, model.Coffee: coffee}
	if milk > 0 {
		req[model.Milk] = milk
	}
	return Size{Name: name, Requirements: req, Price: price}
}

// DefaultProducts is the machine's built-in drink menu.
func DefaultProducts() []Product {
	return []Product{
		{Name: "Cappuccino", Sizes: []Size{
			size("Large", 300, 350, 75, 500),
			size("Medium", 200, 250, 50, 400),
			size("Small", 120, 150, 30, 300),
		}},
		{Name: "Espresso", Sizes: []Size{
			size("Large", 0, 60, 35, 450),
			size("Medium", 0, 50, 30, 350),
			size("Small", 0, 40, 25, 250),
		}},
		{Name: "Macchiato", Sizes: []Size{
			size("Large", 120, 70, 30, 550),
			size("Medium", 100, 60, 25, 450),
			size("Small", 80, 50, 20, 350),
		}},
		{Name: "Black", Sizes: []Size{
			size("Large", 0, 300, 30, 400),
			size("Medium", 0, 220, 25, 300),
			size("Small", 0, 150, 20, 200),
		}},
		{Name: "Americano", Sizes: []Size{
			size("Large", 0, 350, 30, 450),
			size("Medium", 0, 250, 25, 350),
			size("Small", 0, 180, 20, 250),
		}},
		{Name: "Mocha", Sizes: []Size{
			size("Large", 180, 150, 35, 600),
			size("Medium", 140, 120, 30, 500),
			size("Small", 100, 100, 25, 400),
		}},
	}
}

// Default returns the built-in catalog with the given sticker surcharge.
func Default(stickerPrice model.Cents) (*Catalog, error) {
	return New(DefaultProducts(), stickerPrice)
}
