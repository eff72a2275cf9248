package catalog

import (
	"fmt"
	"strings"

	"brewbox/internal/model"
)

// Size is one orderable size of a product.
type Size struct {
	Name         string
	Requirements model.Requirements
	Price        model.Cents
}

// Product is a drink with its sizes in menu order.
type Product struct {
	Name  string
	Sizes []Size
}

// Catalog is the immutable recipe table. Accessors return copies so callers
// cannot mutate it after construction.
type Catalog struct {
	products     []Product
	stickerPrice model.Cents
}

// DefaultStickerPrice is the personalised sticker surcharge.
const DefaultStickerPrice model.Cents = 50

// New validates the products and builds a catalog.
func New(products []Product, stickerPrice model.Cents) (*Catalog, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("catalog must contain at least one product")
	}
	if stickerPrice < 0 {
		return nil, fmt.Errorf("sticker price must not be negative")
	}

	seenProducts := make(map[string]bool, len(products))
	out := make([]Product, 0, len(products))
	for _, p := range products {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, fmt.Errorf("product name is required")
		}
		key := strings.ToLower(name)
		if seenProducts[key] {
			return nil, fmt.Errorf("duplicate product %q", name)
		}
		seenProducts[key] = true

		if len(p.Sizes) == 0 {
			return nil, fmt.Errorf("product %q has no sizes", name)
		}

		seenSizes := make(map[string]bool, len(p.Sizes))
		sizes := make([]Size, 0, len(p.Sizes))
		for _, s := range p.Sizes {
			sizeName := strings.TrimSpace(s.Name)
			if sizeName == "" {
				return nil, fmt.Errorf("product %q: size name is required", name)
			}
			if seenSizes[strings.ToLower(sizeName)] {
				return nil, fmt.Errorf("product %q: duplicate size %q", name, sizeName)
			}
			seenSizes[strings.ToLower(sizeName)] = true

			if s.Price < 0 {
				return nil, fmt.Errorf("%s %s: price must not be negative", sizeName, name)
			}
			for kind, qty := range s.Requirements {
				if !kind.Valid() {
					return nil, fmt.Errorf("%s %s: unknown resource %q", sizeName, name, kind)
				}
				if qty < 0 {
					return nil, fmt.Errorf("%s %s: %s quantity must not be negative", sizeName, name, kind)
				}
			}

			sizes = append(sizes, Size{
				Name:         sizeName,
				Requirements: s.Requirements.Clone(),
				Price:        s.Price,
			})
		}

		out = append(out, Product{Name: name, Sizes: sizes})
	}

	return &Catalog{products: out, stickerPrice: stickerPrice}, nil
}

// StickerPrice returns the sticker surcharge.
func (c *Catalog) StickerPrice() model.Cents {
	return c.stickerPrice
}

// ProductNames returns product names in menu order.
func (c *Catalog) ProductNames() []string {
	names := make([]string, len(c.products))
	for i, p := range c.products {
		names[i] = p.Name
	}
	return names
}

// FindProduct resolves a product name case-insensitively and returns its
// canonical name.
func (c *Catalog) FindProduct(name string) (string, error) {
	p, ok := c.product(name)
	if !ok {
		return "", model.NewDomainError(model.ErrCodeInvalidSelection,
			fmt.Sprintf("unknown product %q", strings.TrimSpace(name)))
	}
	return p.Name, nil
}

// SizeNames returns the sizes of a product in menu order.
func (c *Catalog) SizeNames(product string) ([]string, error) {
	p, ok := c.product(product)
	if !ok {
		return nil, model.NewDomainError(model.ErrCodeInvalidSelection,
			fmt.Sprintf("unknown product %q", strings.TrimSpace(product)))
	}
	names := make([]string, len(p.Sizes))
	for i, s := range p.Sizes {
		names[i] = s.Name
	}
	return names, nil
}

// Recipe resolves a product and size case-insensitively.
func (c *Catalog) Recipe(product, size string) (model.Recipe, error) {
	p, ok := c.product(product)
	if !ok {
		return model.Recipe{}, model.NewDomainError(model.ErrCodeInvalidSelection,
			fmt.Sprintf("unknown product %q", strings.TrimSpace(product)))
	}

	want := strings.ToLower(strings.TrimSpace(size))
	for _, s := range p.Sizes {
		if strings.ToLower(s.Name) == want {
			return model.Recipe{
				Product:      p.Name,
				Size:         s.Name,
				Requirements: s.Requirements.Clone(),
				Price:        s.Price,
			}, nil
		}
	}

	return model.Recipe{}, model.NewDomainError(model.ErrCodeInvalidSelection,
		fmt.Sprintf("unknown size %q for %s", strings.TrimSpace(size), p.Name))
}

// Recipes returns every product size in menu order.
func (c *Catalog) Recipes() []model.Recipe {
	var recipes []model.Recipe
	for _, p := range c.products {
		for _, s := range p.Sizes {
			recipes = append(recipes, model.Recipe{
				Product:      p.Name,
				Size:         s.Name,
				Requirements: s.Requirements.Clone(),
				Price:        s.Price,
			})
		}
	}
	return recipes
}

// Entries returns the menu as (product, size, price) lines.
func (c *Catalog) Entries() []model.MenuEntry {
	recipes := c.Recipes()
	entries := make([]model.MenuEntry, len(recipes))
	for i, r := range recipes {
		entries[i] = model.MenuEntry{
			Product:    r.Product,
			Size:       r.Size,
			Price:      r.Price.String(),
			PriceCents: r.Price,
		}
	}
	return entries
}

func (c *Catalog) product(name string) (Product, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, p := range c.products {
		if strings.ToLower(p.Name) == want {
			return p, true
		}
	}
	return Product{}, false
}
