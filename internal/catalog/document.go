package catalog

import (
	"encoding/json"
	"fmt"
	"io"

	"brewbox/internal/model"
)

// Document is the on-disk catalog format. Prices are dollar strings so the
// file never carries binary floating point values.
//
//	{
//	  "stickerPrice": "0.50",
//	  "products": [
//	    {"name": "Cappuccino", "sizes": [
//	      {"name": "Large", "price": "5.00", "ingredients": {"milk": 300, "water": 350, "coffee": 75}}
//	    ]}
//	  ]
//	}
type Document struct {
	StickerPrice string            `json:"stickerPrice,omitempty"`
	Products     []ProductDocument `json:"products"`
}

// ProductDocument is one product of a Document.
type ProductDocument struct {
	Name  string         `json:"name"`
	Sizes []SizeDocument `json:"sizes"`
}

// SizeDocument is one size of a ProductDocument.
type SizeDocument struct {
	Name        string           `json:"name"`
	Price       string           `json:"price"`
	Ingredients map[string]int64 `json:"ingredients"`
}

// Decode reads a JSON Document from r and builds the catalog.
func Decode(r io.Reader) (*Catalog, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return doc.Build()
}

// Build converts the document into a validated catalog.
func (d Document) Build() (*Catalog, error) {
	sticker := DefaultStickerPrice
	if d.StickerPrice != "" {
		parsed, err := model.ParseCents(d.StickerPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid sticker price: %w", err)
		}
		sticker = parsed
	}

	products := make([]Product, 0, len(d.Products))
	for _, pd := range d.Products {
		sizes := make([]Size, 0, len(pd.Sizes))
		for _, sd := range pd.Sizes {
			price, err := model.ParseCents(sd.Price)
			if err != nil {
				return nil, fmt.Errorf("%s %s: invalid price: %w", sd.Name, pd.Name, err)
			}
			req := make(model.Requirements, len(sd.Ingredients))
			for name, qty := range sd.Ingredients {
				kind, err := model.ParseResourceKind(name)
				if err != nil {
					return nil, fmt.Errorf("%s %s: %w", sd.Name, pd.Name, err)
				}
				req[kind] += qty
			}
			sizes = append(sizes, Size{Name: sd.Name, Requirements: req, Price: price})
		}
		products = append(products, Product{Name: pd.Name, Sizes: sizes})
	}

	return New(products, sticker)
}

// ToDocument renders a catalog in the on-disk format.
func ToDocument(c *Catalog) Document {
	doc := Document{StickerPrice: c.stickerPrice.Dollars().StringFixed(2)}
	for _, p := range c.products {
		pd := ProductDocument{Name: p.Name}
		for _, s := range p.Sizes {
			ingredients := make(map[string]int64, len(s.Requirements))
			for kind, qty := range s.Requirements {
				ingredients[string(kind)] = qty
			}
			pd.Sizes = append(pd.Sizes, SizeDocument{
				Name:        s.Name,
				Price:       s.Price.Dollars().StringFixed(2),
				Ingredients: ingredients,
			})
		}
		doc.Products = append(doc.Products, pd)
	}
	return doc
}
