package model

import (
	"fmt"
	"sort"
	"strings"
)

// ResourceKind identifies a consumable tracked by the inventory ledger.
type ResourceKind string

// Consumables stocked by the machine.
const (
	Milk        ResourceKind = "milk"
	Water       ResourceKind = "water"
	Coffee      ResourceKind = "coffee"
	SugarPacket ResourceKind = "sugar_packets"
)

// ResourceKinds lists every known resource in report order.
var ResourceKinds = []ResourceKind{Milk, Water, Coffee, SugarPacket}

var resourceAliases = map[string]ResourceKind{
	"milk":          Milk,
	"water":         Water,
	"coffee":        Coffee,
	"sugar_packets": SugarPacket,
	"sugar packets": SugarPacket,
	"sugar-packets": SugarPacket,
	"sugar":         SugarPacket,
}

// ParseResourceKind resolves a resource name case-insensitively.
func ParseResourceKind(name string) (ResourceKind, error) {
	kind, ok := resourceAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", NewDomainError(ErrCodeInvalidInput, fmt.Sprintf("unknown resource %q", name))
	}
	return kind, nil
}

// Valid reports whether k is one of the known resource kinds.
func (k ResourceKind) Valid() bool {
	for _, known := range ResourceKinds {
		if k == known {
			return true
		}
	}
	return false
}

// DisplayName returns the human readable resource name.
func (k ResourceKind) DisplayName() string {
	switch k {
	case Milk:
		return "Milk"
	case Water:
		return "Water"
	case Coffee:
		return "Coffee"
	case SugarPacket:
		return "Sugar Packets"
	default:
		return string(k)
	}
}

// Unit returns the display unit. Quantities are always whole units.
func (k ResourceKind) Unit() string {
	switch k {
	case Coffee:
		return "g"
	case SugarPacket:
		return "packets"
	default:
		return "ml"
	}
}

// Format renders a quantity of this resource with its unit, e.g. "300ml".
func (k ResourceKind) Format(quantity int64) string {
	if k == SugarPacket {
		return fmt.Sprintf("%d %s", quantity, k.Unit())
	}
	return fmt.Sprintf("%d%s", quantity, k.Unit())
}

// order returns the report position of k, unknown kinds sort last.
func (k ResourceKind) order() int {
	for i, known := range ResourceKinds {
		if k == known {
			return i
		}
	}
	return len(ResourceKinds)
}

// Less orders resource kinds by report position, then by name.
func (k ResourceKind) Less(other ResourceKind) bool {
	if k.order() != other.order() {
		return k.order() < other.order()
	}
	return k < other
}

// Requirements maps a resource to the quantity an operation consumes.
type Requirements map[ResourceKind]int64

// Kinds returns the resources in r in report order.
func (r Requirements) Kinds() []ResourceKind {
	kinds := make([]ResourceKind, 0, len(r))
	for _, kind := range ResourceKinds {
		if _, ok := r[kind]; ok {
			kinds = append(kinds, kind)
		}
	}
	var unknown []ResourceKind
	for kind := range r {
		if !kind.Valid() {
			unknown = append(unknown, kind)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	return append(kinds, unknown...)
}

// Clone returns an independent copy of r.
func (r Requirements) Clone() Requirements {
	out := make(Requirements, len(r))
	for kind, qty := range r {
		out[kind] = qty
	}
	return out
}

// Shortage describes a resource that cannot cover a requirement.
type Shortage struct {
	Kind      ResourceKind `json:"kind"`
	Required  int64        `json:"required"`
	Available int64        `json:"available"`
}

// String renders the shortage the way the machine reports it.
func (s Shortage) String() string {
	return fmt.Sprintf("Not enough %s! Needed: %s, Available: %s",
		s.Kind.DisplayName(), s.Kind.Format(s.Required), s.Kind.Format(s.Available))
}

// InventoryItem is a single line of the inventory report.
type InventoryItem struct {
	Kind     ResourceKind `json:"kind"`
	Name     string       `json:"name"`
	Unit     string       `json:"unit"`
	Quantity int64        `json:"quantity"`
}

// InventoryReport lists every resource with its current quantity.
type InventoryReport struct {
	Resources []InventoryItem `json:"resources"`
}

// Quantity returns the reported amount for kind, 0 when absent.
func (r InventoryReport) Quantity(kind ResourceKind) int64 {
	for _, item := range r.Resources {
		if item.Kind == kind {
			return item.Quantity
		}
	}
	return 0
}

// RefillRequest adds Amount of Resource to the machine.
type RefillRequest struct {
	Resource string `json:"resource"`
	Amount   int64  `json:"amount"`
}

// RefillResponse reports the stock after a refill.
type RefillResponse struct {
	Resource ResourceKind `json:"resource"`
	Unit     string       `json:"unit"`
	Quantity int64        `json:"quantity"`
}
