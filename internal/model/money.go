package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in minor currency units. All arithmetic on
// prices and tenders happens in Cents; decimal conversion is only done when
// formatting or parsing dollar strings.
type Cents int64

// String formats the amount as dollars, e.g. 505 → "$5.05".
func (c Cents) String() string {
	d := decimal.New(int64(c), -2)
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// Add returns c + other, or InvalidInput when the sum does not fit in
// Cents. Both amounts must be non-negative.
func (c Cents) Add(other Cents) (Cents, error) {
	if other > math.MaxInt64-c {
		return c, NewDomainError(ErrCodeInvalidInput, "amount too large")
	}
	return c + other, nil
}

// Dollars returns the amount as a decimal number of dollars.
func (c Cents) Dollars() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// ParseCents converts a dollar string such as "5.00", "$0.5" or "4" into
// Cents. More than two fractional digits are rejected rather than rounded.
func ParseCents(s string) (Cents, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "$")
	if raw == "" {
		return 0, NewDomainError(ErrCodeInvalidInput, "amount is empty")
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, NewDomainError(ErrCodeInvalidInput, fmt.Sprintf("invalid amount %q", s))
	}

	shifted := d.Shift(2)
	if !shifted.IsInteger() {
		return 0, NewDomainError(ErrCodeInvalidInput, fmt.Sprintf("amount %q has sub-cent precision", s))
	}

	return Cents(shifted.IntPart()), nil
}

// Denomination names a coin or note accepted by the machine.
type Denomination string

// Accepted denominations, in the order the machine asks for them.
const (
	Pennies  Denomination = "pennies"
	Nickels  Denomination = "nickels"
	Dimes    Denomination = "dimes"
	Quarters Denomination = "quarters"
	Dollars  Denomination = "dollars"
)

// Denominations lists accepted denominations in prompt order.
var Denominations = []Denomination{Pennies, Nickels, Dimes, Quarters, Dollars}

var denominationValues = map[Denomination]Cents{
	Pennies:  1,
	Nickels:  5,
	Dimes:    10,
	Quarters: 25,
	Dollars:  100,
}

// Value returns the worth of a single unit of d, false if d is unknown.
func (d Denomination) Value() (Cents, bool) {
	v, ok := denominationValues[d]
	return v, ok
}

// CoinTender is one batch of currency units inserted by the customer.
type CoinTender map[Denomination]int64

// Validate rejects negative counts and unknown denominations.
func (t CoinTender) Validate() error {
	for denom, count := range t {
		if _, ok := denom.Value(); !ok {
			return NewDomainError(ErrCodeInvalidInput, fmt.Sprintf("unknown denomination %q", denom))
		}
		if count < 0 {
			return NewDomainError(ErrCodeInvalidInput, fmt.Sprintf("%s count must not be negative", denom))
		}
	}
	return nil
}

// Total returns the value of the batch. The batch must be valid.
func (t CoinTender) Total() (Cents, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	var total Cents
	for denom, count := range t {
		value, _ := denom.Value()
		if Cents(count) > math.MaxInt64/value {
			return 0, NewDomainError(ErrCodeInvalidInput, fmt.Sprintf("too many %s", denom))
		}
		sum, err := total.Add(value * Cents(count))
		if err != nil {
			return 0, err
		}
		total = sum
	}
	return total, nil
}
