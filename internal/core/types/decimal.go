// Package types provides numeric value types shared by view-models.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// NonNegative clamps m to zero when it is below zero.
func NonNegative(m Money) Money {
	if m.IsNegative() {
		return decimal.Zero
	}
	return m
}

// Quantity is a stock quantity held as an exact decimal.
//
// Aggregates never overflow or round while summing; JSON stays a plain number
// with at least 4 fractional digits.
type Quantity struct {
	d decimal.Decimal
}

// QuantityDigits is the minimum number of fractional digits rendered.
const QuantityDigits int32 = 4

func NewQuantity(d decimal.Decimal) Quantity { return Quantity{d: d} }

func (q Quantity) Float64() float64 { return q.d.InexactFloat64() }

func (q Quantity) IsPositive() bool { return q.d.IsPositive() }

func (q Quantity) Add(o Quantity) Quantity { return Quantity{d: q.d.Add(o.d)} }

// Decimal returns the exact value.
func (q Quantity) Decimal() decimal.Decimal { return q.d }

// Mul multiplies a unit price by this quantity.
func (q Quantity) Mul(price Money) Money {
	return price.Mul(q.d)
}

// String pads to 4 fractional digits and keeps any finer digits.
func (q Quantity) String() string {
	if q.d.Exponent() >= -QuantityDigits {
		return q.d.StringFixed(QuantityDigits)
	}
	return q.d.String()
}

// MarshalJSON encodes Quantity as JSON number (not string).
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.String()), nil
}
