// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// MoneyScale is the number of fractional digits kept when averaging costs.
// Matches NUMERIC(15,4) storage semantics.
const MoneyScale int32 = 4

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// MoneyPtr returns a pointer to m. Convenient for optional prices.
func MoneyPtr(m Money) *Money {
	return &m
}

// MulInt multiplies a unit amount by an integer quantity.
func MulInt(m Money, qty int64) Money {
	return m.Mul(decimal.NewFromInt(qty))
}

// DivIntRound divides a total by an integer quantity, rounding half-up at
// MoneyScale digits. Division by zero returns zero: an average over an empty
// position has no cost basis.
func DivIntRound(m Money, qty int64) Money {
	if qty == 0 {
		return decimal.Zero
	}
	return m.DivRound(decimal.NewFromInt(qty), MoneyScale)
}
