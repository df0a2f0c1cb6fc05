// Package core holds the domain model shared by the normalizer, the analyzer
// and the renderer: transactions, money amounts and the report structure.
package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an amount in cents. All arithmetic happens on cents to avoid
// floating-point drift; floats only appear at the API boundary.
type Money struct {
	Cents int64
}

// NewMoneyFromFloat converts a yuan amount to cents, rounding to two decimal
// places. Rounding is half away from zero (decimal.Round), so 15.005 becomes
// 15.01.
func NewMoneyFromFloat(amount float64) Money {
	return Money{Cents: decimal.NewFromFloat(amount).Round(2).Shift(2).IntPart()}
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// GreaterThan reports whether m is strictly larger than other.
func (m Money) GreaterThan(other Money) bool {
	return m.Cents > other.Cents
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Cents < 0
}

// Yuan returns the amount as a float64 for display purposes only.
func (m Money) Yuan() float64 {
	return float64(m.Cents) / 100.0
}

// String formats the amount as a plain decimal, e.g. "35.00".
func (m Money) String() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
