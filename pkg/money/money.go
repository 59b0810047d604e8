package money

import (
	"fmt"
	"math"
)

// Amount is a monetary value stored as a count of paisa (1/100 rupee).
// Keeping amounts integral means repeated partial payments never accumulate
// binary floating point drift.
type Amount int64

// Zero is the zero amount.
const Zero Amount = 0

// FromFloat converts a rupee value to an Amount, rounding half away from zero.
func FromFloat(v float64) Amount {
	return Amount(math.Round(v * 100))
}

// FromRupees builds an Amount from whole rupees and paisa.
func FromRupees(rupees int64, paisa int64) Amount {
	return Amount(rupees*100 + paisa)
}

// Float64 returns the amount in rupees. Only for presentation; arithmetic
// stays on Amount.
func (a Amount) Float64() float64 {
	return float64(a) / 100
}

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool {
	return a > 0
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool {
	return a < 0
}

// String renders the amount with two decimal places.
func (a Amount) String() string {
	if a < 0 {
		return "-" + (-a).String()
	}
	return fmt.Sprintf("%d.%02d", a/100, a%100)
}

// Display renders the amount with the currency prefix, e.g. "Rs 1250.00".
func (a Amount) Display() string {
	return "Rs " + a.String()
}
