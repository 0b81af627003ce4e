package game

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in cents. Balances and stakes are whole cents, so
// payouts never drift the way float balances do.
type Money int64

// Unit is one whole currency unit
const Unit Money = 100

// Units converts a whole number of currency units to Money
func Units(n int64) Money {
	return Money(n) * Unit
}

// String formats the amount as dollars, e.g. "$12.50" or "-$3.00"
func (m Money) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s$%d.%02d", sign, m/Unit, m%Unit)
}

// Float returns the amount in whole units
func (m Money) Float() float64 {
	return float64(m) / float64(Unit)
}

// ParseMoney parses "12", "12.5", "$12.50" into Money. Fractions of a cent
// are rounded to the nearest cent.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	cents := math.Round(f * float64(Unit))
	if cents >= math.MaxInt64 || cents < math.MinInt64 {
		return 0, fmt.Errorf("amount %q out of range", s)
	}
	return Money(cents), nil
}

// Clamp limits m to [lo, hi]
func Clamp(m, lo, hi Money) Money {
	return max(lo, min(m, hi))
}
