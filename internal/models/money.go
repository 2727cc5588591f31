package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is a signed amount in minor currency units (cents).
// Positive balances mean the group owes the member money, negative
// balances mean the member owes the group.
type Money int64

// ParseDecimal converts a human-entered decimal string in major units
// (e.g. "25.22" euros) to minor units. Both '.' and ',' are accepted as
// decimal separator. Rounding is half away from zero.
func ParseDecimal(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumberFormat, s)
	}
	return Money(math.Round(f * 100)), nil
}

// String renders the amount in major units with two decimals, e.g.
// "25.22". Integer arithmetic only, so amounts beyond float64's exact
// range still render correctly.
func (m Money) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s%d.%02d", sign, m/100, m%100)
}
