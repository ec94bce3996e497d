package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MajorToMinorUnits converts a decimal price in major currency units
// to minor units, rounding half away from zero.
func MajorToMinorUnits(price string) (int64, error) {
	price = strings.TrimSpace(price)
	if price == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidPrice)
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, price)
	}
	return d.Mul(hundred).Round(0).IntPart(), nil
}
