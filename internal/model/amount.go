package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrBadAmount is returned by ParseAmount for input that is not a number.
var ErrBadAmount = errors.New("not a valid amount")

// ParseAmount reads user-entered money such as "1,234.50" or "$42".
// Sign handling is left to the caller.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.ReplaceAll(clean, "_", "")
	if clean == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrBadAmount, s)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrBadAmount, s)
	}
	return d, nil
}
