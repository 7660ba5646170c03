package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// amountPlaces is the display precision of ledger values.
const amountPlaces = 4

// FormatAmount renders a ledger value with fixed precision, e.g. "1.5000".
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(amountPlaces)
}

// ParseAmount parses a decimal amount from user input. Thousand separators
// ("1,000.5") and surrounding spaces are accepted.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("invalid amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}
