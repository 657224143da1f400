// Package money converts between minor units and display amounts.
package money

import (
	"fmt"
	"strings"

	"farmstore/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Symbol returns the currency sign used in customer-facing text.
func Symbol(c domain.Currency) string {
	if c == domain.CurrencyUSD {
		return "$"
	}
	return "₦"
}

// Format renders minor units as "₦7,000" or "$12.50". Fractions are
// shown only when non-zero.
func Format(minor int64, c domain.Currency) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	whole := printer.Sprintf("%d", minor/100)
	if frac := minor % 100; frac != 0 {
		return fmt.Sprintf("%s%s%s.%02d", sign, Symbol(c), whole, frac)
	}
	return sign + Symbol(c) + whole
}

// Major returns minor units as a decimal in major units.
func Major(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// ParseMajor converts a major-unit string such as "3500" or "12.50" to minor
// units. More than two fractional digits is rejected.
func ParseMajor(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount %q must not be negative", s)
	}
	minor := d.Shift(2)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	return minor.IntPart(), nil
}
