// Package money converts between integer minor units and decimal amounts.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Dollars renders cents as a plain two-decimal amount ("32.00").
func Dollars(cents int64) string {
	return decimal.NewFromInt(cents).Div(hundred).StringFixed(2)
}

// FormatCents renders cents as a USD display string ("$32.00", "-$5.00").
func FormatCents(cents int64) string {
	if cents < 0 {
		return "-$" + Dollars(-cents)
	}
	return "$" + Dollars(cents)
}

// ParsePercent reads a percentage stored as a JSON number or string and
// rejects values outside 0..100.
func ParsePercent(v any) (decimal.Decimal, error) {
	var d decimal.Decimal
	switch val := v.(type) {
	case nil:
		return decimal.Zero, nil
	case float64:
		d = decimal.NewFromFloat(val)
	case int:
		d = decimal.NewFromInt(int64(val))
	case int64:
		d = decimal.NewFromInt(val)
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil {
			return decimal.Zero, fmt.Errorf("parse percent %q: %w", val, err)
		}
		d = parsed
	default:
		return decimal.Zero, fmt.Errorf("unsupported percent type %T", v)
	}
	if d.IsNegative() || d.GreaterThan(hundred) {
		return decimal.Zero, fmt.Errorf("percent %s out of range", d.String())
	}
	return d, nil
}

// ApplyPercent returns the cents share of percent, rounded half away from zero.
func ApplyPercent(cents int64, percent decimal.Decimal) int64 {
	return decimal.NewFromInt(cents).Mul(percent).Div(hundred).Round(0).IntPart()
}
