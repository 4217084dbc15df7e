package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL formats a value with the pt-BR conventions used on the order form:
// two decimals, comma as decimal separator and dot as thousands separator.
// FormatBRL(decimal.RequireFromString("1234.5")) == "1.234,50"
func FormatBRL(value decimal.Decimal) string {
	fixed := value.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if value.IsNegative() {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}

// brlAmount matches a non-negative amount with optional dot thousands groups
// and up to two decimals after the comma: "120", "1234,5", "1.234,56".
var brlAmount = regexp.MustCompile(`^(\d{1,3}(\.\d{3})+|\d+)(,\d{1,2})?$`)

// ParseBRL parses a pt-BR formatted amount such as "1.234,56" or "R$ 50,00".
// Dots are only accepted between groups of three digits, so "50.00" and
// "1.5" are rejected instead of being read as 5000 and 15.
func ParseBRL(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "R$"))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	if !brlAmount.MatchString(cleaned) {
		return decimal.Zero, fmt.Errorf("invalid amount %q, expected a value like 1.234,56", s)
	}
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.Replace(cleaned, ",", ".", 1)

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return value, nil
}
