package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL renders a decimal as a Brazilian currency string ("R$ 1.234,56").
// Display formatting lives at the presentation boundary only; the engine
// itself always hands out raw decimals.
func FormatBRL(value decimal.Decimal) string {
	s := value.StringFixed(2)

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := "R$ " + strings.Join(groups, ".") + "," + fracPart
	if negative {
		out = "-" + out
	}
	return out
}

// FormatPercent renders a decimal percentage ("11.48%"). Nil means the value
// is undefined and is shown as "N/A".
func FormatPercent(value *decimal.Decimal) string {
	if value == nil {
		return "N/A"
	}
	return value.StringFixed(2) + "%"
}
