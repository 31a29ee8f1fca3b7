package fec

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencyMarks = strings.NewReplacer(
	"€", "", "$", "", "£", "", "¥", "", "₣", "",
	"FCFA", "", "fcfa", "",
)

// ParseAmount reads a monetary value in the formats seen in real export
// files: "1 234,56", "1.234,56", "1,234.56", "(500)" for negatives, with or
// without a currency mark. An empty value is zero. The result is an exact
// decimal; binary floating point is never involved.
func ParseAmount(value string) (decimal.Decimal, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.TrimSpace(currencyMarks.Replace(s))
	// spaces and non-breaking spaces are thousands separators
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		parts := strings.Split(s, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			// decimal comma: 1234,56
			s = parts[0] + "." + parts[1]
		} else {
			// thousands commas: 1,234,567
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	return decimal.NewFromString(s)
}
