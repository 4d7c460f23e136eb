package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const maxWholeDigits = 15

var (
	moneyPattern = regexp.MustCompile(`^(-)?\s*\$?\s*(-)?\s*(\d{1,3}(?:,\d{3})+|\d+)(?:\.(\d{1,2}))?$`)
	priceLine    = regexp.MustCompile(`^-?\s*\$\s*-?\s*(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{1,2})?$`)
	centsLine    = regexp.MustCompile(`^-?\s*(?:\d{1,3}(?:,\d{3})+|\d+)\.\d{1,2}$`)
)

// ToMinorUnits converts a money string such as "$1,234.5" into integer cents.
// A leading minus (before or after the currency symbol) negates the amount.
// Anything unparseable yields 0.
func ToMinorUnits(raw string) int64 {
	m := moneyPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0
	}
	whole := strings.ReplaceAll(m[3], ",", "")
	if len(whole) > maxWholeDigits {
		return 0
	}
	frac := m[4]
	for len(frac) < 2 {
		frac += "0"
	}
	amount, err := decimal.NewFromString(whole + "." + frac)
	if err != nil {
		return 0
	}
	cents := amount.Shift(2).IntPart()
	if m[1] != "" || m[2] != "" {
		cents = -cents
	}
	return cents
}

// isMoney reports whether s is a bare money amount, with or without "$".
func isMoney(s string) bool {
	return moneyPattern.MatchString(strings.TrimSpace(s))
}

// isPriceLine reports whether line is an item price: a "$"-prefixed amount, or
// a bare amount with a cents part. A bare integer is a quantity, never a price.
func isPriceLine(line string) bool {
	line = strings.TrimSpace(line)
	return priceLine.MatchString(line) || centsLine.MatchString(line)
}
