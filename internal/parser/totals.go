package parser

import "strings"

// Totals are the order money lines in minor units.
type Totals struct {
	SubtotalCents int64
	TaxCents      int64
	TotalCents    int64
}

// ExtractTotals reads the subtotal, tax and total amounts. Missing or
// unparseable amounts are 0.
func ExtractTotals(lines Lines) Totals {
	return Totals{
		SubtotalCents: amountFor(lines, "subtotal"),
		TaxCents:      amountFor(lines, "tax"),
		TotalCents:    amountFor(lines, "total"),
	}
}

// amountFor finds the first line labelled label and reads the amount either
// inline ("Total: $49.82") or from the next non-blank line.
func amountFor(lines Lines, label string) int64 {
	for i := range lines {
		key := lines.Key(i)
		if key == label {
			next := lines.NextNonBlank(i)
			if next < 0 {
				return 0
			}
			return ToMinorUnits(lines[next])
		}
		if rest, ok := inlineAmount(key, label); ok {
			return ToMinorUnits(rest)
		}
	}
	return 0
}

// inlineAmount splits "label: amount" and "label amount" forms.
func inlineAmount(key, label string) (string, bool) {
	rest, ok := strings.CutPrefix(key, label)
	if !ok || rest == "" {
		return "", false
	}
	if rest[0] != ':' && rest[0] != ' ' {
		return "", false
	}
	rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
	if !isMoney(rest) {
		return "", false
	}
	return rest, true
}
