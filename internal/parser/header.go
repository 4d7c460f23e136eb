package parser

import (
	"regexp"
	"strings"

	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
)

var (
	storeCodeParens = regexp.MustCompile(`\((\d{4,6})\)`)
	storeCodeFor    = regexp.MustCompile(`(?i)\bfor\s+(\d{4,6})\b`)
	subjectCustomer = regexp.MustCompile(`(?i)catering\s*order\s*-\s*(.+)$`)
	notesLine       = regexp.MustCompile(`(?im)\bnotes[ \t]*:[ \t]*(.+)$`)
)

// ExtractStoreCode returns the 4-6 digit store number found in parentheses,
// or else directly after the word "for".
func ExtractStoreCode(subject, body string) *string {
	haystack := subject + "\n" + body
	if m := storeCodeParens.FindStringSubmatch(haystack); m != nil {
		return stringPtr(m[1])
	}
	if m := storeCodeFor.FindStringSubmatch(haystack); m != nil {
		return stringPtr(m[1])
	}
	return nil
}

// ExtractFulfillment classifies the order by phrase, delivery phrases first.
func ExtractFulfillment(subject, body string) enums.FulfillmentType {
	haystack := strings.ToLower(subject + "\n" + body)
	switch {
	case strings.Contains(haystack, "catering delivery"), strings.Contains(haystack, "delivery order"):
		return enums.FulfillmentDelivery
	case strings.Contains(haystack, "pickup order"), strings.Contains(haystack, "catering pickup"):
		return enums.FulfillmentPickup
	default:
		return enums.FulfillmentUnknown
	}
}

// CustomerNameFromSubject handles the "Catering Order - Jane Doe" subject form.
func CustomerNameFromSubject(subject string) *string {
	m := subjectCustomer.FindStringSubmatch(strings.TrimSpace(subject))
	if m == nil {
		return nil
	}
	return stringPtr(strings.TrimSpace(m[1]))
}

// ExtractCustomerNotes returns the text of the first "notes:" line.
func ExtractCustomerNotes(text string) *string {
	m := notesLine.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return stringPtr(strings.TrimSpace(m[1]))
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
