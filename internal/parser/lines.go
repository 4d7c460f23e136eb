package parser

import "strings"

// sectionHeaders terminate free-form blocks such as the delivery address.
var sectionHeaders = map[string]struct{}{
	"customer information": {},
	"item name":            {},
	"quantity":             {},
	"price":                {},
	"subtotal":             {},
	"tax":                  {},
	"total":                {},
}

// Lines is a read-only view over normalized text, one entry per line.
// Extractors share its label lookup and bounded forward scans instead of
// doing their own offset math.
type Lines []string

// SplitLines splits normalized text into Lines.
func SplitLines(text string) Lines {
	if text == "" {
		return nil
	}
	return Lines(strings.Split(text, "\n"))
}

// Key returns the trimmed, lower-cased content of line i.
func (l Lines) Key(i int) string {
	if i < 0 || i >= len(l) {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(l[i]))
}

// Find returns the index of the first line at or after from whose key equals
// one of labels, or -1.
func (l Lines) Find(from int, labels ...string) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(l); i++ {
		key := l.Key(i)
		for _, label := range labels {
			if key == label {
				return i
			}
		}
	}
	return -1
}

// NextNonBlank returns the index of the first non-blank line after i, or -1.
func (l Lines) NextNonBlank(i int) int {
	for j := i + 1; j < len(l); j++ {
		if strings.TrimSpace(l[j]) != "" {
			return j
		}
	}
	return -1
}

// Window collects up to n trimmed non-blank lines following i. Scanning stops
// before the first line for which stop returns true.
func (l Lines) Window(i, n int, stop func(key string) bool) []string {
	out := make([]string, 0, n)
	for j := i + 1; j < len(l) && len(out) < n; j++ {
		trimmed := strings.TrimSpace(l[j])
		if trimmed == "" {
			continue
		}
		if stop != nil && stop(strings.ToLower(trimmed)) {
			break
		}
		out = append(out, trimmed)
	}
	return out
}

func isSectionHeader(key string) bool {
	_, ok := sectionHeaders[key]
	return ok
}

func indentWidth(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}
