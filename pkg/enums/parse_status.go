package enums

import (
	"fmt"
	"strings"
)

// ParseStatus is the terminal outcome recorded on an email ingest row.
type ParseStatus string

const (
	ParseStatusNeedsReview ParseStatus = "NEEDS_REVIEW"
	ParseStatusSuccess     ParseStatus = "SUCCESS"
	ParseStatusFailed      ParseStatus = "FAILED"
)

var validParseStatuses = []ParseStatus{
	ParseStatusNeedsReview,
	ParseStatusSuccess,
	ParseStatusFailed,
}

// String implements fmt.Stringer.
func (p ParseStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ParseStatus.
func (p ParseStatus) IsValid() bool {
	for _, candidate := range validParseStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseParseStatus converts raw input into a ParseStatus.
func ParseParseStatus(value string) (ParseStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validParseStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid parse status %q", value)
}
