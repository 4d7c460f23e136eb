package enums

import (
	"fmt"
	"strings"
)

// FulfillmentType captures how a catering order leaves the store.
type FulfillmentType string

const (
	FulfillmentPickup   FulfillmentType = "PICKUP"
	FulfillmentDelivery FulfillmentType = "DELIVERY"
	FulfillmentUnknown  FulfillmentType = "UNKNOWN"
)

var validFulfillmentTypes = []FulfillmentType{
	FulfillmentPickup,
	FulfillmentDelivery,
	FulfillmentUnknown,
}

// String implements fmt.Stringer.
func (f FulfillmentType) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FulfillmentType.
func (f FulfillmentType) IsValid() bool {
	for _, candidate := range validFulfillmentTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFulfillmentType converts raw input into a FulfillmentType.
func ParseFulfillmentType(value string) (FulfillmentType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validFulfillmentTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fulfillment type %q", value)
}
