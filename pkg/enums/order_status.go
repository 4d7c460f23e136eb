package enums

import (
	"fmt"
	"strings"
)

// OrderStatus tracks the lifecycle of a catering order.
type OrderStatus string

const (
	OrderStatusPendingReview OrderStatus = "PENDING_REVIEW"
	OrderStatusReceived      OrderStatus = "RECEIVED"
	OrderStatusAccepted      OrderStatus = "ACCEPTED"
	OrderStatusInProgress    OrderStatus = "IN_PROGRESS"
	OrderStatusReady         OrderStatus = "READY"
	OrderStatusCompleted     OrderStatus = "COMPLETED"
	OrderStatusCanceled      OrderStatus = "CANCELED"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPendingReview,
	OrderStatusReceived,
	OrderStatusAccepted,
	OrderStatusInProgress,
	OrderStatusReady,
	OrderStatusCompleted,
	OrderStatusCanceled,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// TimestampColumn returns the orders column stamped when the status is first entered.
// PENDING_REVIEW has no dedicated column.
func (s OrderStatus) TimestampColumn() string {
	switch s {
	case OrderStatusReceived:
		return "received_at"
	case OrderStatusAccepted:
		return "accepted_at"
	case OrderStatusInProgress:
		return "in_progress_at"
	case OrderStatusReady:
		return "ready_at"
	case OrderStatusCompleted:
		return "completed_at"
	case OrderStatusCanceled:
		return "canceled_at"
	}
	return ""
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validOrderStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
