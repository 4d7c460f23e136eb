package payloads

import (
	"time"

	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
	"github.com/google/uuid"
)

// OrderCreatedEvent is emitted when an inbound email becomes an order.
type OrderCreatedEvent struct {
	OrderID         uuid.UUID             `json:"order_id"`
	IngestID        uuid.UUID             `json:"ingest_id"`
	MessageID       string                `json:"message_id"`
	Source          string                `json:"source"`
	Status          enums.OrderStatus     `json:"status"`
	FulfillmentType enums.FulfillmentType `json:"fulfillment_type"`
	StoreCode       *string               `json:"store_code,omitempty"`
	PickupTime      *time.Time            `json:"pickup_time,omitempty"`
	TotalCents      int64                 `json:"total_cents"`
	ItemCount       int                   `json:"item_count"`
}

// OrderStatusChangedEvent is emitted when staff move an order between statuses.
type OrderStatusChangedEvent struct {
	OrderID    uuid.UUID         `json:"order_id"`
	FromStatus enums.OrderStatus `json:"from_status"`
	ToStatus   enums.OrderStatus `json:"to_status"`
	Message    string            `json:"message"`
	ChangedAt  time.Time         `json:"changed_at"`
}

// IngestAbandonedEvent is emitted when the sweeper gives up on a stuck ingest.
type IngestAbandonedEvent struct {
	IngestID  uuid.UUID `json:"ingest_id"`
	MessageID string    `json:"message_id"`
	Reason    string    `json:"reason"`
}
