package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
)

// Order is a catering order reconstructed from an inbound message.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Source          string                `gorm:"column:source;not null"`
	StoreCode       *string               `gorm:"column:store_code"`
	FulfillmentType enums.FulfillmentType `gorm:"column:fulfillment_type;not null;default:'UNKNOWN'"`
	CustomerName    *string               `gorm:"column:customer_name"`
	CustomerEmail   *string               `gorm:"column:customer_email"`
	CustomerPhone   *string               `gorm:"column:customer_phone"`
	GuestCount      *int                  `gorm:"column:guest_count"`
	PaperGoods      *bool                 `gorm:"column:paper_goods"`
	PickupTime      *time.Time            `gorm:"column:pickup_time"`
	DeliveryAddress *string               `gorm:"column:delivery_address"`
	Notes           *string               `gorm:"column:notes"`
	SubtotalCents   int64                 `gorm:"column:subtotal_cents;not null;default:0"`
	TaxCents        int64                 `gorm:"column:tax_cents;not null;default:0"`
	TotalCents      int64                 `gorm:"column:total_cents;not null;default:0"`
	Status          enums.OrderStatus     `gorm:"column:status;not null;default:'PENDING_REVIEW'"`
	ReceivedAt      *time.Time            `gorm:"column:received_at"`
	AcceptedAt      *time.Time            `gorm:"column:accepted_at"`
	InProgressAt    *time.Time            `gorm:"column:in_progress_at"`
	ReadyAt         *time.Time            `gorm:"column:ready_at"`
	CompletedAt     *time.Time            `gorm:"column:completed_at"`
	CanceledAt      *time.Time            `gorm:"column:canceled_at"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`

	Items  []OrderItem  `gorm:"foreignKey:OrderID;references:ID"`
	Events []OrderEvent `gorm:"foreignKey:OrderID;references:ID"`
}

func (Order) TableName() string { return "orders" }
