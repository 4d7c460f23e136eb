package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is a line on an order. Rows with ParentItemID set are modifiers
// of a top-level item on the same order.
type OrderItem struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ParentItemID *uuid.UUID `gorm:"column:parent_item_id;type:uuid;index"`
	Name         string     `gorm:"column:name;not null"`
	Quantity     int        `gorm:"column:quantity;not null"`
	PriceCents   int64      `gorm:"column:price_cents;not null;default:0"`
	Notes        *string    `gorm:"column:notes"`
	Position     int        `gorm:"column:position;not null;default:0"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (OrderItem) TableName() string { return "order_items" }
