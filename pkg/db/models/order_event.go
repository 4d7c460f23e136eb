package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderEvent is an audit trail entry for an order.
type OrderEvent struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	Type      string     `gorm:"column:type;not null"`
	Message   *string    `gorm:"column:message"`
	ActorID   *uuid.UUID `gorm:"column:actor_id;type:uuid"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (OrderEvent) TableName() string { return "order_events" }
