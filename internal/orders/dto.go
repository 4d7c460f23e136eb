package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/orderdesk-backend/pkg/db/models"
	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
)

// ListFilters describe the inputs supported by the orders list.
type ListFilters struct {
	Status *enums.OrderStatus
}

// ItemDTO is a top-level line with its modifiers nested beneath it.
type ItemDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	PriceCents int64     `json:"price_cents"`
	Notes      *string   `json:"notes,omitempty"`
	Modifiers  []ItemDTO `json:"modifiers,omitempty"`
}

// EventDTO is one audit entry.
type EventDTO struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Message   *string    `json:"message,omitempty"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// OrderDTO is the API shape of an order.
type OrderDTO struct {
	ID              uuid.UUID             `json:"id"`
	Source          string                `json:"source"`
	StoreCode       *string               `json:"store_code,omitempty"`
	FulfillmentType enums.FulfillmentType `json:"fulfillment_type"`
	CustomerName    *string               `json:"customer_name,omitempty"`
	CustomerEmail   *string               `json:"customer_email,omitempty"`
	CustomerPhone   *string               `json:"customer_phone,omitempty"`
	GuestCount      *int                  `json:"guest_count,omitempty"`
	PaperGoods      *bool                 `json:"paper_goods,omitempty"`
	PickupTime      *time.Time            `json:"pickup_time,omitempty"`
	DeliveryAddress *string               `json:"delivery_address,omitempty"`
	Notes           *string               `json:"notes,omitempty"`
	SubtotalCents   int64                 `json:"subtotal_cents"`
	TaxCents        int64                 `json:"tax_cents"`
	TotalCents      int64                 `json:"total_cents"`
	Status          enums.OrderStatus     `json:"status"`
	ReceivedAt      *time.Time            `json:"received_at,omitempty"`
	AcceptedAt      *time.Time            `json:"accepted_at,omitempty"`
	InProgressAt    *time.Time            `json:"in_progress_at,omitempty"`
	ReadyAt         *time.Time            `json:"ready_at,omitempty"`
	CompletedAt     *time.Time            `json:"completed_at,omitempty"`
	CanceledAt      *time.Time            `json:"canceled_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Items           []ItemDTO             `json:"items"`
	Events          []EventDTO            `json:"events,omitempty"`
}

// OrderList wraps a page of orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func toOrderDTO(order models.Order) OrderDTO {
	dto := OrderDTO{
		ID:              order.ID,
		Source:          order.Source,
		StoreCode:       order.StoreCode,
		FulfillmentType: order.FulfillmentType,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		CustomerPhone:   order.CustomerPhone,
		GuestCount:      order.GuestCount,
		PaperGoods:      order.PaperGoods,
		PickupTime:      order.PickupTime,
		DeliveryAddress: order.DeliveryAddress,
		Notes:           order.Notes,
		SubtotalCents:   order.SubtotalCents,
		TaxCents:        order.TaxCents,
		TotalCents:      order.TotalCents,
		Status:          order.Status,
		ReceivedAt:      order.ReceivedAt,
		AcceptedAt:      order.AcceptedAt,
		InProgressAt:    order.InProgressAt,
		ReadyAt:         order.ReadyAt,
		CompletedAt:     order.CompletedAt,
		CanceledAt:      order.CanceledAt,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
		Items:           nestItems(order.Items),
	}
	for _, ev := range order.Events {
		dto.Events = append(dto.Events, EventDTO{
			ID:        ev.ID,
			Type:      ev.Type,
			Message:   ev.Message,
			ActorID:   ev.ActorID,
			CreatedAt: ev.CreatedAt,
		})
	}
	return dto
}

// nestItems groups modifier rows under their parent, keeping row order. Rows
// whose parent is missing are dropped.
func nestItems(rows []models.OrderItem) []ItemDTO {
	items := make([]ItemDTO, 0, len(rows))
	index := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		if row.ParentItemID != nil {
			continue
		}
		index[row.ID] = len(items)
		items = append(items, itemDTO(row))
	}
	for _, row := range rows {
		if row.ParentItemID == nil {
			continue
		}
		if i, ok := index[*row.ParentItemID]; ok {
			items[i].Modifiers = append(items[i].Modifiers, itemDTO(row))
		}
	}
	return items
}

func itemDTO(row models.OrderItem) ItemDTO {
	return ItemDTO{
		ID:         row.ID,
		Name:       row.Name,
		Quantity:   row.Quantity,
		PriceCents: row.PriceCents,
		Notes:      row.Notes,
	}
}
