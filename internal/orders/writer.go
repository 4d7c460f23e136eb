package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/orderdesk-backend/internal/parser"
	"github.com/angelmondragon/orderdesk-backend/pkg/db/models"
	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
	"github.com/angelmondragon/orderdesk-backend/pkg/outbox"
	"github.com/angelmondragon/orderdesk-backend/pkg/outbox/payloads"
)

const (
	// SourceEmail marks orders reconstructed from forwarded notification emails.
	SourceEmail = "cfa.email"
	// SourceManual marks orders keyed in by an admin.
	SourceManual = "manual"

	EventTypeCreatedFromEmail = "order.created_from_email"
	EventTypeCreated          = "order.created"
	EventTypeStatusUpdated    = "status.updated"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// EmailOrderInput is a parsed inbound email ready to be persisted.
type EmailOrderInput struct {
	IngestID   uuid.UUID
	MessageID  string
	Subject    string
	ReceivedAt time.Time
	Parsed     parser.Result
}

// Writer persists parsed emails as orders. Everything it writes for one
// message commits or rolls back together.
type Writer struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// NewWriter builds a Writer with the required dependencies.
func NewWriter(repo Repository, tx txRunner, outbox outboxPublisher) (*Writer, error) {
	if repo == nil {
		return nil, errors.New("orders repository required")
	}
	if tx == nil {
		return nil, errors.New("transaction runner required")
	}
	if outbox == nil {
		return nil, errors.New("outbox publisher required")
	}
	return &Writer{repo: repo, tx: tx, outbox: outbox}, nil
}

// CreateFromEmail writes the order, its items and modifiers, the creation
// audit event and the order_created outbox row in one transaction.
func (w *Writer) CreateFromEmail(ctx context.Context, in EmailOrderInput) (*models.Order, error) {
	receivedAt := in.ReceivedAt.UTC()
	if in.ReceivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}
	res := in.Parsed
	notes := res.Notes

	order := &models.Order{
		ID:              uuid.New(),
		Source:          SourceEmail,
		StoreCode:       res.StoreCode,
		FulfillmentType: res.FulfillmentType,
		CustomerName:    res.Customer.Name,
		CustomerEmail:   res.Customer.Email,
		CustomerPhone:   res.Customer.Phone,
		GuestCount:      res.Customer.GuestCount,
		PaperGoods:      res.Customer.PaperGoods,
		PickupTime:      utcPtr(res.ServiceTime),
		DeliveryAddress: res.DeliveryAddress,
		Notes:           &notes,
		SubtotalCents:   res.Totals.SubtotalCents,
		TaxCents:        res.Totals.TaxCents,
		TotalCents:      res.Totals.TotalCents,
		Status:          res.Status,
		ReceivedAt:      &receivedAt,
	}
	if !order.FulfillmentType.IsValid() {
		order.FulfillmentType = enums.FulfillmentUnknown
	}
	if !order.Status.IsValid() {
		order.Status = enums.OrderStatusPendingReview
	}

	parents, modifiers := itemRows(order.ID, res.Items)
	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		subject = "(no subject)"
	}
	message := "Created from email: " + subject

	err := w.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := w.repo.WithTx(tx)
		if err := repo.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := repo.CreateItems(ctx, parents); err != nil {
			return fmt.Errorf("create items: %w", err)
		}
		if err := repo.CreateItems(ctx, modifiers); err != nil {
			return fmt.Errorf("create modifiers: %w", err)
		}
		if err := repo.CreateEvent(ctx, &models.OrderEvent{
			OrderID: order.ID,
			Type:    EventTypeCreatedFromEmail,
			Message: &message,
		}); err != nil {
			return fmt.Errorf("create order event: %w", err)
		}
		return w.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Data: payloads.OrderCreatedEvent{
				OrderID:         order.ID,
				IngestID:        in.IngestID,
				MessageID:       in.MessageID,
				Source:          order.Source,
				Status:          order.Status,
				FulfillmentType: order.FulfillmentType,
				StoreCode:       order.StoreCode,
				PickupTime:      order.PickupTime,
				TotalCents:      order.TotalCents,
				ItemCount:       len(parents),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	order.Items = append(parents, modifiers...)
	return order, nil
}

// itemRows flattens parsed items into parent rows and modifier rows. Position
// follows reading order across both sets.
func itemRows(orderID uuid.UUID, items []parser.Item) ([]models.OrderItem, []models.OrderItem) {
	parents := make([]models.OrderItem, 0, len(items))
	var modifiers []models.OrderItem
	position := 0
	for _, item := range items {
		parent := models.OrderItem{
			ID:         uuid.New(),
			OrderID:    orderID,
			Name:       item.Name,
			Quantity:   positiveQuantity(item.Quantity),
			PriceCents: item.PriceCents,
			Notes:      item.Notes,
			Position:   position,
		}
		position++
		parents = append(parents, parent)

		parentID := parent.ID
		for _, mod := range item.Modifiers {
			modifiers = append(modifiers, models.OrderItem{
				ID:           uuid.New(),
				OrderID:      orderID,
				ParentItemID: &parentID,
				Name:         mod.Name,
				Quantity:     positiveQuantity(mod.Quantity),
				PriceCents:   mod.PriceCents,
				Position:     position,
			})
			position++
		}
	}
	return parents, modifiers
}

func positiveQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
