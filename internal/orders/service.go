package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/orderdesk-backend/pkg/db/models"
	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/orderdesk-backend/pkg/errors"
	"github.com/angelmondragon/orderdesk-backend/pkg/outbox"
	"github.com/angelmondragon/orderdesk-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/orderdesk-backend/pkg/pagination"
)

type orderNotifier interface {
	OrderCreated(ctx context.Context, orderID uuid.UUID)
	OrderUpdated(ctx context.Context, orderID uuid.UUID)
}

// Service defines the dashboard operations on orders.
type Service interface {
	List(ctx context.Context, params ListParams) (*OrderList, error)
	Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*OrderDTO, error)
	Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
}

// Actor is the authenticated dashboard user performing a change.
type Actor struct {
	UserID uuid.UUID
	Email  string
	Role   enums.StaffRole
}

// ListParams configures pagination and filtering for the orders list.
type ListParams struct {
	Limit  int
	Cursor string
	Status *enums.OrderStatus
}

// UpdateStatusInput moves an order to a new status.
type UpdateStatusInput struct {
	OrderID uuid.UUID
	Status  enums.OrderStatus
	Message *string
	Actor   Actor
}

// CreateOrderItemInput is one manually entered line.
type CreateOrderItemInput struct {
	Name       string
	Quantity   int
	PriceCents int64
	Notes      *string
}

// CreateOrderInput is an order keyed in by an admin.
type CreateOrderInput struct {
	CustomerName  *string
	CustomerEmail *string
	CustomerPhone *string
	PickupTime    *time.Time
	Notes         *string
	Items         []CreateOrderItemInput
	Actor         Actor
}

type service struct {
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	notifier orderNotifier
	now      func() time.Time
}

// NewService builds the orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, outbox outboxPublisher, notifier orderNotifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		outbox:   outbox,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*OrderList, error) {
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListOrders(ctx, pagination.LimitWithBuffer(params.Limit), cursor, ListFilters{Status: params.Status})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	next := ""
	if len(rows) > limit {
		last := rows[limit-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}

	list := &OrderList{Orders: make([]OrderDTO, 0, len(rows)), NextCursor: next}
	for _, row := range rows {
		list.Orders = append(list.Orders, toOrderDTO(row))
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrderDetail(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	dto := toOrderDTO(*order)
	return &dto, nil
}

// UpdateStatus sets the status, stamps the status timestamp the first time it
// is entered and records the change in the audit trail and the outbox.
func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*OrderDTO, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	message := fmt.Sprintf("Status set to %s", input.Status)
	if input.Message != nil && strings.TrimSpace(*input.Message) != "" {
		message = strings.TrimSpace(*input.Message)
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		now := s.now()
		updates := map[string]any{"status": input.Status, "updated_at": now}
		if column := input.Status.TimestampColumn(); column != "" && statusTimestamp(order, input.Status) == nil {
			updates[column] = now
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		actorID := input.Actor.UserID
		if err := repo.CreateEvent(ctx, &models.OrderEvent{
			OrderID: order.ID,
			Type:    EventTypeStatusUpdated,
			Message: &message,
			ActorID: &actorID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order event")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         buildActor(input.Actor),
			Data: payloads.OrderStatusChangedEvent{
				OrderID:    order.ID,
				FromStatus: order.Status,
				ToStatus:   input.Status,
				Message:    message,
				ChangedAt:  now,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifier.OrderUpdated(ctx, input.OrderID)
	return s.Get(ctx, input.OrderID)
}

// Create stores a manually entered order. It starts RECEIVED and its total is
// the sum of its lines.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if input.Actor.Role != enums.StaffRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can create orders")
	}
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	now := s.now()
	order := &models.Order{
		ID:              uuid.New(),
		Source:          SourceManual,
		FulfillmentType: enums.FulfillmentUnknown,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		PickupTime:      utcPtr(input.PickupTime),
		Notes:           input.Notes,
		Status:          enums.OrderStatusReceived,
		ReceivedAt:      &now,
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	for i, item := range input.Items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
		}
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
		if item.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price must not be negative")
		}
		order.TotalCents += item.PriceCents * int64(item.Quantity)
		items = append(items, models.OrderItem{
			ID:         uuid.New(),
			OrderID:    order.ID,
			Name:       strings.TrimSpace(item.Name),
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
			Notes:      item.Notes,
			Position:   i,
		})
	}
	order.SubtotalCents = order.TotalCents

	actor := input.Actor.Email
	if actor == "" {
		actor = input.Actor.UserID.String()
	}
	message := "Order created by " + actor
	actorID := input.Actor.UserID

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create items")
		}
		if err := repo.CreateEvent(ctx, &models.OrderEvent{
			OrderID: order.ID,
			Type:    EventTypeCreated,
			Message: &message,
			ActorID: &actorID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order event")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         buildActor(input.Actor),
			Data: payloads.OrderCreatedEvent{
				OrderID:         order.ID,
				Source:          order.Source,
				Status:          order.Status,
				FulfillmentType: order.FulfillmentType,
				PickupTime:      order.PickupTime,
				TotalCents:      order.TotalCents,
				ItemCount:       len(items),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifier.OrderCreated(ctx, order.ID)
	return s.Get(ctx, order.ID)
}

func statusTimestamp(order *models.Order, status enums.OrderStatus) *time.Time {
	switch status {
	case enums.OrderStatusReceived:
		return order.ReceivedAt
	case enums.OrderStatusAccepted:
		return order.AcceptedAt
	case enums.OrderStatusInProgress:
		return order.InProgressAt
	case enums.OrderStatusReady:
		return order.ReadyAt
	case enums.OrderStatusCompleted:
		return order.CompletedAt
	case enums.OrderStatusCanceled:
		return order.CanceledAt
	}
	return nil
}

func buildActor(actor Actor) *outbox.ActorRef {
	return &outbox.ActorRef{UserID: actor.UserID, Role: string(actor.Role)}
}
