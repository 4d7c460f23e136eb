package realtime

import (
	"context"

	"github.com/google/uuid"

	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
	"github.com/angelmondragon/orderdesk-backend/pkg/logger"
)

// OrderRef is the payload of order events; clients refetch the order by id.
type OrderRef struct {
	OrderID uuid.UUID `json:"orderId"`
}

// InvalidateScope tells dashboards which cached aggregate to refresh.
type InvalidateScope struct {
	Scope string `json:"scope"`
}

const scopeOverview = "overview"

// Notifier maps order lifecycle changes onto room broadcasts. Delivery is best
// effort: failures are logged, never returned.
type Notifier struct {
	pub  Publisher
	logg *logger.Logger
}

// NewNotifier falls back to a NoopPublisher when pub is nil.
func NewNotifier(pub Publisher, logg *logger.Logger) *Notifier {
	if pub == nil {
		pub = NoopPublisher{}
	}
	return &Notifier{pub: pub, logg: logg}
}

// OrderCreated announces a new order to both dashboards.
func (n *Notifier) OrderCreated(ctx context.Context, orderID uuid.UUID) {
	ref := OrderRef{OrderID: orderID}
	n.send(ctx, RoleRoom(enums.StaffRoleAdmin), EventOrderCreated, ref)
	n.send(ctx, RoleRoom(enums.StaffRoleStaff), EventOrderCreated, ref)
	n.send(ctx, OrderRoom(orderID), EventOrderUpdated, ref)
	n.invalidateOverview(ctx)
}

// OrderUpdated announces a change to watchers of the order and to both dashboards.
func (n *Notifier) OrderUpdated(ctx context.Context, orderID uuid.UUID) {
	ref := OrderRef{OrderID: orderID}
	n.send(ctx, OrderRoom(orderID), EventOrderUpdated, ref)
	n.send(ctx, RoleRoom(enums.StaffRoleAdmin), EventOrderUpdated, ref)
	n.send(ctx, RoleRoom(enums.StaffRoleStaff), EventOrderUpdated, ref)
	n.invalidateOverview(ctx)
}

func (n *Notifier) invalidateOverview(ctx context.Context) {
	n.send(ctx, RoleRoom(enums.StaffRoleAdmin), EventAnalyticsInvalidate, InvalidateScope{Scope: scopeOverview})
}

func (n *Notifier) send(ctx context.Context, room, event string, payload any) {
	if n == nil || n.pub == nil {
		return
	}
	if err := n.pub.Publish(ctx, room, event, payload); err != nil && n.logg != nil {
		n.logg.Warn(n.logg.WithFields(ctx, map[string]any{
			"room":  room,
			"event": event,
			"error": err.Error(),
		}), "realtime publish failed")
	}
}
