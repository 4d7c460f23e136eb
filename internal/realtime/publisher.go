// Package realtime fans order changes out to connected dashboards over Redis
// pub/sub. A gateway subscribed to the rooms relays them to browsers.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
	"github.com/angelmondragon/orderdesk-backend/pkg/logger"
)

// Event names delivered to subscribers.
const (
	EventOrderCreated        = "order:created"
	EventOrderUpdated        = "order:updated"
	EventAnalyticsInvalidate = "analytics:invalidate"
)

// OrderRoom is the room watching a single order.
func OrderRoom(orderID uuid.UUID) string {
	return "order:" + orderID.String()
}

// RoleRoom is the room for every user holding role.
func RoleRoom(role enums.StaffRole) string {
	return "role:" + string(role)
}

// Publisher delivers one event to one room.
type Publisher interface {
	Publish(ctx context.Context, room, event string, payload any) error
}

type redisPublisher interface {
	Publish(ctx context.Context, channel string, payload any) (int64, error)
	RealtimeChannel(room string) string
}

// Message is the JSON document written to a room channel.
type Message struct {
	Event  string          `json:"event"`
	Room   string          `json:"room"`
	Data   json.RawMessage `json:"data"`
	SentAt time.Time       `json:"sentAt"`
}

// RedisPublisher publishes messages onto namespaced Redis channels.
type RedisPublisher struct {
	client redisPublisher
	logg   *logger.Logger
}

// NewRedisPublisher wires a publisher onto the shared Redis client.
func NewRedisPublisher(client redisPublisher, logg *logger.Logger) (*RedisPublisher, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	return &RedisPublisher{client: client, logg: logg}, nil
}

func (p *RedisPublisher) Publish(ctx context.Context, room, event string, payload any) error {
	if room == "" || event == "" {
		return errors.New("room and event are required")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal realtime payload: %w", err)
	}
	body, err := json.Marshal(Message{Event: event, Room: room, Data: data, SentAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal realtime message: %w", err)
	}
	receivers, err := p.client.Publish(ctx, p.client.RealtimeChannel(room), body)
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", event, room, err)
	}
	if p.logg != nil {
		p.logg.Debug(p.logg.WithFields(ctx, map[string]any{
			"room":      room,
			"event":     event,
			"receivers": receivers,
		}), "realtime event published")
	}
	return nil
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, string, any) error { return nil }
