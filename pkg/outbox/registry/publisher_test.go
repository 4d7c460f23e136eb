package registry

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/orderdesk-backend/pkg/config"
	"github.com/angelmondragon/orderdesk-backend/pkg/db/models"
	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
	"github.com/angelmondragon/orderdesk-backend/pkg/outbox"
	"github.com/angelmondragon/orderdesk-backend/pkg/outbox/payloads"
	"github.com/google/uuid"
)

func TestEventRegistryResolveOrderCreated(t *testing.T) {
	reg := newTestEventRegistry(t)

	orderID := uuid.New()
	payloadBytes := mustMarshal(t, payloads.OrderCreatedEvent{
		OrderID:         orderID,
		IngestID:        uuid.New(),
		MessageID:       "<abc@mail>",
		Status:          enums.OrderStatusReceived,
		FulfillmentType: enums.FulfillmentDelivery,
		TotalCents:      4982,
		ItemCount:       1,
	})

	event := models.OutboxEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   orderID,
		Payload:       mustEnvelope(t, payloadBytes),
	}

	resolved, err := reg.Resolve(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Descriptor.Topic != "orders-topic" {
		t.Fatalf("unexpected topic %q", resolved.Descriptor.Topic)
	}
	payload, ok := resolved.Payload.(*payloads.OrderCreatedEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", resolved.Payload)
	}
	if payload.OrderID != orderID || payload.TotalCents != 4982 {
		t.Fatalf("payload mismatch %+v", payload)
	}
	if resolved.Envelope.EventID == "" || resolved.Envelope.OccurredAt.IsZero() {
		t.Fatalf("envelope missing metadata %+v", resolved.Envelope)
	}
}

func TestEventRegistryResolveIngestAbandoned(t *testing.T) {
	reg := newTestEventRegistry(t)

	event := models.OutboxEvent{
		EventType:     enums.EventIngestAbandoned,
		AggregateType: enums.AggregateEmailIngest,
		AggregateID:   uuid.New(),
		Payload:       mustEnvelope(t, []byte(`{"ingest_id":"7f1b7d53-92ce-4ef0-8f37-2f0e8f6b4a11","message_id":"m-1","reason":"processing abandoned"}`)),
	}

	resolved, err := reg.Resolve(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := resolved.Payload.(*payloads.IngestAbandonedEvent); !ok {
		t.Fatalf("unexpected payload type %T", resolved.Payload)
	}
}

func TestEventRegistryResolveNonRetryable(t *testing.T) {
	reg := newTestEventRegistry(t)

	tests := []struct {
		name  string
		event models.OutboxEvent
	}{
		{
			name: "unknown event",
			event: models.OutboxEvent{
				EventType:     enums.OutboxEventType("order_paid"),
				AggregateType: enums.AggregateOrder,
				AggregateID:   uuid.New(),
				Payload:       mustEnvelope(t, []byte(`{}`)),
			},
		},
		{
			name: "aggregate mismatch",
			event: models.OutboxEvent{
				EventType:     enums.EventOrderCreated,
				AggregateType: enums.AggregateEmailIngest,
				AggregateID:   uuid.New(),
				Payload:       mustEnvelope(t, []byte(`{}`)),
			},
		},
		{
			name: "missing aggregate id",
			event: models.OutboxEvent{
				EventType:     enums.EventOrderStatusChanged,
				AggregateType: enums.AggregateOrder,
				AggregateID:   uuid.Nil,
				Payload:       mustEnvelope(t, []byte(`{}`)),
			},
		},
		{
			name: "null payload",
			event: models.OutboxEvent{
				EventType:     enums.EventOrderCreated,
				AggregateType: enums.AggregateOrder,
				AggregateID:   uuid.New(),
				Payload:       mustEnvelope(t, []byte("null")),
			},
		},
		{
			name: "broken envelope",
			event: models.OutboxEvent{
				EventType:     enums.EventOrderCreated,
				AggregateType: enums.AggregateOrder,
				AggregateID:   uuid.New(),
				Payload:       json.RawMessage(`{"data":`),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Resolve(tt.event)
			if err == nil {
				t.Fatalf("expected error")
			}
			var nonRetry NonRetryableError
			if !errors.As(err, &nonRetry) {
				t.Fatalf("expected non-retryable error, got %T", err)
			}
		})
	}
}

func TestNewEventRegistryRequiresTopic(t *testing.T) {
	if _, err := NewEventRegistry(config.PubSubConfig{}); err == nil {
		t.Fatalf("expected error without orders topic")
	}
}

func newTestEventRegistry(t *testing.T) *EventRegistry {
	t.Helper()
	reg, err := NewEventRegistry(config.PubSubConfig{OrdersTopic: "orders-topic"})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return reg
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return data
}

func mustEnvelope(t *testing.T, payload []byte) json.RawMessage {
	t.Helper()
	envelope := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Data:       payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return data
}
