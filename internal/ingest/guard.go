package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/orderdesk-backend/pkg/redis"
)

const inFlightScope = "inbound-email"

// InFlightGuard marks a message id as being processed so a concurrent
// redelivery is turned away instead of racing the first attempt.
type InFlightGuard struct {
	store redis.IdempotencyStore
	ttl   time.Duration
}

// NewInFlightGuard builds a guard whose marks expire after ttl.
func NewInFlightGuard(store redis.IdempotencyStore, ttl time.Duration) (*InFlightGuard, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl <= 0 {
		return nil, errors.New("ttl must be positive")
	}
	return &InFlightGuard{store: store, ttl: ttl}, nil
}

// Acquire reports whether the caller now owns messageID.
func (g *InFlightGuard) Acquire(ctx context.Context, messageID string) (bool, error) {
	if messageID == "" {
		return false, errors.New("message id is required")
	}
	key := g.store.IdempotencyKey(inFlightScope, messageID)
	set, err := g.store.SetNX(ctx, key, "1", g.ttl)
	if err != nil {
		return false, fmt.Errorf("set in-flight key: %w", err)
	}
	return set, nil
}

// Release clears the mark for messageID.
func (g *InFlightGuard) Release(ctx context.Context, messageID string) error {
	if messageID == "" {
		return errors.New("message id is required")
	}
	return g.store.Del(ctx, g.store.IdempotencyKey(inFlightScope, messageID))
}
