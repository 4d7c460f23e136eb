package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/orderdesk-backend/pkg/db/dbtest"
	"github.com/angelmondragon/orderdesk-backend/pkg/db/models"
	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
	"github.com/angelmondragon/orderdesk-backend/pkg/logger"
)

func TestServiceEmitWritesEnvelope(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	svc := NewService(repo, logger.New(logger.Options{ServiceName: "outbox-test"}))

	orderID := uuid.New()
	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   orderID,
			Data:          map[string]any{"order_id": orderID.String()},
		})
	})
	require.NoError(t, err)

	var rows []models.OutboxEvent
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	require.Equal(t, orderID, rows[0].AggregateID)

	var envelope PayloadEnvelope
	require.NoError(t, json.Unmarshal(rows[0].Payload, &envelope))
	require.Equal(t, 1, envelope.Version)
	require.NotEmpty(t, envelope.EventID)
	require.JSONEq(t, `{"order_id":"`+orderID.String()+`"}`, string(envelope.Data))
}

func TestServiceEmitRequiresTx(t *testing.T) {
	svc := NewService(NewRepository(nil), nil)
	if err := svc.Emit(context.Background(), nil, DomainEvent{}); err == nil {
		t.Fatalf("expected error without transaction")
	}
}

func TestRepositoryPublishLifecycle(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)

	first := insertEvent(t, db, repo, time.Now().UTC().Add(-2*time.Minute))
	second := insertEvent(t, db, repo, time.Now().UTC().Add(-time.Minute))

	rows, err := repo.FetchUnpublishedForPublish(db, 10, 3)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, first, rows[0].ID)

	require.NoError(t, repo.MarkPublishedTx(db, first))
	require.NoError(t, repo.MarkFailedTx(db, second, errors.New("pubsub unavailable")))

	rows, err = repo.FetchUnpublishedForPublish(db, 10, 3)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 1, rows[0].AttemptCount)
	require.NotNil(t, rows[0].LastError)

	require.NoError(t, repo.MarkTerminalTx(db, second, errors.New("gave up"), 3))
	rows, err = repo.FetchUnpublishedForPublish(db, 10, 3)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestRepositoryDeletePublishedBefore(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)

	old := insertEvent(t, db, repo, time.Now().UTC().Add(-48*time.Hour))
	require.NoError(t, db.Model(&models.OutboxEvent{}).Where("id = ?", old).
		Update("published_at", time.Now().UTC().Add(-47*time.Hour)).Error)
	pending := insertEvent(t, db, repo, time.Now().UTC().Add(-48*time.Hour))
	fresh := insertEvent(t, db, repo, time.Now().UTC())
	require.NoError(t, repo.MarkPublishedTx(db, fresh))

	deleted, err := repo.DeletePublishedBefore(context.Background(), db, time.Now().UTC().Add(-24*time.Hour), 5)
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	var remaining []models.OutboxEvent
	require.NoError(t, db.Order("created_at ASC").Find(&remaining).Error)
	require.Len(t, remaining, 2)
	require.Equal(t, pending, remaining[0].ID)
}

func TestDLQRepositoryTruncatesMessage(t *testing.T) {
	db := dbtest.Open(t)
	dlq := NewDLQRepository(db)

	long := strings.Repeat("x", 2*maxDLQErrorLen)
	eventID := uuid.New()
	require.NoError(t, dlq.InsertTx(db, models.OutboxDLQ{
		EventID:       eventID,
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{}`),
		ErrorReason:   enums.OutboxDLQReasonMaxAttempts,
		ErrorMessage:  &long,
	}))

	row, err := dlq.FindByEventID(context.Background(), eventID)
	require.NoError(t, err)
	require.NotNil(t, row)
	require.Len(t, *row.ErrorMessage, maxDLQErrorLen)

	missing, err := dlq.FindByEventID(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Nil(t, missing)
}

func insertEvent(t *testing.T, db *gorm.DB, repo *Repository, createdAt time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, repo.Insert(db, models.OutboxEvent{
		ID:            id,
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{"version":1}`),
		CreatedAt:     createdAt,
	}))
	return id
}
