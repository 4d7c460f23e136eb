package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/orderdesk-backend/pkg/db/models"
	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
	"github.com/angelmondragon/orderdesk-backend/pkg/outbox"
	"github.com/angelmondragon/orderdesk-backend/pkg/outbox/payloads"
)

const defaultSweepBatch = 200

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Sweeper fails ingests that were created but never finished, so they show
// up in the FAILED queue instead of sitting in NEEDS_REVIEW forever.
type Sweeper struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	batch  int
}

// NewSweeper wires a Sweeper.
func NewSweeper(repo Repository, tx txRunner, outbox outboxPublisher) (*Sweeper, error) {
	if repo == nil {
		return nil, errors.New("ingest repository required")
	}
	if tx == nil {
		return nil, errors.New("transaction runner required")
	}
	if outbox == nil {
		return nil, errors.New("outbox publisher required")
	}
	return &Sweeper{repo: repo, tx: tx, outbox: outbox, batch: defaultSweepBatch}, nil
}

// SweepStale marks every stuck ingest received before cutoff as FAILED and
// emits ingest_abandoned for each. Rows are handled independently; the count
// of swept rows is returned with every per-row error combined.
func (s *Sweeper) SweepStale(ctx context.Context, cutoff time.Time) (int, error) {
	rows, err := s.repo.FindStale(ctx, cutoff, s.batch)
	if err != nil {
		return 0, fmt.Errorf("find stale ingests: %w", err)
	}

	var (
		swept int
		errs  error
	)
	for _, row := range rows {
		abandoned, err := s.abandon(ctx, row)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("ingest %s: %w", row.ID, err))
			continue
		}
		if abandoned {
			swept++
		}
	}
	return swept, errs
}

func (s *Sweeper) abandon(ctx context.Context, row models.EmailIngest) (bool, error) {
	abandoned := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.FindByID(ctx, row.ID)
		if err != nil {
			return err
		}
		if current.ParseStatus != enums.ParseStatusNeedsReview || current.OrderID != nil {
			return nil
		}
		if err := repo.Update(ctx, row.ID, map[string]any{
			"parse_status": enums.ParseStatusFailed,
			"error":        ErrorAbandoned,
		}); err != nil {
			return err
		}
		abandoned = true
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventIngestAbandoned,
			AggregateType: enums.AggregateEmailIngest,
			AggregateID:   row.ID,
			Data: payloads.IngestAbandonedEvent{
				IngestID:  row.ID,
				MessageID: row.MessageID,
				Reason:    ErrorAbandoned,
			},
		})
	})
	if err != nil {
		return false, err
	}
	return abandoned, nil
}
