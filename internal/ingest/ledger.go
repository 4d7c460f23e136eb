package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/orderdesk-backend/pkg/db/models"
	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/orderdesk-backend/pkg/errors"
	"github.com/angelmondragon/orderdesk-backend/pkg/pagination"
)

// IngestDTO is a ledger row without its raw bodies.
type IngestDTO struct {
	ID          uuid.UUID         `json:"id"`
	Source      string            `json:"source"`
	MessageID   string            `json:"message_id"`
	Sender      *string           `json:"sender,omitempty"`
	Subject     *string           `json:"subject,omitempty"`
	BodyHash    *string           `json:"body_hash,omitempty"`
	ParseStatus enums.ParseStatus `json:"parse_status"`
	OrderID     *uuid.UUID        `json:"order_id,omitempty"`
	Error       *string           `json:"error,omitempty"`
	ReceivedAt  time.Time         `json:"received_at"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// IngestList wraps a page of ledger rows plus the next page cursor.
type IngestList struct {
	Ingests    []IngestDTO `json:"ingests"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// ListParams configures the ledger listing.
type ListParams struct {
	Limit  int
	Cursor string
	Status *enums.ParseStatus
}

// Ledger answers reconciliation queries over the ingest ledger.
type Ledger struct {
	repo Repository
}

// NewLedger wires the ledger query service.
func NewLedger(repo Repository) (*Ledger, error) {
	if repo == nil {
		return nil, errors.New("ingest repository required")
	}
	return &Ledger{repo: repo}, nil
}

// List returns ledger rows newest first.
func (l *Ledger) List(ctx context.Context, params ListParams) (*IngestList, error) {
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := l.repo.List(ctx, pagination.LimitWithBuffer(params.Limit), cursor, params.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ingests")
	}

	list := &IngestList{Ingests: make([]IngestDTO, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	for _, row := range rows {
		list.Ingests = append(list.Ingests, toIngestDTO(row))
	}
	return list, nil
}

func toIngestDTO(row models.EmailIngest) IngestDTO {
	return IngestDTO{
		ID:          row.ID,
		Source:      row.Source,
		MessageID:   row.MessageID,
		Sender:      row.Sender,
		Subject:     row.Subject,
		BodyHash:    row.BodyHash,
		ParseStatus: row.ParseStatus,
		OrderID:     row.OrderID,
		Error:       row.Error,
		ReceivedAt:  row.ReceivedAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
