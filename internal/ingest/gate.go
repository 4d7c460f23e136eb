package ingest

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/angelmondragon/orderdesk-backend/internal/orders"
	"github.com/angelmondragon/orderdesk-backend/internal/parser"
	"github.com/angelmondragon/orderdesk-backend/pkg/db"
	"github.com/angelmondragon/orderdesk-backend/pkg/db/models"
	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/orderdesk-backend/pkg/errors"
	"github.com/angelmondragon/orderdesk-backend/pkg/logger"
	"github.com/angelmondragon/orderdesk-backend/pkg/metrics"
)

const (
	// SourceInboundEmail is the ledger source for webhook deliveries.
	SourceInboundEmail = "inbound_email"

	// MaxRawBytes caps the stored raw text and HTML bodies.
	MaxRawBytes = 200000

	ErrorNeedsReview    = "Missing pickupTime or items; needs review."
	ErrorDedupeByHash   = "Deduped by bodyHash (forwarded duplicate)."
	ErrorAbandoned      = "processing abandoned"
	maxStoredErrorBytes = 2000
)

// InboundEmail is one delivery from the mail provider.
type InboundEmail struct {
	MessageID  string
	From       string
	Subject    string
	Text       string
	HTML       string
	ReceivedAt time.Time
}

// Outcome is what the webhook reports back for a delivery.
type Outcome struct {
	IngestID    *uuid.UUID        `json:"ingest_id,omitempty"`
	Accepted    bool              `json:"accepted"`
	Deduped     bool              `json:"deduped"`
	OrderID     *uuid.UUID        `json:"order_id"`
	ParseStatus enums.ParseStatus `json:"parse_status,omitempty"`
}

type emailParser interface {
	Parse(msg parser.Message) parser.Result
}

type orderWriter interface {
	CreateFromEmail(ctx context.Context, in orders.EmailOrderInput) (*models.Order, error)
}

type orderNotifier interface {
	OrderCreated(ctx context.Context, orderID uuid.UUID)
	OrderUpdated(ctx context.Context, orderID uuid.UUID)
}

type inFlightGuard interface {
	Acquire(ctx context.Context, messageID string) (bool, error)
	Release(ctx context.Context, messageID string) error
}

// GateOption customizes a Gate.
type GateOption func(*Gate)

// WithInFlightGuard rejects concurrent deliveries of the same message id.
func WithInFlightGuard(guard inFlightGuard) GateOption {
	return func(g *Gate) { g.guard = guard }
}

// WithMetrics records outcomes and parse latency.
func WithMetrics(m *metrics.IngestMetrics) GateOption {
	return func(g *Gate) { g.metrics = m }
}

// Gate runs one inbound message through dedup, extraction and persistence.
type Gate struct {
	repo     Repository
	parser   emailParser
	writer   orderWriter
	notifier orderNotifier
	logg     *logger.Logger
	guard    inFlightGuard
	metrics  *metrics.IngestMetrics
	now      func() time.Time
}

// NewGate builds a Gate with the required dependencies.
func NewGate(repo Repository, p emailParser, writer orderWriter, notifier orderNotifier, logg *logger.Logger, opts ...GateOption) (*Gate, error) {
	if repo == nil {
		return nil, errors.New("ingest repository required")
	}
	if p == nil {
		return nil, errors.New("parser required")
	}
	if writer == nil {
		return nil, errors.New("order writer required")
	}
	if notifier == nil {
		return nil, errors.New("notifier required")
	}
	g := &Gate{
		repo:     repo,
		parser:   p,
		writer:   writer,
		notifier: notifier,
		logg:     logg,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Process deduplicates msg against the ledger and, when it is new, parses it
// into an order. Duplicate deliveries succeed with Deduped set.
func (g *Gate) Process(ctx context.Context, msg InboundEmail) (*Outcome, error) {
	msg.MessageID = strings.TrimSpace(msg.MessageID)
	if msg.MessageID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing message id")
	}
	if g.logg != nil {
		ctx = g.logg.WithMessageID(ctx, msg.MessageID)
	}

	if g.guard != nil {
		acquired, err := g.guard.Acquire(ctx, msg.MessageID)
		if err != nil {
			g.logWarn(ctx, "in-flight guard unavailable", err)
		} else if !acquired {
			g.metrics.IncOutcome(metrics.IngestOutcomeInFlight, "")
			return nil, pkgerrors.New(pkgerrors.CodeInFlight, "message is already being processed")
		} else {
			defer func() {
				if err := g.guard.Release(context.WithoutCancel(ctx), msg.MessageID); err != nil {
					g.logWarn(ctx, "release in-flight guard", err)
				}
			}()
		}
	}

	existing, err := g.repo.FindByMessageID(ctx, msg.MessageID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup ingest by message id")
	}
	if existing != nil {
		return g.dedupedByMessageID(ctx, existing), nil
	}

	bodyHash := parser.BodyHash(msg.Text)
	receivedAt := msg.ReceivedAt.UTC()
	if msg.ReceivedAt.IsZero() {
		receivedAt = g.now()
	}

	if bodyHash != "" {
		prior, err := g.repo.FindLatestByBodyHash(ctx, bodyHash)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup ingest by body hash")
		}
		if prior != nil {
			return g.dedupedByHash(ctx, msg, bodyHash, receivedAt, prior)
		}
	}

	ingest := g.ledgerRow(msg, bodyHash, receivedAt)
	ingest.ParseStatus = enums.ParseStatusNeedsReview
	if err := g.repo.Create(ctx, ingest); err != nil {
		if db.IsUniqueViolation(err, MessageIDConstraint) {
			return g.lostRace(ctx, msg.MessageID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ingest record")
	}
	if g.logg != nil {
		ctx = g.logg.WithField(ctx, "ingest_id", ingest.ID.String())
	}

	started := time.Now()
	result := g.parser.Parse(parser.Message{From: msg.From, Subject: msg.Subject, Text: msg.Text})
	g.metrics.ObserveParse(time.Since(started))

	order, err := g.writer.CreateFromEmail(ctx, orders.EmailOrderInput{
		IngestID:   ingest.ID,
		MessageID:  msg.MessageID,
		Subject:    msg.Subject,
		ReceivedAt: receivedAt,
		Parsed:     result,
	})
	if err != nil {
		g.markFailed(ctx, ingest.ID, err)
		g.metrics.IncOutcome(metrics.IngestOutcomeFailed, string(enums.ParseStatusFailed))
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to process inbound email")
	}

	status := enums.ParseStatusSuccess
	var ingestError *string
	if !result.Confident() {
		status = enums.ParseStatusNeedsReview
		reason := ErrorNeedsReview
		ingestError = &reason
	}
	if err := g.repo.Update(ctx, ingest.ID, map[string]any{
		"parse_status": status,
		"order_id":     order.ID,
		"error":        ingestError,
	}); err != nil {
		g.logError(ctx, "record ingest outcome", err)
	}

	if g.logg != nil {
		ctx = g.logg.WithOrderID(ctx, order.ID.String())
		g.logg.Info(g.logg.WithField(ctx, "parse_status", status), "inbound email converted to order")
	}
	g.notifier.OrderCreated(ctx, order.ID)
	g.metrics.IncOutcome(metrics.IngestOutcomeCreated, string(status))

	ingestID := ingest.ID
	orderID := order.ID
	return &Outcome{
		IngestID:    &ingestID,
		Accepted:    true,
		OrderID:     &orderID,
		ParseStatus: status,
	}, nil
}

func (g *Gate) dedupedByMessageID(ctx context.Context, existing *models.EmailIngest) *Outcome {
	if g.logg != nil {
		g.logg.Info(ctx, "duplicate delivery ignored")
	}
	g.metrics.IncOutcome(metrics.IngestOutcomeDeduped, string(existing.ParseStatus))
	id := existing.ID
	return &Outcome{
		IngestID:    &id,
		Accepted:    true,
		Deduped:     true,
		OrderID:     existing.OrderID,
		ParseStatus: existing.ParseStatus,
	}
}

func (g *Gate) dedupedByHash(ctx context.Context, msg InboundEmail, bodyHash string, receivedAt time.Time, prior *models.EmailIngest) (*Outcome, error) {
	row := g.ledgerRow(msg, bodyHash, receivedAt)
	row.ParseStatus = enums.ParseStatusSuccess
	row.OrderID = prior.OrderID
	reason := ErrorDedupeByHash
	row.Error = &reason

	if err := g.repo.Create(ctx, row); err != nil {
		if db.IsUniqueViolation(err, MessageIDConstraint) {
			return g.lostRace(ctx, msg.MessageID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record forwarded duplicate")
	}
	if g.logg != nil {
		g.logg.Info(g.logg.WithField(ctx, "prior_ingest_id", prior.ID.String()), "forwarded duplicate linked to existing order")
	}
	if prior.OrderID != nil {
		g.notifier.OrderUpdated(ctx, *prior.OrderID)
	}
	g.metrics.IncOutcome(metrics.IngestOutcomeDeduped, string(row.ParseStatus))

	id := row.ID
	return &Outcome{
		IngestID:    &id,
		Accepted:    true,
		Deduped:     true,
		OrderID:     prior.OrderID,
		ParseStatus: row.ParseStatus,
	}, nil
}

// lostRace handles a concurrent delivery that created the ledger row first.
func (g *Gate) lostRace(ctx context.Context, messageID string) (*Outcome, error) {
	winner, err := g.repo.FindByMessageID(ctx, messageID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload ingest after conflict")
	}
	if winner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "ingest conflict could not be resolved")
	}
	return g.dedupedByMessageID(ctx, winner), nil
}

func (g *Gate) ledgerRow(msg InboundEmail, bodyHash string, receivedAt time.Time) *models.EmailIngest {
	return &models.EmailIngest{
		ID:         uuid.New(),
		Source:     SourceInboundEmail,
		MessageID:  msg.MessageID,
		Sender:     optional(msg.From),
		Subject:    optional(msg.Subject),
		RawText:    optional(capBytes(msg.Text, MaxRawBytes)),
		RawHTML:    optional(capBytes(msg.HTML, MaxRawBytes)),
		BodyHash:   optional(bodyHash),
		ReceivedAt: receivedAt,
	}
}

func (g *Gate) markFailed(ctx context.Context, ingestID uuid.UUID, cause error) {
	detail := capBytes(cause.Error(), maxStoredErrorBytes)
	g.logError(ctx, "inbound email persistence failed", cause)
	if err := g.repo.Update(context.WithoutCancel(ctx), ingestID, map[string]any{
		"parse_status": enums.ParseStatusFailed,
		"error":        detail,
	}); err != nil {
		g.logError(ctx, "mark ingest failed", err)
	}
}

func (g *Gate) logWarn(ctx context.Context, msg string, err error) {
	if g.logg == nil {
		return
	}
	g.logg.Warn(g.logg.WithField(ctx, "error", err.Error()), msg)
}

func (g *Gate) logError(ctx context.Context, msg string, err error) {
	if g.logg == nil {
		return
	}
	g.logg.Error(ctx, msg, err)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// capBytes truncates s to at most limit bytes without splitting a rune.
func capBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
