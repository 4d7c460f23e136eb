package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/orderdesk-backend/pkg/db/models"
	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
	"github.com/angelmondragon/orderdesk-backend/pkg/pagination"
)

// MessageIDConstraint is the unique constraint that serializes duplicate deliveries.
const MessageIDConstraint = "email_ingests_message_id_key"

// Repository persists the email ingest ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, ingest *models.EmailIngest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.EmailIngest, error)
	FindByMessageID(ctx context.Context, messageID string) (*models.EmailIngest, error)
	FindLatestByBodyHash(ctx context.Context, bodyHash string) (*models.EmailIngest, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	List(ctx context.Context, limit int, cursor *pagination.Cursor, status *enums.ParseStatus) ([]models.EmailIngest, error)
	FindStale(ctx context.Context, cutoff time.Time, limit int) ([]models.EmailIngest, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an ingest repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, ingest *models.EmailIngest) error {
	if ingest.ID == uuid.Nil {
		ingest.ID = uuid.New()
	}
	if ingest.Source == "" {
		ingest.Source = SourceInboundEmail
	}
	return r.db.WithContext(ctx).Create(ingest).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.EmailIngest, error) {
	var row models.EmailIngest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByMessageID returns nil, nil when no row exists.
func (r *repository) FindByMessageID(ctx context.Context, messageID string) (*models.EmailIngest, error) {
	var row models.EmailIngest
	err := r.db.WithContext(ctx).Where("message_id = ?", messageID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindLatestByBodyHash returns the most recent ingest with the same content
// that produced an order, or nil, nil.
func (r *repository) FindLatestByBodyHash(ctx context.Context, bodyHash string) (*models.EmailIngest, error) {
	var row models.EmailIngest
	err := r.db.WithContext(ctx).
		Where("body_hash = ? AND order_id IS NOT NULL", bodyHash).
		Order("created_at DESC").
		Order("id DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	res := r.db.WithContext(ctx).Model(&models.EmailIngest{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns newest-first ingests, optionally filtered by parse status.
func (r *repository) List(ctx context.Context, limit int, cursor *pagination.Cursor, status *enums.ParseStatus) ([]models.EmailIngest, error) {
	query := r.db.WithContext(ctx).
		Omit("raw_text", "raw_html").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit)
	if status != nil {
		query = query.Where("parse_status = ?", *status)
	}
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	var rows []models.EmailIngest
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindStale returns ingests still NEEDS_REVIEW without an order that were
// received before cutoff, oldest first.
func (r *repository) FindStale(ctx context.Context, cutoff time.Time, limit int) ([]models.EmailIngest, error) {
	var rows []models.EmailIngest
	err := r.db.WithContext(ctx).
		Where("parse_status = ? AND order_id IS NULL AND received_at < ?", enums.ParseStatusNeedsReview, cutoff).
		Order("received_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
