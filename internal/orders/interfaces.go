package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/orderdesk-backend/pkg/db/models"
	"github.com/angelmondragon/orderdesk-backend/pkg/pagination"
)

// Repository defines persistence operations for orders, their items and audit events.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateItems(ctx context.Context, items []models.OrderItem) error
	CreateEvent(ctx context.Context, event *models.OrderEvent) error
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindOrderDetail(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, limit int, cursor *pagination.Cursor, filters ListFilters) ([]models.Order, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
}
