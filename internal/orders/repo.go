package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tienditahq/tiendita-backend/pkg/db/models"
	"github.com/tienditahq/tiendita-backend/pkg/enums"
)

const defaultListLimit = 50

// Repository exposes order persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateInTx inserts the order and its items inside the provided transaction.
func (r *Repository) CreateInTx(tx *gorm.DB, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].OrderID = order.ID
	}
	return tx.Create(order).Error
}

// FindByID loads an order with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns the user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Order, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	var out []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	return out, err
}

// ListBySupplier returns orders placed against the supplier, newest first.
func (r *Repository) ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]models.Order, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	var out []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("supplier_id = ?", supplierID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	return out, err
}

// UpdateStatus sets the order's status column.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}
