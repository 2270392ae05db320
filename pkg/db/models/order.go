package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tienditahq/tiendita-backend/pkg/enums"
)

// Order snapshots a checked-out cart for a single supplier.
type Order struct {
	ID              uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	SupplierID      *uuid.UUID        `gorm:"column:supplier_id;type:uuid;index"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	SubtotalCents   int               `gorm:"column:subtotal_cents;not null"`
	TotalCents      int               `gorm:"column:total_cents;not null"`
	ShippingAddress *string           `gorm:"column:shipping_address"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
