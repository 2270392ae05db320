package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry owned by a supplier.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID  uuid.UUID `gorm:"column:supplier_id;type:uuid;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	PriceCents  int       `gorm:"column:price_cents;not null"`
	Color       *string   `gorm:"column:color"`
	Size        *string   `gorm:"column:size"`
	Quality     *string   `gorm:"column:quality"`
	ImageURL    *string   `gorm:"column:image_url"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
