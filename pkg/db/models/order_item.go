package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is a frozen copy of a cart line at checkout time.
type OrderItem struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Name       string    `gorm:"column:name;not null"`
	PriceCents int       `gorm:"column:price_cents;not null"`
	Quantity   int       `gorm:"column:quantity;not null"`
	Color      *string   `gorm:"column:color"`
	Size       *string   `gorm:"column:size"`
	Quality    *string   `gorm:"column:quality"`
	ImageURL   *string   `gorm:"column:image_url"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
