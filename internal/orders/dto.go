package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/tienditahq/tiendita-backend/pkg/db/models"
	"github.com/tienditahq/tiendita-backend/pkg/enums"
)

// CheckoutRequest is the payload submitted when placing an order.
type CheckoutRequest struct {
	ShippingAddress *string `json:"shipping_address,omitempty"`
}

// OrderItemDTO is one frozen cart line inside an order.
type OrderItemDTO struct {
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	PriceCents int       `json:"price_cents"`
	Quantity   int       `json:"quantity"`
	Color      *string   `json:"color,omitempty"`
	Size       *string   `json:"size,omitempty"`
	Quality    *string   `json:"quality,omitempty"`
	ImageURL   *string   `json:"image_url,omitempty"`
}

// OrderDTO is the public order shape returned by the API.
type OrderDTO struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"user_id"`
	SupplierID      *uuid.UUID        `json:"supplier_id,omitempty"`
	Status          enums.OrderStatus `json:"status"`
	SubtotalCents   int               `json:"subtotal_cents"`
	TotalCents      int               `json:"total_cents"`
	ShippingAddress *string           `json:"shipping_address,omitempty"`
	Items           []OrderItemDTO    `json:"items"`
	CreatedAt       time.Time         `json:"created_at"`
}

// FromModel maps a persistence model to the public shape.
func FromModel(order *models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ProductID:  item.ProductID,
			Name:       item.Name,
			PriceCents: item.PriceCents,
			Quantity:   item.Quantity,
			Color:      item.Color,
			Size:       item.Size,
			Quality:    item.Quality,
			ImageURL:   item.ImageURL,
		})
	}
	return OrderDTO{
		ID:              order.ID,
		UserID:          order.UserID,
		SupplierID:      order.SupplierID,
		Status:          order.Status,
		SubtotalCents:   order.SubtotalCents,
		TotalCents:      order.TotalCents,
		ShippingAddress: order.ShippingAddress,
		Items:           items,
		CreatedAt:       order.CreatedAt,
	}
}
