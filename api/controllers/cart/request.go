package cart

import (
	cartstore "github.com/tienditahq/tiendita-backend/internal/cart"
)

// AddLineRequest is the payload for adding a product to the cart.
// Quantity zero is accepted and treated as one.
type AddLineRequest struct {
	ProductID  string `json:"product_id" validate:"required"`
	Name       string `json:"name"`
	PriceCents int    `json:"price_cents" validate:"gte=0"`
	Quantity   int    `json:"quantity" validate:"gte=0"`
	SupplierID string `json:"supplier_id,omitempty"`
	Color      string `json:"color,omitempty"`
	Size       string `json:"size,omitempty"`
	Quality    string `json:"quality,omitempty"`
	Image      string `json:"image,omitempty"`
}

func (r AddLineRequest) toLine() cartstore.Line {
	return cartstore.Line{
		ProductID:  r.ProductID,
		Name:       r.Name,
		PriceCents: r.PriceCents,
		Quantity:   r.Quantity,
		SupplierID: r.SupplierID,
		Color:      r.Color,
		Size:       r.Size,
		Quality:    r.Quality,
		Image:      r.Image,
	}
}
