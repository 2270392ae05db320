package cart

import (
	cartstore "github.com/tienditahq/tiendita-backend/internal/cart"
)

// CartResponse is the cart shape returned to clients.
type CartResponse struct {
	Lines      []cartstore.Line `json:"lines"`
	SupplierID string           `json:"supplier_id,omitempty"`
	TotalCents int              `json:"total_cents"`
	Persisted  bool             `json:"persisted"`
}

func newCartResponse(lines []cartstore.Line, persisted bool) CartResponse {
	total := 0
	for _, line := range lines {
		total += line.PriceCents * line.Quantity
	}
	return CartResponse{
		Lines:      lines,
		SupplierID: cartstore.SupplierOf(lines),
		TotalCents: total,
		Persisted:  persisted,
	}
}
