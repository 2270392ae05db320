package cart

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Line is one product entry inside a cart. An empty SupplierID marks a
// legacy line persisted before suppliers were tracked; such lines never
// constrain the cart.
type Line struct {
	ProductID  string `json:"product_id" validate:"required"`
	Name       string `json:"name"`
	PriceCents int    `json:"price_cents" validate:"gte=0"`
	Quantity   int    `json:"quantity" validate:"gte=1"`
	SupplierID string `json:"supplier_id,omitempty"`
	Color      string `json:"color,omitempty"`
	Size       string `json:"size,omitempty"`
	Quality    string `json:"quality,omitempty"`
	Image      string `json:"image,omitempty"`
}

var lineValidator = validator.New(validator.WithRequiredStructEnabled())

// EncodeLines serializes the cart for durable storage.
func EncodeLines(lines []Line) (string, error) {
	payload, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("encoding cart: %w", err)
	}
	return string(payload), nil
}

// DecodeLines parses and validates a persisted cart blob. Any malformed
// line poisons the whole payload; callers decide whether that is fatal
// (it is not at load time, where a bad blob reads as an empty cart).
func DecodeLines(raw string) ([]Line, error) {
	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("decoding cart: %w", err)
	}
	for i, line := range lines {
		if err := lineValidator.Struct(line); err != nil {
			return nil, fmt.Errorf("cart line %d invalid: %w", i, err)
		}
	}
	return lines, nil
}
