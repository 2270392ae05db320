package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/tienditahq/tiendita-backend/pkg/db/models"
)

// CreateProductDTO captures the fields a supplier provides for a new product.
type CreateProductDTO struct {
	SupplierID  uuid.UUID
	Name        string
	Description *string
	PriceCents  int
	Color       *string
	Size        *string
	Quality     *string
	ImageURL    *string
}

// UpdateProductDTO carries partial updates; nil fields are left untouched.
type UpdateProductDTO struct {
	Name        *string
	Description *string
	PriceCents  *int
	Color       *string
	Size        *string
	Quality     *string
	ImageURL    *string
	IsActive    *bool
}

// ListFilter narrows product listings.
type ListFilter struct {
	SupplierID *uuid.UUID
	ActiveOnly bool
	Search     string
	Limit      int
	Offset     int
}

// ProductDTO is the public product shape returned by the API.
type ProductDTO struct {
	ID          uuid.UUID `json:"id"`
	SupplierID  uuid.UUID `json:"supplier_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	PriceCents  int       `json:"price_cents"`
	Color       *string   `json:"color,omitempty"`
	Size        *string   `json:"size,omitempty"`
	Quality     *string   `json:"quality,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromModel maps a persistence model to the public shape.
func FromModel(product *models.Product) ProductDTO {
	return ProductDTO{
		ID:          product.ID,
		SupplierID:  product.SupplierID,
		Name:        product.Name,
		Description: product.Description,
		PriceCents:  product.PriceCents,
		Color:       product.Color,
		Size:        product.Size,
		Quality:     product.Quality,
		ImageURL:    product.ImageURL,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
	}
}
