package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tienditahq/tiendita-backend/api/middleware"
	"github.com/tienditahq/tiendita-backend/api/responses"
	"github.com/tienditahq/tiendita-backend/api/validators"
	"github.com/tienditahq/tiendita-backend/internal/products"
	pkgerrors "github.com/tienditahq/tiendita-backend/pkg/errors"
	"github.com/tienditahq/tiendita-backend/pkg/logger"
)

// CreateProductRequest is the supplier-facing creation payload.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
	PriceCents  int     `json:"price_cents" validate:"gte=0"`
	Color       *string `json:"color,omitempty"`
	Size        *string `json:"size,omitempty"`
	Quality     *string `json:"quality,omitempty"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UpdateProductRequest carries partial updates; absent fields are untouched.
type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	PriceCents  *int    `json:"price_cents,omitempty" validate:"omitempty,gte=0"`
	Color       *string `json:"color,omitempty"`
	Size        *string `json:"size,omitempty"`
	Quality     *string `json:"quality,omitempty"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// ProductList serves the public catalog.
func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := products.ListFilter{
			ActiveOnly: true,
			Search:     r.URL.Query().Get("q"),
			Limit:      queryInt(r, "limit"),
			Offset:     queryInt(r, "offset"),
		}
		if raw := r.URL.Query().Get("supplier_id"); raw != "" {
			supplierID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid supplier id"))
				return
			}
			filter.SupplierID = &supplierID
		}

		out, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// ProductGet serves a single catalog entry.
func ProductGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// ProductCreate lets a supplier add a catalog entry under their own ID.
func ProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload CreateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.Create(r.Context(), products.CreateProductDTO{
			SupplierID:  supplierID,
			Name:        payload.Name,
			Description: payload.Description,
			PriceCents:  payload.PriceCents,
			Color:       payload.Color,
			Size:        payload.Size,
			Quality:     payload.Quality,
			ImageURL:    payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}

// ProductUpdate applies a partial update to the supplier's own product.
func ProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload UpdateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.Update(r.Context(), id, supplierID, products.UpdateProductDTO{
			Name:        payload.Name,
			Description: payload.Description,
			PriceCents:  payload.PriceCents,
			Color:       payload.Color,
			Size:        payload.Size,
			Quality:     payload.Quality,
			ImageURL:    payload.ImageURL,
			IsActive:    payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// ProductDeactivate hides the supplier's product from the catalog.
func ProductDeactivate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), id, supplierID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

func actorUUID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+param)
	}
	return id, nil
}

func queryInt(r *http.Request, key string) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0
	}
	return value
}
