package cart

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tienditahq/tiendita-backend/api/middleware"
	"github.com/tienditahq/tiendita-backend/api/responses"
	"github.com/tienditahq/tiendita-backend/api/validators"
	cartstore "github.com/tienditahq/tiendita-backend/internal/cart"
	pkgerrors "github.com/tienditahq/tiendita-backend/pkg/errors"
	"github.com/tienditahq/tiendita-backend/pkg/logger"
)

// Store is the cart surface the handlers depend on.
type Store interface {
	Load(ctx context.Context, owner string) []cartstore.Line
	Add(ctx context.Context, owner string, line cartstore.Line) ([]cartstore.Line, error)
	Remove(ctx context.Context, owner, productID string) ([]cartstore.Line, error)
	IncreaseQuantity(ctx context.Context, owner, productID string) ([]cartstore.Line, error)
	DecreaseQuantity(ctx context.Context, owner, productID string) ([]cartstore.Line, error)
	Clear(ctx context.Context, owner string) error
}

// Fetch returns the caller's cart.
func Fetch(store Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := store.Load(r.Context(), owner)
		responses.WriteSuccess(w, newCartResponse(lines, true))
	}
}

// Add merges a line into the caller's cart. A supplier conflict leaves
// the cart untouched and surfaces as 409; a storage write failure still
// returns the mutated cart, flagged as unpersisted.
func Add(store Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload AddLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := store.Add(r.Context(), owner, payload.toLine())
		writeMutation(r, w, logg, lines, err)
	}
}

// Remove deletes a line by product ID. Missing products are a no-op.
func Remove(store Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := store.Remove(r.Context(), owner, chi.URLParam(r, "productID"))
		writeMutation(r, w, logg, lines, err)
	}
}

// Increase bumps a line's quantity by one.
func Increase(store Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := store.IncreaseQuantity(r.Context(), owner, chi.URLParam(r, "productID"))
		writeMutation(r, w, logg, lines, err)
	}
}

// Decrease lowers a line's quantity by one, removing it at zero.
func Decrease(store Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := store.DecreaseQuantity(r.Context(), owner, chi.URLParam(r, "productID"))
		writeMutation(r, w, logg, lines, err)
	}
}

// Clear empties the cart and deletes the persisted blob.
func Clear(store Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Clear(r.Context(), owner); err != nil {
			if pkgerrors.Is(err, pkgerrors.CodeStorageWrite) {
				if logg != nil {
					logg.Error(r.Context(), "cart clear not persisted", err)
				}
				responses.WriteSuccessStatus(w, http.StatusAccepted, newCartResponse(nil, false))
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(nil, true))
	}
}

// writeMutation maps a cart mutation result onto the wire: a persist
// failure is non-fatal, the mutated cart ships with a 202.
func writeMutation(r *http.Request, w http.ResponseWriter, logg *logger.Logger, lines []cartstore.Line, err error) {
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeStorageWrite) {
			if logg != nil {
				logg.Error(r.Context(), "cart mutation not persisted", err)
			}
			responses.WriteSuccessStatus(w, http.StatusAccepted, newCartResponse(lines, false))
			return
		}
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, newCartResponse(lines, true))
}

func ownerFromContext(r *http.Request) (string, error) {
	owner := middleware.UserIDFromContext(r.Context())
	if owner == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return owner, nil
}
