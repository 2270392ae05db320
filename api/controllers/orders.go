package controllers

import (
	"net/http"

	"github.com/tienditahq/tiendita-backend/api/middleware"
	"github.com/tienditahq/tiendita-backend/api/responses"
	"github.com/tienditahq/tiendita-backend/api/validators"
	"github.com/tienditahq/tiendita-backend/internal/orders"
	"github.com/tienditahq/tiendita-backend/pkg/enums"
	pkgerrors "github.com/tienditahq/tiendita-backend/pkg/errors"
	"github.com/tienditahq/tiendita-backend/pkg/logger"
)

// UpdateOrderStatusRequest moves an order along its lifecycle.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderCheckout places an order from the caller's cart.
func OrderCheckout(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// the body is optional; shipping address is the only field
		var payload orders.CheckoutRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		out, err := svc.Checkout(r.Context(), userID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}

// OrderGet serves one order, visible to its owner and admins.
func OrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, _ := enums.ParseRole(middleware.RoleFromContext(r.Context()))
		out, err := svc.GetByID(r.Context(), userID, role, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// OrderList serves the caller's order history.
func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.ListByUser(r.Context(), userID, queryInt(r, "limit"), queryInt(r, "offset"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// OrderListBySupplier serves the orders placed against the calling supplier.
func OrderListBySupplier(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.ListBySupplier(r.Context(), supplierID, queryInt(r, "limit"), queryInt(r, "offset"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// OrderUpdateStatus moves an order to a new lifecycle state.
func OrderUpdateStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload UpdateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown order status"))
			return
		}

		role, _ := enums.ParseRole(middleware.RoleFromContext(r.Context()))
		out, err := svc.UpdateStatus(r.Context(), actorID, role, orderID, target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}
