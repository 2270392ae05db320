package cart

import (
	pkgerrors "github.com/tienditahq/tiendita-backend/pkg/errors"
)

// SupplierOf returns the supplier that currently constrains the cart:
// the SupplierID of the first line carrying one, or "" when the cart is
// empty or entirely supplier-less.
func SupplierOf(lines []Line) string {
	for _, line := range lines {
		if line.SupplierID != "" {
			return line.SupplierID
		}
	}
	return ""
}

// CanAdd decides whether the candidate line may join the cart without
// mixing suppliers. It is pure: no storage, no mutation.
//
// A candidate without a supplier is always accepted. Otherwise the cart
// must be unconstrained or already held by the same supplier.
func CanAdd(lines []Line, candidate Line) error {
	if candidate.SupplierID == "" {
		return nil
	}
	current := SupplierOf(lines)
	if current == "" || current == candidate.SupplierID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeSupplierConflict, "cart already holds items from another supplier").
		WithDetails(map[string]string{
			"cart_supplier_id":      current,
			"candidate_supplier_id": candidate.SupplierID,
		})
}
