package cart

import (
	"testing"

	pkgerrors "github.com/tienditahq/tiendita-backend/pkg/errors"
)

func TestSupplierOf(t *testing.T) {
	cases := []struct {
		name  string
		lines []Line
		want  string
	}{
		{name: "empty cart", lines: nil, want: ""},
		{
			name:  "supplier-less legacy lines",
			lines: []Line{{ProductID: "p1", Quantity: 1}, {ProductID: "p2", Quantity: 2}},
			want:  "",
		},
		{
			name: "first line with supplier wins",
			lines: []Line{
				{ProductID: "p1", Quantity: 1},
				{ProductID: "p2", Quantity: 1, SupplierID: "sup-a"},
				{ProductID: "p3", Quantity: 1, SupplierID: "sup-a"},
			},
			want: "sup-a",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SupplierOf(tc.lines); got != tc.want {
				t.Fatalf("expected supplier %q, got %q", tc.want, got)
			}
		})
	}
}

func TestCanAdd(t *testing.T) {
	held := []Line{{ProductID: "p1", Quantity: 1, SupplierID: "sup-a"}}

	if err := CanAdd(nil, Line{ProductID: "p2", SupplierID: "sup-b"}); err != nil {
		t.Fatalf("empty cart must accept any supplier: %v", err)
	}
	if err := CanAdd(held, Line{ProductID: "p2"}); err != nil {
		t.Fatalf("supplier-less candidate must always be accepted: %v", err)
	}
	if err := CanAdd(held, Line{ProductID: "p2", SupplierID: "sup-a"}); err != nil {
		t.Fatalf("same supplier must be accepted: %v", err)
	}

	err := CanAdd(held, Line{ProductID: "p2", SupplierID: "sup-b"})
	if !pkgerrors.Is(err, pkgerrors.CodeSupplierConflict) {
		t.Fatalf("expected supplier conflict, got %v", err)
	}
}

func TestCanAddLegacyCartDoesNotConstrain(t *testing.T) {
	legacy := []Line{{ProductID: "p1", Quantity: 3}}
	if err := CanAdd(legacy, Line{ProductID: "p2", SupplierID: "sup-a"}); err != nil {
		t.Fatalf("supplier-less cart must accept a supplier-bound line: %v", err)
	}
}
