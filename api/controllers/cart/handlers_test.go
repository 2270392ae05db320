package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/tienditahq/tiendita-backend/api/middleware"
	cartstore "github.com/tienditahq/tiendita-backend/internal/cart"
	pkgerrors "github.com/tienditahq/tiendita-backend/pkg/errors"
)

type fakeStore struct {
	lines     map[string][]cartstore.Line
	addErr    error
	clearErr  error
	clearedBy []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{lines: map[string][]cartstore.Line{}}
}

func (f *fakeStore) Load(ctx context.Context, owner string) []cartstore.Line {
	return f.lines[owner]
}

func (f *fakeStore) Add(ctx context.Context, owner string, line cartstore.Line) ([]cartstore.Line, error) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	if err := cartstore.CanAdd(f.lines[owner], line); err != nil {
		return f.lines[owner], err
	}
	f.lines[owner] = append(f.lines[owner], line)
	return f.lines[owner], f.addErr
}

func (f *fakeStore) Remove(ctx context.Context, owner, productID string) ([]cartstore.Line, error) {
	var kept []cartstore.Line
	for _, line := range f.lines[owner] {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	f.lines[owner] = kept
	return kept, nil
}

func (f *fakeStore) IncreaseQuantity(ctx context.Context, owner, productID string) ([]cartstore.Line, error) {
	for i := range f.lines[owner] {
		if f.lines[owner][i].ProductID == productID {
			f.lines[owner][i].Quantity++
		}
	}
	return f.lines[owner], nil
}

func (f *fakeStore) DecreaseQuantity(ctx context.Context, owner, productID string) ([]cartstore.Line, error) {
	for i := range f.lines[owner] {
		if f.lines[owner][i].ProductID == productID {
			f.lines[owner][i].Quantity--
		}
	}
	return f.lines[owner], nil
}

func (f *fakeStore) Clear(ctx context.Context, owner string) error {
	delete(f.lines, owner)
	f.clearedBy = append(f.clearedBy, owner)
	return f.clearErr
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithUserID(req.Context(), "user-1"))
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) CartResponse {
	t.Helper()
	var envelope struct {
		Data CartResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestAddReturnsCartWithTotals(t *testing.T) {
	store := newFakeStore()
	rec := httptest.NewRecorder()
	body := `{"product_id":"p1","name":"Jacket","price_cents":1000,"quantity":2,"supplier_id":"sup-a"}`

	Add(store, nil)(rec, authedRequest(http.MethodPost, "/cart/items", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	cart := decodeCart(t, rec)
	if cart.TotalCents != 2000 {
		t.Fatalf("expected total 2000, got %d", cart.TotalCents)
	}
	if cart.SupplierID != "sup-a" {
		t.Fatalf("expected supplier sup-a, got %q", cart.SupplierID)
	}
	if !cart.Persisted {
		t.Fatal("expected persisted flag")
	}
}

func TestAddSupplierConflictReturns409(t *testing.T) {
	store := newFakeStore()
	store.lines["user-1"] = []cartstore.Line{{ProductID: "p0", Quantity: 1, SupplierID: "sup-a"}}

	rec := httptest.NewRecorder()
	body := `{"product_id":"p1","quantity":1,"supplier_id":"sup-b"}`
	Add(store, nil)(rec, authedRequest(http.MethodPost, "/cart/items", body))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != "SUPPLIER_CONFLICT" {
		t.Fatalf("expected SUPPLIER_CONFLICT, got %q", envelope.Error.Code)
	}
}

func TestAddPersistFailureReturns202WithCart(t *testing.T) {
	store := newFakeStore()
	store.addErr = pkgerrors.New(pkgerrors.CodeStorageWrite, "redis down")

	rec := httptest.NewRecorder()
	body := `{"product_id":"p1","price_cents":500,"quantity":1}`
	Add(store, nil)(rec, authedRequest(http.MethodPost, "/cart/items", body))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	cart := decodeCart(t, rec)
	if cart.Persisted {
		t.Fatal("expected persisted=false on write failure")
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected mutated cart in response, got %d lines", len(cart.Lines))
	}
}

func TestAddRejectsUnknownFields(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"product_id":"p1","bogus":true}`
	Add(newFakeStore(), nil)(rec, authedRequest(http.MethodPost, "/cart/items", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRemoveUsesPathParam(t *testing.T) {
	store := newFakeStore()
	store.lines["user-1"] = []cartstore.Line{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 1},
	}

	router := chi.NewRouter()
	router.Delete("/cart/items/{productID}", Remove(store, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodDelete, "/cart/items/p1", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cart := decodeCart(t, rec)
	if len(cart.Lines) != 1 || cart.Lines[0].ProductID != "p2" {
		t.Fatalf("expected only p2 left, got %+v", cart.Lines)
	}
}

func TestClearReportsEmptyCart(t *testing.T) {
	store := newFakeStore()
	store.lines["user-1"] = []cartstore.Line{{ProductID: "p1", Quantity: 3}}

	rec := httptest.NewRecorder()
	Clear(store, nil)(rec, authedRequest(http.MethodDelete, "/cart", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cart := decodeCart(t, rec)
	if len(cart.Lines) != 0 || cart.TotalCents != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
	if len(store.clearedBy) != 1 || store.clearedBy[0] != "user-1" {
		t.Fatalf("expected clear for user-1, got %v", store.clearedBy)
	}
}

func TestHandlersRequireAuthContext(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	Fetch(newFakeStore(), nil)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
