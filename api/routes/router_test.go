package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/tienditahq/tiendita-backend/internal/auth"
	cartstore "github.com/tienditahq/tiendita-backend/internal/cart"
	"github.com/tienditahq/tiendita-backend/internal/orders"
	"github.com/tienditahq/tiendita-backend/internal/products"
	pkgauth "github.com/tienditahq/tiendita-backend/pkg/auth"
	"github.com/tienditahq/tiendita-backend/pkg/auth/session"
	"github.com/tienditahq/tiendita-backend/pkg/config"
	"github.com/tienditahq/tiendita-backend/pkg/enums"
	"github.com/tienditahq/tiendita-backend/pkg/logger"
)

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, req authsvc.RegisterRequest) (*authsvc.AuthResponse, error) {
	return &authsvc.AuthResponse{}, nil
}

func (stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.AuthResponse, error) {
	return &authsvc.AuthResponse{}, nil
}

func (stubAuthService) Refresh(ctx context.Context, accessID string, req authsvc.RefreshRequest) (*authsvc.AuthResponse, error) {
	return &authsvc.AuthResponse{}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubProductService struct{}

func (stubProductService) Create(ctx context.Context, dto products.CreateProductDTO) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (stubProductService) GetByID(ctx context.Context, id uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: id}, nil
}

func (stubProductService) List(ctx context.Context, filter products.ListFilter) ([]products.ProductDTO, error) {
	return []products.ProductDTO{}, nil
}

func (stubProductService) Update(ctx context.Context, id, supplierID uuid.UUID, dto products.UpdateProductDTO) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: id}, nil
}

func (stubProductService) Deactivate(ctx context.Context, id, supplierID uuid.UUID) error {
	return nil
}

type stubOrderService struct{}

func (stubOrderService) Checkout(ctx context.Context, userID uuid.UUID, req orders.CheckoutRequest) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrderService) GetByID(ctx context.Context, userID uuid.UUID, role enums.Role, orderID uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrderService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]orders.OrderDTO, error) {
	return []orders.OrderDTO{}, nil
}

func (stubOrderService) ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]orders.OrderDTO, error) {
	return []orders.OrderDTO{}, nil
}

func (stubOrderService) UpdateStatus(ctx context.Context, actorID uuid.UUID, role enums.Role, orderID uuid.UUID, target enums.OrderStatus) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) Restore(ctx context.Context, accessID string) (session.State, bool, error) {
	return session.State{UserID: uuid.New()}, true, nil
}

type stubCartStore struct {
	lines map[string][]cartstore.Line
}

func newStubCartStore() *stubCartStore {
	return &stubCartStore{lines: map[string][]cartstore.Line{}}
}

func (s *stubCartStore) Load(ctx context.Context, owner string) []cartstore.Line {
	return s.lines[owner]
}

func (s *stubCartStore) Add(ctx context.Context, owner string, line cartstore.Line) ([]cartstore.Line, error) {
	s.lines[owner] = append(s.lines[owner], line)
	return s.lines[owner], nil
}

func (s *stubCartStore) Remove(ctx context.Context, owner, productID string) ([]cartstore.Line, error) {
	return s.lines[owner], nil
}

func (s *stubCartStore) IncreaseQuantity(ctx context.Context, owner, productID string) ([]cartstore.Line, error) {
	return s.lines[owner], nil
}

func (s *stubCartStore) DecreaseQuantity(ctx context.Context, owner, productID string) ([]cartstore.Line, error) {
	return s.lines[owner], nil
}

func (s *stubCartStore) Clear(ctx context.Context, owner string) error {
	delete(s.lines, owner)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		nil, // redis, rate limit policies are disabled by the zero config
		stubSessionChecker{},
		nil, // metrics gatherer
		stubAuthService{},
		stubProductService{},
		stubOrderService{},
		newStubCartStore(),
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.Role) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "user@example.com",
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestPublicProductRoutes(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 without token got %d", resp.Code)
	}
}

func TestCartRoutesRejectMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCartRoutesAcceptValidJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestSupplierRoutesRequireSupplierRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	body := `{"name":"Jacket","price_cents":1000}`
	asUser := httptest.NewRequest(http.MethodPost, "/api/v1/supplier/products", strings.NewReader(body))
	asUser.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, asUser)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role got %d", resp.Code)
	}

	asSupplier := httptest.NewRequest(http.MethodPost, "/api/v1/supplier/products", strings.NewReader(body))
	asSupplier.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleSupplier))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, asSupplier)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for supplier got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestSupplierOrdersRouteRequiresSupplierRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	asUser := httptest.NewRequest(http.MethodGet, "/api/v1/supplier/orders", nil)
	asUser.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, asUser)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role got %d", resp.Code)
	}

	asSupplier := httptest.NewRequest(http.MethodGet, "/api/v1/supplier/orders", nil)
	asSupplier.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleSupplier))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, asSupplier)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for supplier got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRefreshAcceptsExpiredAccessToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	// minted two hours ago against a one hour expiry
	expired, err := pkgauth.MintAccessToken(cfg.JWT, time.Now().Add(-2*time.Hour), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "user@example.com",
		Role:   enums.RoleUser,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"opaque"}`))
	req.Header.Set("Authorization", "Bearer "+expired)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with expired bearer token got %d: %s", resp.Code, resp.Body.String())
	}

	noToken := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"opaque"}`))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, noToken)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer token got %d", resp.Code)
	}
}

func TestOrderStatusRouteForbidsBuyers(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	target := "/api/v1/orders/" + uuid.NewString() + "/status"
	req := httptest.NewRequest(http.MethodPatch, target, strings.NewReader(`{"status":"confirmed"}`))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role got %d", resp.Code)
	}
}

func TestCheckoutRouteAcceptsEmptyBody(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}
