package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/tienditahq/tiendita-backend/pkg/auth"
	"github.com/tienditahq/tiendita-backend/pkg/auth/session"
	"github.com/tienditahq/tiendita-backend/pkg/config"
	"github.com/tienditahq/tiendita-backend/pkg/enums"
)

type stubChecker struct {
	active map[string]session.State
}

func (s *stubChecker) Restore(ctx context.Context, accessID string) (session.State, bool, error) {
	state, ok := s.active[accessID]
	return state, ok, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "tiendita-test",
		ExpirationMinutes: 30,
	}
}

func mintToken(t *testing.T, cfg config.JWTConfig, userID uuid.UUID, accessID string) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: userID,
		Email:  "buyer@example.com",
		Role:   enums.RoleUser,
		JTI:    accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthRejectsMissingAndMalformedCredentials(t *testing.T) {
	cfg := testJWTConfig()
	handler := Auth(cfg, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	cases := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "empty bearer", header: "Bearer "},
		{name: "garbage token", header: "Bearer not.a.jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthSeedsContextFromClaims(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()
	accessID := "access-1"
	checker := &stubChecker{active: map[string]session.State{
		accessID: {UserID: userID, Role: enums.RoleUser},
	}}

	var gotUserID, gotRole, gotAccessID string
	handler := Auth(cfg, checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		gotAccessID = AccessIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, userID, accessID))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUserID != userID.String() {
		t.Fatalf("expected user id %s, got %q", userID, gotUserID)
	}
	if gotRole != string(enums.RoleUser) {
		t.Fatalf("expected role user, got %q", gotRole)
	}
	if gotAccessID != accessID {
		t.Fatalf("expected access id %q, got %q", accessID, gotAccessID)
	}
}

func TestAuthRejectsSignedOutSession(t *testing.T) {
	cfg := testJWTConfig()
	checker := &stubChecker{active: map[string]session.State{}}

	handler := Auth(cfg, checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run after sign-out")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, uuid.New(), "stale-access"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(nil, "supplier", "admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), "supplier"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected supplier allowed, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), "user"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected user forbidden, got %d", rec.Code)
	}
}
