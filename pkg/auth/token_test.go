package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tienditahq/tiendita-backend/pkg/config"
	"github.com/tienditahq/tiendita-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "tiendita-test",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, time.Now().UTC(), AccessTokenPayload{
		UserID: userID,
		Email:  "buyer@example.com",
		Role:   enums.RoleUser,
		JTI:    "access-1",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
	if claims.Role != enums.RoleUser {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.ID != "access-1" {
		t.Fatalf("expected jti access-1, got %s", claims.ID)
	}
}

func TestMintRejectsInvalidRole(t *testing.T) {
	cfg := testJWTConfig()
	_, err := MintAccessToken(cfg, time.Now().UTC(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.Role("superuser"),
	})
	if err == nil {
		t.Fatal("expected invalid role to be rejected")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().UTC(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}
}

func TestParseAllowExpiredAcceptsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	past := time.Now().UTC().Add(-2 * time.Hour)
	token, err := MintAccessToken(cfg, past, AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.RoleSupplier,
		JTI:    "stale",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected strict parse to reject expired token")
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	if err != nil {
		t.Fatalf("lenient parse: %v", err)
	}
	if claims.ID != "stale" {
		t.Fatalf("expected jti stale, got %s", claims.ID)
	}
}
