package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/tienditahq/tiendita-backend/pkg/config"
	"github.com/tienditahq/tiendita-backend/pkg/enums"
	redisclient "github.com/tienditahq/tiendita-backend/pkg/redis"
)

const refreshTokenBytes = 32

var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// State is the credential bundle persisted for an active session. A missing
// or unreadable bundle means the holder is unauthenticated; there is no
// intermediate state once restore completes.
type State struct {
	UserID       uuid.UUID  `json:"user_id"`
	Email        string     `json:"email"`
	Role         enums.Role `json:"role"`
	RefreshToken string     `json:"refresh_token"`
}

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(accessID string) string
}

// Manager is the process-wide sign-in gate: it owns creation, restoration,
// rotation, and destruction of session credential bundles.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// Checker exposes the read-only surface needed by the auth middleware.
type Checker interface {
	Restore(ctx context.Context, accessID string) (State, bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	if ttl <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}

	return &Manager{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// SignIn persists the credential bundle for the access ID and returns the
// refresh token minted for it. The caller supplies identity fields; this
// component only stores them.
func (m *Manager) SignIn(ctx context.Context, accessID string, state State) (string, error) {
	if strings.TrimSpace(accessID) == "" {
		return "", fmt.Errorf("access id is required")
	}
	token, err := generateRefreshToken()
	if err != nil {
		return "", err
	}
	state.RefreshToken = token
	if err := m.write(ctx, accessID, state); err != nil {
		return "", err
	}
	return token, nil
}

// SignOut deletes every persisted credential key for the access ID. A
// subsequent Restore behaves as if the user never signed in.
func (m *Manager) SignOut(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Del(ctx, m.keyer.SessionKey(accessID))
}

// Restore loads the credential bundle for the access ID. Missing keys and
// unparsable payloads both yield (zero, false, nil): the session simply does
// not exist. Only transport failures surface as errors.
func (m *Manager) Restore(ctx context.Context, accessID string) (State, bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return State{}, false, fmt.Errorf("access id is required")
	}
	raw, err := m.store.Get(ctx, m.keyer.SessionKey(accessID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return State{}, false, nil
		}
		return State{}, false, err
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return State{}, false, nil
	}
	if state.UserID == uuid.Nil {
		return State{}, false, nil
	}
	return state, true, nil
}

// Rotate validates the provided refresh token, invalidates the prior session,
// and re-homes the bundle under a fresh access ID.
func (m *Manager) Rotate(ctx context.Context, oldAccessID, provided string) (string, State, error) {
	if strings.TrimSpace(oldAccessID) == "" || strings.TrimSpace(provided) == "" {
		return "", State{}, ErrInvalidRefreshToken
	}

	state, ok, err := m.Restore(ctx, oldAccessID)
	if err != nil {
		return "", State{}, err
	}
	if !ok {
		return "", State{}, ErrInvalidRefreshToken
	}

	if subtle.ConstantTimeCompare([]byte(state.RefreshToken), []byte(provided)) != 1 {
		return "", State{}, ErrInvalidRefreshToken
	}

	newAccessID := NewAccessID()
	newToken, err := generateRefreshToken()
	if err != nil {
		return "", State{}, err
	}
	state.RefreshToken = newToken
	if err := m.write(ctx, newAccessID, state); err != nil {
		return "", State{}, err
	}

	if err := m.store.Del(ctx, m.keyer.SessionKey(oldAccessID)); err != nil {
		return "", State{}, err
	}

	return newAccessID, state, nil
}

func (m *Manager) write(ctx context.Context, accessID string, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding session state: %w", err)
	}
	return m.store.Set(ctx, m.keyer.SessionKey(accessID), string(payload), m.ttl)
}

// NewAccessID produces a stable identifier used as the JWT jti/Redis key.
func NewAccessID() string {
	return uuid.NewString()
}

func generateRefreshToken() (string, error) {
	bytes := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
