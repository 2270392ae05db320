package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/tienditahq/tiendita-backend/pkg/config"
	pkgerrors "github.com/tienditahq/tiendita-backend/pkg/errors"
	"github.com/tienditahq/tiendita-backend/pkg/logger"
	"github.com/tienditahq/tiendita-backend/pkg/metrics"
	redisclient "github.com/tienditahq/tiendita-backend/pkg/redis"
)

type blobStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type blobKeyer interface {
	CartKey(owner string) string
}

// Store holds the authoritative in-memory cart per owner, synchronized
// with durable storage and enforcing supplier exclusivity. Construct
// one at startup and inject it; mutations are serialized by a mutex so
// concurrent handlers cannot interleave read-modify-write cycles.
type Store struct {
	mu      sync.Mutex
	carts   map[string][]Line
	store   blobStore
	keyer   blobKeyer
	ttl     time.Duration
	logg    *logger.Logger
	metrics *metrics.CartMetrics
}

// NewStore builds a cart store backed by Redis.
func NewStore(client *redisclient.Client, cfg config.CartConfig, logg *logger.Logger, m *metrics.CartMetrics) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Store{
		carts:   make(map[string][]Line),
		store:   client,
		keyer:   client,
		ttl:     cfg.TTL,
		logg:    logg,
		metrics: m,
	}, nil
}

// Load returns the cart for the owner, reading durable storage on first
// access. Missing, unreadable, or corrupt blobs all read as an empty
// cart; load never fails.
func (s *Store) Load(ctx context.Context, owner string) []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLines(s.loadLocked(ctx, owner))
}

// SupplierID returns the supplier currently constraining the owner's
// cart, or "" when unconstrained.
func (s *Store) SupplierID(ctx context.Context, owner string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SupplierOf(s.loadLocked(ctx, owner))
}

// Add merges the candidate line into the cart. Same product accumulates
// quantity; a zero or negative incoming quantity counts as 1. A line
// from a different supplier is rejected without mutation.
func (s *Store) Add(ctx context.Context, owner string, line Line) ([]Line, error) {
	if line.ProductID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.loadLocked(ctx, owner)
	if err := CanAdd(lines, line); err != nil {
		s.metrics.IncSupplierConflict()
		return cloneLines(lines), err
	}

	merged := false
	for i := range lines {
		if lines[i].ProductID == line.ProductID {
			lines[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, line)
	}

	s.metrics.IncMutation("add")
	return s.commitLocked(ctx, owner, lines)
}

// Remove deletes the line with the matching product ID. A missing
// product is a no-op, not an error.
func (s *Store) Remove(ctx context.Context, owner, productID string) ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.loadLocked(ctx, owner)
	kept := lines[:0:0]
	for _, line := range lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(lines) {
		return cloneLines(lines), nil
	}

	s.metrics.IncMutation("remove")
	return s.commitLocked(ctx, owner, kept)
}

// IncreaseQuantity increments the matching line's quantity by 1. A
// missing product is a silent no-op.
func (s *Store) IncreaseQuantity(ctx context.Context, owner, productID string) ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.loadLocked(ctx, owner)
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity++
			s.metrics.IncMutation("increase")
			return s.commitLocked(ctx, owner, lines)
		}
	}
	return cloneLines(lines), nil
}

// DecreaseQuantity decrements the matching line's quantity by 1 and
// removes the line when it reaches zero. Quantity never goes negative;
// a missing product is a silent no-op.
func (s *Store) DecreaseQuantity(ctx context.Context, owner, productID string) ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.loadLocked(ctx, owner)
	for i := range lines {
		if lines[i].ProductID != productID {
			continue
		}
		lines[i].Quantity--
		if lines[i].Quantity <= 0 {
			lines = append(lines[:i], lines[i+1:]...)
		}
		s.metrics.IncMutation("decrease")
		return s.commitLocked(ctx, owner, lines)
	}
	return cloneLines(lines), nil
}

// Clear empties the cart and deletes the persisted blob entirely, so a
// later Load behaves as first-run. When the delete fails, the empty
// cart stays pinned in memory so the stale blob cannot rehydrate it.
func (s *Store) Clear(ctx context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.IncMutation("clear")
	if err := s.store.Del(ctx, s.keyer.CartKey(owner)); err != nil {
		s.carts[owner] = []Line{}
		s.metrics.IncPersistFailure()
		return pkgerrors.Wrap(pkgerrors.CodeStorageWrite, err, "deleting cart blob")
	}
	delete(s.carts, owner)
	return nil
}

// loadLocked returns the cached cart or hydrates it from storage. The
// caller must hold s.mu.
func (s *Store) loadLocked(ctx context.Context, owner string) []Line {
	if lines, ok := s.carts[owner]; ok {
		return lines
	}

	raw, err := s.store.Get(ctx, s.keyer.CartKey(owner))
	if err != nil {
		if !errors.Is(err, redislib.Nil) {
			s.logg.Warn(s.logg.WithField(ctx, "owner", owner), "cart blob unreadable, starting empty")
		}
		s.carts[owner] = nil
		return nil
	}

	lines, err := DecodeLines(raw)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "owner", owner), "cart blob corrupt, starting empty")
		s.carts[owner] = nil
		return nil
	}

	s.carts[owner] = lines
	return lines
}

// commitLocked installs the mutated cart in memory and persists it.
// A write failure keeps the in-memory state as source of truth and
// surfaces a non-fatal typed error alongside the mutated cart.
func (s *Store) commitLocked(ctx context.Context, owner string, lines []Line) ([]Line, error) {
	s.carts[owner] = lines

	encoded, err := EncodeLines(lines)
	if err != nil {
		s.metrics.IncPersistFailure()
		return cloneLines(lines), pkgerrors.Wrap(pkgerrors.CodeStorageWrite, err, "encoding cart blob")
	}
	if err := s.store.Set(ctx, s.keyer.CartKey(owner), encoded, s.ttl); err != nil {
		s.metrics.IncPersistFailure()
		s.logg.Error(s.logg.WithField(ctx, "owner", owner), "cart persist failed", err)
		return cloneLines(lines), pkgerrors.Wrap(pkgerrors.CodeStorageWrite, err, "persisting cart blob")
	}
	return cloneLines(lines), nil
}

func cloneLines(lines []Line) []Line {
	if len(lines) == 0 {
		return []Line{}
	}
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}
