// Package cart keeps shopping carts and runs the simulated checkout.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"shopping-assistant/internal/common/database"
	"shopping-assistant/internal/models"
)

// DefaultTTL is how long an untouched cart survives in Redis.
const DefaultTTL = 24 * time.Hour

// ErrNotFound is returned by a Store when no cart is stored under the ID.
var ErrNotFound = errors.New("cart not found")

// Store persists whole carts. Implementations must be safe for concurrent use.
type Store interface {
	Load(ctx context.Context, id string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps each cart as JSON under cart:<id>.
type RedisStore struct {
	redis *database.RedisClient
	ttl   time.Duration
}

func NewRedisStore(redis *database.RedisClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{redis: redis, ttl: ttl}
}

func key(id string) string {
	return fmt.Sprintf("cart:%s", id)
}

func (s *RedisStore) Load(ctx context.Context, id string) (*models.Cart, error) {
	var c models.Cart
	err := s.redis.GetJSON(ctx, key(id), &c)
	if errors.Is(err, database.ErrCacheMiss) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", id, err)
	}
	return &c, nil
}

// Save refreshes the TTL on every write.
func (s *RedisStore) Save(ctx context.Context, cart *models.Cart) error {
	if err := s.redis.SetJSON(ctx, key(cart.ID), cart, s.ttl); err != nil {
		return fmt.Errorf("save cart %s: %w", cart.ID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, key(id)); err != nil {
		return fmt.Errorf("delete cart %s: %w", id, err)
	}
	return nil
}

// MemoryStore is a process-local Store. Carts are copied in and out so callers
// never share item slices with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]models.Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]models.Cart)}
}

func (s *MemoryStore) Load(ctx context.Context, id string) (*models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.Items = append([]models.CartItem(nil), c.Items...)
	return &c, nil
}

func (s *MemoryStore) Save(ctx context.Context, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *cart
	c.Items = append([]models.CartItem(nil), cart.Items...)
	s.carts[cart.ID] = c
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, id)
	return nil
}
