package conversion

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/birthdates/Crypto-Store/store"
	"github.com/shopspring/decimal"
)

type cached struct {
	rate   decimal.Decimal
	expiry time.Time
}

// Memory is the process-local cache tier. Multi-instance deployments
// either accept redundant oracle calls per instance or switch to the
// Store tier.
type Memory struct {
	mu    sync.Mutex
	rates map[string]cached
	now   func() time.Time
}

var _ Cache = (*Memory)(nil)

type MemoryConfig struct {
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

func NewMemory(config MemoryConfig) *Memory {
	m := &Memory{
		rates: make(map[string]cached),
		now:   config.Now,
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

func (m *Memory) Get(ctx context.Context, pair string) (rate decimal.Decimal, ok bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.rates[pair]
	if !ok || !m.now().Before(entry.expiry) {
		return rate, false, nil
	}
	return entry.rate, true, nil
}

func (m *Memory) Put(ctx context.Context, pair string, rate decimal.Decimal, ttl time.Duration) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rates[pair] = cached{rate: rate, expiry: m.now().Add(ttl)}
	return nil
}

// Store is the shared cache tier on top of the key-value store, for
// deployments running more than one process.
type Store struct {
	store store.Store
}

var _ Cache = (*Store)(nil)

func NewStore(s store.Store) *Store {
	return &Store{store: s}
}

func storeKey(pair string) (key string) {
	return fmt.Sprintf("conversion:%s", pair)
}

func (s *Store) Get(ctx context.Context, pair string) (rate decimal.Decimal, ok bool, err error) {
	value, err := s.store.Get(ctx, storeKey(pair))
	if errors.Is(err, store.ErrNotFound) {
		return rate, false, nil
	}
	if err != nil {
		return rate, false, err
	}

	rate, err = decimal.NewFromString(value)
	if err != nil {
		// Treat an undecodable entry as a miss so it gets rewritten.
		return rate, false, nil
	}
	return rate, true, nil
}

func (s *Store) Put(ctx context.Context, pair string, rate decimal.Decimal, ttl time.Duration) (err error) {
	return s.store.Set(ctx, storeKey(pair), rate.String(), ttl)
}
