package mock

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/birthdates/Crypto-Store/store"
)

type value struct {
	data   string
	expiry time.Time // zero means no expiry
}

// Mock implements the store.Store interface for testing purposes.
// Expiry is checked lazily against the injected clock so tests can
// move time instead of sleeping.
type Mock struct {
	mu     sync.Mutex
	values map[string]value
	now    func() time.Time
}

var _ store.Store = (*Mock)(nil)

type Config struct {
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

func New(config Config) *Mock {
	m := &Mock{
		values: make(map[string]value),
		now:    config.Now,
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// lookup fetches a live value, dropping it when expired.
// Callers must hold the mutex.
func (m *Mock) lookup(key string) (v value, ok bool) {
	v, ok = m.values[key]
	if !ok {
		return v, false
	}
	if !v.expiry.IsZero() && !m.now().Before(v.expiry) {
		delete(m.values, key)
		return v, false
	}
	return v, true
}

func (m *Mock) expiry(ttl time.Duration) (expiry time.Time) {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(ttl)
}

func (m *Mock) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.lookup(key)
	if !ok {
		return "", store.ErrNotFound
	}
	return v.data, nil
}

func (m *Mock) Set(ctx context.Context, key, data string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value{data: data, expiry: m.expiry(ttl)}
	return nil
}

func (m *Mock) SetNX(ctx context.Context, key, data string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lookup(key); ok {
		return false, nil
	}
	m.values[key] = value{data: data, expiry: m.expiry(ttl)}
	return true, nil
}

func (m *Mock) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	if v, ok := m.lookup(key); ok {
		parsed, err := strconv.ParseInt(v.data, 10, 64)
		if err != nil {
			return 0, err
		}
		count = parsed
	}
	count++

	v := m.values[key]
	v.data = strconv.FormatInt(count, 10)
	m.values[key] = v
	return count, nil
}

func (m *Mock) Expire(ctx context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.lookup(key)
	if !ok {
		return store.ErrNotFound
	}
	v.expiry = m.expiry(ttl)
	m.values[key] = v
	return nil
}

func (m *Mock) Del(ctx context.Context, keys ...string) (removed int64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		if _, ok := m.lookup(key); ok {
			delete(m.values, key)
			removed++
		}
	}
	return removed, nil
}
