package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/birthdates/Crypto-Store/store"
)

// Limiter is a fixed-window counter per (endpoint id, client address).
// The window expiry is re-armed on every call, so steady traffic keeps
// sliding the window forward and a capped client stays blocked until
// its calls stop.
type Limiter struct {
	store  store.Store
	id     string
	window time.Duration
	max    int64
}

type Config struct {
	// Store holding the counters
	Store store.Store
	// ID of the endpoint being limited
	ID string
	// Window length; also the counter TTL
	Window time.Duration
	// Max calls per window
	Max int64
}

func New(config Config) (l Limiter) {
	l.store = config.Store
	l.id = config.ID
	l.window = config.Window
	l.max = config.Max

	return l
}

// Allow counts one call from address and reports whether it may
// proceed. Store failures deny the call.
func (l *Limiter) Allow(ctx context.Context, address string) (allowed bool, err error) {
	key := store.RateLimitKey(l.id, address)

	count, err := l.store.Incr(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to increment counter: %w", err)
	}

	err = l.store.Expire(ctx, key, l.window)
	if err != nil {
		return false, fmt.Errorf("failed to arm counter expiry: %w", err)
	}

	return count <= l.max, nil
}
