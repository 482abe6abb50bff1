package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("key not found")

// Store is the key-value layer every stateful component sits on.
// Implementations must guarantee per-key atomicity for Incr, Set,
// SetNX and Del; no stronger coordination is assumed anywhere.
type Store interface {
	// Get returns the value at key. ErrNotFound on miss or expiry.
	Get(ctx context.Context, key string) (value string, err error)
	// Set writes value at key. A zero ttl means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) (err error)
	// SetNX writes value at key only if the key is absent.
	// Reports whether the write happened.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (set bool, err error)
	// Incr atomically increments the integer at key, creating it at 0.
	Incr(ctx context.Context, key string) (value int64, err error)
	// Expire re-arms the ttl of an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) (err error)
	// Del removes keys and returns how many actually existed.
	Del(ctx context.Context, keys ...string) (removed int64, err error)
}

func SessionKey(session string) (key string) {
	return fmt.Sprintf("txn-session:%s", session)
}

func StatusKey(txnID string) (key string) {
	return fmt.Sprintf("txn-status:%s", txnID)
}

func CardKey(txnID string) (key string) {
	return fmt.Sprintf("txn-card:%s", txnID)
}

func RateLimitKey(id, address string) (key string) {
	return fmt.Sprintf("ratelimit:%s:%s", id, address)
}
