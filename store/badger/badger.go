package badger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/birthdates/Crypto-Store/store"
	badger "github.com/dgraph-io/badger/v4"
)

// Badger implements store.Store on an embedded badger database.
// Single-instance tier: atomicity comes from badger transactions,
// which only holds within one process. Multi-process deployments
// should use the redis implementation instead.
type Badger struct {
	db *badger.DB
}

var _ store.Store = (*Badger)(nil)

type Config struct {
	// Path of the database directory. Empty for in-memory.
	Path string
}

func Open(config Config) (b *Badger, err error) {
	opt := badger.DefaultOptions(config.Path)
	if config.Path == "" {
		opt = opt.WithInMemory(true)
	}
	opt = opt.WithLogger(nil)

	db, err := badger.Open(opt)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Get(ctx context.Context, key string) (value string, err error) {
	err = b.db.View(func(txn *badger.Txn) (err error) {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		contents, err := item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("failed to copy value: %w", err)
		}
		value = string(contents)
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key: %w", err)
	}
	return value, nil
}

func entry(key, value string, ttl time.Duration) (e *badger.Entry) {
	e = badger.NewEntry([]byte(key), []byte(value))
	if ttl > 0 {
		e = e.WithTTL(ttl)
	}
	return e
}

func (b *Badger) Set(ctx context.Context, key, value string, ttl time.Duration) (err error) {
	err = b.db.Update(func(txn *badger.Txn) (err error) {
		return txn.SetEntry(entry(key, value, ttl))
	})
	if err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

func (b *Badger) SetNX(ctx context.Context, key, value string, ttl time.Duration) (set bool, err error) {
	err = b.db.Update(func(txn *badger.Txn) (err error) {
		_, err = txn.Get([]byte(key))
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		set = true
		return txn.SetEntry(entry(key, value, ttl))
	})
	if err != nil {
		return false, fmt.Errorf("failed to setnx key: %w", err)
	}
	return set, nil
}

func (b *Badger) Incr(ctx context.Context, key string) (value int64, err error) {
	err = b.db.Update(func(txn *badger.Txn) (err error) {
		item, err := txn.Get([]byte(key))
		switch {
		case err == nil:
			contents, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("failed to copy value: %w", err)
			}
			value, err = strconv.ParseInt(string(contents), 10, 64)
			if err != nil {
				return fmt.Errorf("value is not an integer: %w", err)
			}
		case errors.Is(err, badger.ErrKeyNotFound):
			value = 0
		default:
			return err
		}

		value++
		return txn.Set([]byte(key), []byte(strconv.FormatInt(value, 10)))
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment key: %w", err)
	}
	return value, nil
}

func (b *Badger) Expire(ctx context.Context, key string, ttl time.Duration) (err error) {
	err = b.db.Update(func(txn *badger.Txn) (err error) {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		contents, err := item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("failed to copy value: %w", err)
		}
		return txn.SetEntry(entry(key, string(contents), ttl))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to expire key: %w", err)
	}
	return nil
}

func (b *Badger) Del(ctx context.Context, keys ...string) (removed int64, err error) {
	err = b.db.Update(func(txn *badger.Txn) (err error) {
		for _, key := range keys {
			_, err = txn.Get([]byte(key))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			err = txn.Delete([]byte(key))
			if err != nil {
				return fmt.Errorf("failed to delete key: %w", err)
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete keys: %w", err)
	}
	return removed, nil
}

// Close flushes and closes the underlying database.
func (b *Badger) Close() (err error) {
	return b.db.Close()
}
