package testsuite

import (
	"testing"
	"time"

	"github.com/birthdates/Crypto-Store/store"
	"github.com/birthdates/Crypto-Store/utils"
	"github.com/stretchr/testify/require"
)

// Clock drives the expiry tests. Implementations with injectable
// clocks can advance time in Sleep instead of actually sleeping.
type Clock struct {
	// TTL used for expiry tests
	TTL time.Duration
	// Sleep waits until TTL has lapsed
	Sleep func()
}

func Test(t *testing.T, s store.Store, clock Clock) {
	t.Run("GetMissing", func(t *testing.T) {
		assertions := require.New(t)

		ctx, cancel := utils.NewContext()
		defer cancel()

		_, err := s.Get(ctx, "testsuite:missing")
		assertions.ErrorIs(err, store.ErrNotFound)
	})

	t.Run("SetGet", func(t *testing.T) {
		assertions := require.New(t)

		ctx, cancel := utils.NewContext()
		defer cancel()

		err := s.Set(ctx, "testsuite:set", "value", 0)
		assertions.NoError(err)

		value, err := s.Get(ctx, "testsuite:set")
		assertions.NoError(err)
		assertions.Equal("value", value)
	})

	t.Run("SetTTL", func(t *testing.T) {
		assertions := require.New(t)

		ctx, cancel := utils.NewContext()
		defer cancel()

		err := s.Set(ctx, "testsuite:ttl", "value", clock.TTL)
		assertions.NoError(err)

		value, err := s.Get(ctx, "testsuite:ttl")
		assertions.NoError(err)
		assertions.Equal("value", value)

		clock.Sleep()

		_, err = s.Get(ctx, "testsuite:ttl")
		assertions.ErrorIs(err, store.ErrNotFound)
	})

	t.Run("SetNX", func(t *testing.T) {
		assertions := require.New(t)

		ctx, cancel := utils.NewContext()
		defer cancel()

		set, err := s.SetNX(ctx, "testsuite:nx", "first", 0)
		assertions.NoError(err)
		assertions.True(set)

		set, err = s.SetNX(ctx, "testsuite:nx", "second", 0)
		assertions.NoError(err)
		assertions.False(set)

		value, err := s.Get(ctx, "testsuite:nx")
		assertions.NoError(err)
		assertions.Equal("first", value)
	})

	t.Run("Incr", func(t *testing.T) {
		assertions := require.New(t)

		ctx, cancel := utils.NewContext()
		defer cancel()

		for expect := int64(1); expect <= 3; expect++ {
			count, err := s.Incr(ctx, "testsuite:incr")
			assertions.NoError(err)
			assertions.Equal(expect, count)
		}
	})

	t.Run("Expire", func(t *testing.T) {
		assertions := require.New(t)

		ctx, cancel := utils.NewContext()
		defer cancel()

		err := s.Set(ctx, "testsuite:expire", "value", 0)
		assertions.NoError(err)

		err = s.Expire(ctx, "testsuite:expire", clock.TTL)
		assertions.NoError(err)

		clock.Sleep()

		_, err = s.Get(ctx, "testsuite:expire")
		assertions.ErrorIs(err, store.ErrNotFound)
	})

	t.Run("Del", func(t *testing.T) {
		assertions := require.New(t)

		ctx, cancel := utils.NewContext()
		defer cancel()

		err := s.Set(ctx, "testsuite:del", "value", 0)
		assertions.NoError(err)

		removed, err := s.Del(ctx, "testsuite:del", "testsuite:del-missing")
		assertions.NoError(err)
		assertions.Equal(int64(1), removed)

		removed, err = s.Del(ctx, "testsuite:del")
		assertions.NoError(err)
		assertions.Equal(int64(0), removed)
	})
}
