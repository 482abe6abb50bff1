package ratelimit_test

import (
	"sync"
	"testing"
	"time"

	"github.com/birthdates/Crypto-Store/ratelimit"
	"github.com/birthdates/Crypto-Store/store/mock"
	"github.com/birthdates/Crypto-Store/utils"
	"github.com/stretchr/testify/require"
)

func Test_Boundary(t *testing.T) {
	assertions := require.New(t)

	var mu sync.Mutex
	now := time.Now()
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}

	s := mock.New(mock.Config{
		Now: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		},
	})

	const window = 30 * time.Minute
	limiter := ratelimit.New(ratelimit.Config{
		Store:  s,
		ID:     "create-transaction",
		Window: window,
		Max:    3,
	})

	ctx, cancel := utils.NewContext()
	defer cancel()

	// Calls 1 through 3 fit in the window; call 4 is over the cap.
	for call := 1; call <= 3; call++ {
		allowed, err := limiter.Allow(ctx, "10.0.0.1")
		assertions.NoError(err)
		assertions.True(allowed, "call %d should pass", call)
	}

	allowed, err := limiter.Allow(ctx, "10.0.0.1")
	assertions.NoError(err)
	assertions.False(allowed, "call 4 should be denied")

	// Other addresses are counted separately.
	allowed, err = limiter.Allow(ctx, "10.0.0.2")
	assertions.NoError(err)
	assertions.True(allowed)

	// Once the window lapses without calls the counter resets.
	advance(window + time.Second)

	allowed, err = limiter.Allow(ctx, "10.0.0.1")
	assertions.NoError(err)
	assertions.True(allowed, "call after window should pass")
}

func Test_SlidingReset(t *testing.T) {
	assertions := require.New(t)

	var mu sync.Mutex
	now := time.Now()

	s := mock.New(mock.Config{
		Now: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		},
	})

	const window = time.Minute
	limiter := ratelimit.New(ratelimit.Config{
		Store:  s,
		ID:     "conversion",
		Window: window,
		Max:    3,
	})

	ctx, cancel := utils.NewContext()
	defer cancel()

	// Each call re-arms the expiry, so calls spaced inside the
	// window keep the same counter alive until it hits the cap.
	for call := 1; call <= 3; call++ {
		allowed, err := limiter.Allow(ctx, "10.0.0.1")
		assertions.NoError(err)
		assertions.True(allowed)

		mu.Lock()
		now = now.Add(window / 2)
		mu.Unlock()
	}

	allowed, err := limiter.Allow(ctx, "10.0.0.1")
	assertions.NoError(err)
	assertions.False(allowed, "counter should have survived the spaced calls")
}
