package conversion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrUnsupportedCurrency = errors.New("unsupported currency")

const DefaultTTL = 10 * time.Minute

// Oracle reports the spot price of one unit of from in to units.
type Oracle interface {
	Rate(ctx context.Context, from, to string) (rate decimal.Decimal, err error)
}

// Cache holds rates per ordered currency pair. Implementations decide
// the tier: process-local memory or the shared store.
type Cache interface {
	Get(ctx context.Context, pair string) (rate decimal.Decimal, ok bool, err error)
	Put(ctx context.Context, pair string, rate decimal.Decimal, ttl time.Duration) (err error)
}

// Converter turns amounts of one currency into another, caching
// oracle rates per pair for a bounded interval.
type Converter struct {
	oracle  Oracle
	cache   Cache
	ttl     time.Duration
	aliases map[string]string
}

type Config struct {
	// Oracle to query rates from
	Oracle Oracle
	// Cache tier. Defaults to a process-local Memory cache.
	Cache Cache
	// TTL of cached rates. Defaults to DefaultTTL.
	TTL time.Duration
	// Aliases substituted before querying the oracle. Used for
	// test tickers the oracle doesn't know, e.g. LTCT -> LTC.
	Aliases map[string]string
}

func New(config Config) (c Converter) {
	c.oracle = config.Oracle
	c.cache = config.Cache
	c.ttl = config.TTL
	c.aliases = config.Aliases

	if c.cache == nil {
		c.cache = NewMemory(MemoryConfig{})
	}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	return c
}

func (c *Converter) currency(ticker string) (curr string) {
	curr = strings.ToUpper(ticker)
	if alias, ok := c.aliases[curr]; ok {
		return alias
	}
	return curr
}

// Convert returns amount of from expressed in to. An empty to means
// USD. Rates come from the cache when fresh, the oracle otherwise.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (converted decimal.Decimal, err error) {
	curr := c.currency(from)
	curr2 := "USD"
	if to != "" {
		curr2 = c.currency(to)
	}
	pair := curr + curr2

	rate, ok, err := c.cache.Get(ctx, pair)
	if err != nil {
		return converted, fmt.Errorf("failed to read rate cache: %w", err)
	}
	if ok {
		return amount.Mul(rate), nil
	}

	rate, err = c.oracle.Rate(ctx, curr, curr2)
	if err != nil {
		return converted, err
	}

	err = c.cache.Put(ctx, pair, rate, c.ttl)
	if err != nil {
		return converted, fmt.Errorf("failed to cache rate: %w", err)
	}
	return amount.Mul(rate), nil
}
