package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/birthdates/Crypto-Store/cmd/crypto-store/internal/router"
	"github.com/birthdates/Crypto-Store/coinpayments/api"
	"github.com/birthdates/Crypto-Store/conversion"
	"github.com/birthdates/Crypto-Store/conversion/cryptocompare"
	"github.com/birthdates/Crypto-Store/giftcard"
	"github.com/birthdates/Crypto-Store/giftcard/craftingstore"
	"github.com/birthdates/Crypto-Store/giftcard/tebex"
	"github.com/birthdates/Crypto-Store/store"
	storebadger "github.com/birthdates/Crypto-Store/store/badger"
	storeredis "github.com/birthdates/Crypto-Store/store/redis"
	"github.com/birthdates/Crypto-Store/transaction"
)

// Yaml configuration reference
type (
	StoreConfig struct {
		// Backend is either redis (shared) or badger (embedded)
		Backend string `yaml:"backend"`
		// Address of the redis server
		Address string `yaml:"address,omitempty"`
		// Password for redis, empty if auth is disabled
		Password string `yaml:"password,omitempty"`
		// DB index for redis
		DB int `yaml:"db,omitempty"`
		// Path of the badger database directory
		Path string `yaml:"path,omitempty"`
	}
	CoinpaymentsConfig struct {
		URL        string `yaml:"url,omitempty"`
		PublicKey  string `yaml:"public-key"`
		PrivateKey string `yaml:"private-key"`
		MerchantID string `yaml:"merchant-id"`
		IPNSecret  string `yaml:"ipn-secret"`
	}
	GiftcardConfig struct {
		Backend giftcard.Backend `yaml:"backend"`
		URL     string           `yaml:"url,omitempty"`
		// Secret for tebex, token for craftingstore
		Secret string `yaml:"secret"`
	}
	ConversionConfig struct {
		// OracleURL of the price endpoint
		OracleURL string `yaml:"oracle-url,omitempty"`
		// Cache tier: memory (default) or store
		Cache string `yaml:"cache,omitempty"`
		// TTL of cached rates
		TTL time.Duration `yaml:"ttl,omitempty"`
		// Aliases substitute test tickers before oracle queries
		Aliases map[string]string `yaml:"aliases,omitempty"`
	}
	Config struct {
		ListenAddress string             `yaml:"listen-address"`
		SessionTTL    time.Duration      `yaml:"session-ttl,omitempty"`
		Store         StoreConfig        `yaml:"store"`
		Coinpayments  CoinpaymentsConfig `yaml:"coinpayments"`
		Giftcard      GiftcardConfig     `yaml:"giftcard"`
		Conversion    ConversionConfig   `yaml:"conversion"`
		Currencies    []string           `yaml:"currencies"`
		Limits        router.Limits      `yaml:"limits,omitempty"`
	}
)

func (c *Config) compileStore() (s store.Store, closer func() error, err error) {
	switch c.Store.Backend {
	case "redis":
		r := storeredis.New(storeredis.Config{
			Address:  c.Store.Address,
			Password: c.Store.Password,
			DB:       c.Store.DB,
		})
		return r, r.Close, nil
	case "badger":
		b, err := storebadger.Open(storebadger.Config{Path: c.Store.Path})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open store: %w", err)
		}
		return b, b.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend: %q", c.Store.Backend)
}

func (c *Config) compileIssuer() (issuer giftcard.Issuer, err error) {
	err = c.Giftcard.Backend.Validate()
	if err != nil {
		return nil, err
	}

	switch c.Giftcard.Backend {
	case giftcard.BackendTebex:
		issuer = tebex.New(tebex.Config{URL: c.Giftcard.URL, Secret: c.Giftcard.Secret})
	case giftcard.BackendCraftingStore:
		issuer = craftingstore.New(craftingstore.Config{URL: c.Giftcard.URL, Token: c.Giftcard.Secret})
	}
	return issuer, nil
}

func (c *Config) Compile() (r router.Router, closer func() error, err error) {
	s, closer, err := c.compileStore()
	if err != nil {
		return r, nil, err
	}

	var cache conversion.Cache
	if c.Conversion.Cache == "store" {
		cache = conversion.NewStore(s)
	}
	converter := conversion.New(conversion.Config{
		Oracle:  cryptocompare.New(cryptocompare.Config{URL: c.Conversion.OracleURL}),
		Cache:   cache,
		TTL:     c.Conversion.TTL,
		Aliases: c.Conversion.Aliases,
	})

	issuer, err := c.compileIssuer()
	if err != nil {
		return r, nil, err
	}

	ctrl := transaction.New(transaction.Config{
		Store: s,
		Client: api.New(api.Config{
			URL:        c.Coinpayments.URL,
			PublicKey:  c.Coinpayments.PublicKey,
			PrivateKey: c.Coinpayments.PrivateKey,
			Client:     &http.Client{Timeout: 30 * time.Second},
		}),
		Issuer:     issuer,
		Converter:  &converter,
		MerchantID: c.Coinpayments.MerchantID,
		IPNSecret:  c.Coinpayments.IPNSecret,
		TTL:        c.SessionTTL,
	})

	r = router.Router{
		Transactions: &ctrl,
		Converter:    &converter,
		Store:        s,
		Limits:       c.Limits,
		Currencies:   c.Currencies,
	}
	return r, closer, nil
}
