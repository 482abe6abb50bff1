package cryptocompare

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/birthdates/Crypto-Store/conversion"
	"github.com/shopspring/decimal"
)

const DefaultURL = "https://min-api.cryptocompare.com/data/price"

// Oracle queries the CryptoCompare price API for spot rates.
type Oracle struct {
	url    string
	client *http.Client
}

var _ conversion.Oracle = (*Oracle)(nil)

type Config struct {
	// URL of the price endpoint. Defaults to DefaultURL.
	URL string
	// Client to issue requests with. Defaults to http.DefaultClient.
	Client *http.Client
}

func New(config Config) *Oracle {
	o := &Oracle{
		url:    config.URL,
		client: config.Client,
	}
	if o.url == "" {
		o.url = DefaultURL
	}
	if o.client == nil {
		o.client = http.DefaultClient
	}
	return o
}

func (o *Oracle) Rate(ctx context.Context, from, to string) (rate decimal.Decimal, err error) {
	query := url.Values{}
	query.Set("fsym", from)
	query.Set("tsyms", to)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.url+"?"+query.Encode(), nil)
	if err != nil {
		return rate, fmt.Errorf("failed to build request: %w", err)
	}

	res, err := o.client.Do(req)
	if err != nil {
		return rate, fmt.Errorf("failed to query oracle: %w", err)
	}
	defer res.Body.Close()

	contents, err := io.ReadAll(res.Body)
	if err != nil {
		return rate, fmt.Errorf("failed to read response: %w", err)
	}

	var rates map[string]json.RawMessage
	err = json.Unmarshal(contents, &rates)
	if err != nil {
		return rate, fmt.Errorf("failed to decode response: %w", err)
	}

	// Errors come back as {"Response":"Error","Message":...}; a
	// missing target rate means the pair is unknown either way.
	if _, ok := rates["Message"]; ok {
		return rate, conversion.ErrUnsupportedCurrency
	}
	raw, ok := rates[to]
	if !ok {
		return rate, conversion.ErrUnsupportedCurrency
	}

	err = json.Unmarshal(raw, &rate)
	if err != nil {
		return rate, fmt.Errorf("failed to decode rate: %w", err)
	}
	return rate, nil
}
