package tebex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/birthdates/Crypto-Store/giftcard"
	"github.com/shopspring/decimal"
)

const DefaultURL = "https://plugin.tebex.io/gift-cards"

// Tebex issues gift cards through the Tebex (Buycraft) plugin API.
type Tebex struct {
	url    string
	secret string
	client *http.Client
}

var _ giftcard.Issuer = (*Tebex)(nil)

type Config struct {
	// URL of the gift-cards endpoint. Defaults to DefaultURL.
	URL string
	// Secret sent as X-Tebex-Secret
	Secret string
	// Client to issue requests with. Defaults to http.DefaultClient.
	Client *http.Client
}

func New(config Config) *Tebex {
	t := &Tebex{
		url:    config.URL,
		secret: config.Secret,
		client: config.Client,
	}
	if t.url == "" {
		t.url = DefaultURL
	}
	if t.client == nil {
		t.client = http.DefaultClient
	}
	return t
}

func (t *Tebex) Issue(ctx context.Context, balance decimal.Decimal) (code string, err error) {
	payload, err := json.Marshal(map[string]string{
		"amount": balance.String(),
		"note":   "Crypto Transfer",
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-Tebex-Secret", t.secret)
	req.Header.Set("Content-Type", "application/json")

	res, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call tebex: %w", err)
	}
	defer res.Body.Close()

	contents, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var decoded struct {
		Data struct {
			Code string `json:"code"`
		} `json:"data"`
	}
	err = json.Unmarshal(contents, &decoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if decoded.Data.Code == "" {
		return "", fmt.Errorf("tebex returned no card code: %s", contents)
	}
	return decoded.Data.Code, nil
}
