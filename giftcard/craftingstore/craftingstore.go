package craftingstore

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

const DefaultURL = "https://api.craftingstore.net/v7/gift-cards"

// CraftingStore issues gift cards through the CraftingStore API.
type CraftingStore struct {
	url    string
	token  string
	client *http.Client
}

var _ giftcard.Issuer = (*CraftingStore)(nil)

type Config struct {
	// URL of the gift-cards endpoint. Defaults to DefaultURL.
	URL string
	// Token sent in the token header
	Token string
	// Client to issue requests with. Defaults to http.DefaultClient.
	Client *http.Client
}

func New(config Config) *CraftingStore {
	c := &CraftingStore{
		url:    config.URL,
		token:  config.Token,
		client: config.Client,
	}
	if c.url == "" {
		c.url = DefaultURL
	}
	if c.client == nil {
		c.client = http.DefaultClient
	}
	return c
}

func (c *CraftingStore) Issue(ctx context.Context, balance decimal.Decimal) (code string, err error) {
	payload, err := json.Marshal(map[string]string{
		"amount": balance.String(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("token", c.token)

	res, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call craftingstore: %w", err)
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
		return "", fmt.Errorf("craftingstore returned no card code: %s", contents)
	}
	return decoded.Data.Code, nil
}
