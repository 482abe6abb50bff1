package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/birthdates/Crypto-Store/coinpayments"
)

const DefaultURL = "https://www.coinpayments.net/api.php"

// Client is the real HTTP gateway client. Every command is a
// form-encoded POST whose body is signed with HMAC-SHA512 of the
// private key, carried in the HMAC header.
type Client struct {
	url        string
	publicKey  string
	privateKey string
	client     *http.Client
}

var _ coinpayments.Client = (*Client)(nil)

type Config struct {
	// URL of the gateway API endpoint. Defaults to DefaultURL.
	URL string
	// PublicKey identifies the merchant account
	PublicKey string
	// PrivateKey signs request bodies
	PrivateKey string
	// Client to issue requests with. Defaults to http.DefaultClient.
	Client *http.Client
}

func New(config Config) *Client {
	c := &Client{
		url:        config.URL,
		publicKey:  config.PublicKey,
		privateKey: config.PrivateKey,
		client:     config.Client,
	}
	if c.url == "" {
		c.url = DefaultURL
	}
	if c.client == nil {
		c.client = http.DefaultClient
	}
	return c
}

type envelope struct {
	Error  string          `json:"error"`
	Result json.RawMessage `json:"result"`
}

func (c *Client) call(ctx context.Context, cmd string, params url.Values, result any) (err error) {
	params.Set("cmd", cmd)
	params.Set("key", c.publicKey)
	params.Set("version", "1")
	params.Set("format", "json")
	body := params.Encode()

	mac := hmac.New(sha512.New, []byte(c.privateKey))
	mac.Write([]byte(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HMAC", hex.EncodeToString(mac.Sum(nil)))

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call gateway: %w", err)
	}
	defer res.Body.Close()

	contents, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	err = json.Unmarshal(contents, &env)
	if err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if env.Error != "ok" {
		return &coinpayments.APIError{Message: env.Error}
	}

	err = json.Unmarshal(env.Result, result)
	if err != nil {
		return fmt.Errorf("failed to decode result: %w", err)
	}
	return nil
}

func (c *Client) CreateTransaction(ctx context.Context, req coinpayments.CreateTransactionRequest) (txn coinpayments.Transaction, err error) {
	params := url.Values{}
	params.Set("amount", req.Amount.String())
	params.Set("currency1", req.Currency1)
	params.Set("currency2", req.Currency2)
	params.Set("buyer_email", req.BuyerEmail)
	params.Set("item_name", req.ItemName)

	err = c.call(ctx, "create_transaction", params, &txn)
	if err != nil {
		return txn, fmt.Errorf("failed to create transaction: %w", err)
	}
	return txn, nil
}

func (c *Client) GetTx(ctx context.Context, txnID string) (info coinpayments.TxInfo, err error) {
	params := url.Values{}
	params.Set("txid", txnID)

	err = c.call(ctx, "get_tx_info", params, &info)
	if err != nil {
		return info, fmt.Errorf("failed to get transaction info: %w", err)
	}
	return info, nil
}
