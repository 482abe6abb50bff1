package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/birthdates/Crypto-Store/coinpayments"
	"github.com/birthdates/Crypto-Store/conversion"
	"github.com/birthdates/Crypto-Store/store"
	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	// Amount of USD store credit to buy
	Amount decimal.Decimal
	// Email of the buyer, forwarded to the gateway only
	Email string
	// Currency ticker the buyer pays with
	Currency string
}

// gatewayCurrency maps a selected ticker to what the gateway expects.
// Stablecoins are chain-qualified there.
func gatewayCurrency(currency string) (curr string) {
	if currency == "USDT" {
		return "USDT.TRC20"
	}
	return currency
}

// Create opens a payment request for a session. It is idempotent:
// while an unexpired record exists for the session it is returned
// unchanged and the gateway is not called again.
func (c *Controller) Create(ctx context.Context, session string, req CreateRequest) (record Record, err error) {
	if !req.Amount.IsPositive() {
		return record, ErrInvalidAmount
	}

	record, err = c.Get(ctx, session)
	if err == nil {
		return record, nil
	}

	txn, err := c.client.CreateTransaction(ctx, coinpayments.CreateTransactionRequest{
		Amount:     req.Amount,
		Currency1:  "USD",
		Currency2:  gatewayCurrency(req.Currency),
		BuyerEmail: req.Email,
		ItemName:   fmt.Sprintf("%s USD Store Credit", req.Amount),
	})
	if err != nil {
		var apiErr *coinpayments.APIError
		if errors.As(err, &apiErr) {
			return record, fmt.Errorf("gateway rejected transaction: %w", apiErr)
		}
		return record, conversion.ErrUnsupportedCurrency
	}

	record = Record{
		ID:        txn.TxnID,
		StatusURL: txn.StatusURL,
		ImageURL:  txn.QRCodeURL,
		Amount:    req.Amount,
		Wallet:    txn.Address,
		Currency:  req.Currency,
		Completed: false,
	}

	err = c.store.Set(ctx, store.SessionKey(session), string(record.Bytes()), c.ttl)
	if err != nil {
		return record, fmt.Errorf("failed to persist record: %w", err)
	}
	return record, nil
}
