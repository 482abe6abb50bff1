package coinpayments

import (
	"context"

	"github.com/shopspring/decimal"
)

// Gateway status codes. Anything not listed reads as awaiting funds.
const (
	StatusRefunded      = -2
	StatusExpired       = -1
	StatusWaiting       = 0
	StatusCoinReceived  = 1
	StatusReceived      = 2
	StatusPayPalPending = 3
	StatusEscrow        = 5
	StatusComplete      = 100
)

type (
	CreateTransactionRequest struct {
		// Amount in Currency1 units
		Amount decimal.Decimal
		// Currency1 is the pricing currency (USD for store credit)
		Currency1 string
		// Currency2 is the coin the buyer pays with
		Currency2 string
		// BuyerEmail is forwarded to the gateway, never stored
		BuyerEmail string
		// ItemName shown on the gateway's checkout page
		ItemName string
	}
	Transaction struct {
		// TxnID assigned by the gateway
		TxnID string `json:"txn_id"`
		// Address is the deposit wallet for the buyer
		Address string `json:"address"`
		// Amount to pay in Currency2 units, the gateway's view
		Amount decimal.Decimal `json:"amount"`
		// StatusURL is the gateway's hosted status page
		StatusURL string `json:"status_url"`
		// QRCodeURL is the deposit address QR image
		QRCodeURL string `json:"qrcode_url"`
		// CheckoutURL is the gateway's hosted checkout page
		CheckoutURL string `json:"checkout_url"`
	}
	TxInfo struct {
		// Status code, see the taxonomy above
		Status int `json:"status"`
		// Coin the transaction is denominated in
		Coin string `json:"coin"`
		// Amount expected, in Coin units
		Amount decimal.Decimal `json:"amountf"`
		// Received on-chain so far, in Coin units
		Received decimal.Decimal `json:"receivedf"`
	}
)

// Client issues commands against the payment gateway.
type Client interface {
	// CreateTransaction opens a new payment request.
	CreateTransaction(ctx context.Context, req CreateTransactionRequest) (txn Transaction, err error)
	// GetTx retrieves the current state of a transaction.
	GetTx(ctx context.Context, txnID string) (info TxInfo, err error)
}

// APIError is an error the gateway itself reported.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// StatusMessage maps a gateway status code to a user-facing message.
// The gateway's own status_text strings aren't very helpful.
func StatusMessage(status int) (message string) {
	switch status {
	case StatusWaiting, StatusCoinReceived:
		return "Awaiting funds"
	case StatusRefunded:
		return "Refunded"
	case StatusExpired:
		return "Expired"
	case StatusReceived, StatusComplete:
		return "Received funds"
	case StatusEscrow:
		return "Escrow received funds"
	case StatusPayPalPending:
		return "Pending via PayPal"
	}
	return "Awaiting funds"
}

// Terminal reports whether a status can no longer change, meaning
// there is no point in further polling.
func Terminal(status int) bool {
	switch status {
	case StatusExpired, StatusRefunded, StatusReceived, StatusComplete:
		return true
	}
	return false
}
