package coinpayments

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

// ErrInvalidSignature covers every way an IPN can fail verification:
// bad HMAC, wrong merchant, or a missing/malformed field. Callers get
// one uniform rejection so a forger learns nothing from the response.
var ErrInvalidSignature = errors.New("invalid ipn signature")

// IPN is a verified webhook notification from the gateway.
type IPN struct {
	// Merchant ID the notification claims to be for
	Merchant string
	// TxnID of the transaction being reported
	TxnID string
	// Status code, see the taxonomy
	Status int
	// Amount confirmed, in the settlement currency (amount2)
	Amount decimal.Decimal
	// Received on-chain so far (received_amount)
	Received decimal.Decimal
	// Currency of Amount (currency2)
	Currency string
}

// SignIPN computes the hex HMAC-SHA512 of a raw IPN body.
func SignIPN(body []byte, secret string) (signature string) {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// ParseIPN verifies and decodes a webhook body. The HMAC is computed
// over the raw body bytes exactly as received; parsing happens on a
// separate copy and never feeds back into verification.
func ParseIPN(body []byte, hmacHeader, merchantID, secret string) (ipn IPN, err error) {
	if hmacHeader == "" {
		return ipn, ErrInvalidSignature
	}

	expected := SignIPN(body, secret)
	if !hmac.Equal([]byte(expected), []byte(hmacHeader)) {
		return ipn, ErrInvalidSignature
	}

	fields, err := url.ParseQuery(string(body))
	if err != nil {
		return ipn, ErrInvalidSignature
	}

	required := func(name string) (value string, err error) {
		values, ok := fields[name]
		if !ok || len(values) == 0 || values[0] == "" {
			return "", ErrInvalidSignature
		}
		return values[0], nil
	}

	ipn.Merchant, err = required("merchant")
	if err != nil {
		return ipn, err
	}
	if ipn.Merchant != merchantID {
		return ipn, ErrInvalidSignature
	}

	ipn.TxnID, err = required("txn_id")
	if err != nil {
		return ipn, err
	}

	rawStatus, err := required("status")
	if err != nil {
		return ipn, err
	}
	ipn.Status, err = strconv.Atoi(rawStatus)
	if err != nil {
		return ipn, ErrInvalidSignature
	}

	rawAmount, err := required("amount2")
	if err != nil {
		return ipn, err
	}
	ipn.Amount, err = decimal.NewFromString(rawAmount)
	if err != nil {
		return ipn, ErrInvalidSignature
	}

	rawReceived, err := required("received_amount")
	if err != nil {
		return ipn, err
	}
	ipn.Received, err = decimal.NewFromString(rawReceived)
	if err != nil {
		return ipn, ErrInvalidSignature
	}

	ipn.Currency, err = required("currency2")
	if err != nil {
		return ipn, err
	}

	return ipn, nil
}
