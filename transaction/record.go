package transaction

import (
	"encoding/json"

	"github.com/birthdates/Crypto-Store/coinpayments"
	"github.com/shopspring/decimal"
)

type (
	// Record is one payment request opened with the gateway, stored
	// per session. The buyer email is write-only to the gateway and
	// never part of the record.
	Record struct {
		// ID assigned by the gateway
		ID string `json:"id"`
		// StatusURL is the gateway's hosted status page
		StatusURL string `json:"status_url"`
		// ImageURL of the deposit address QR code
		ImageURL string `json:"image_url"`
		// Amount of USD store credit requested
		Amount decimal.Decimal `json:"amount"`
		// Wallet is the deposit address for the buyer
		Wallet string `json:"wallet"`
		// Currency the buyer pays with, as selected (not
		// chain-qualified)
		Currency string `json:"currency"`
		// Completed is advisory and never gates logic
		Completed bool `json:"completed"`
	}

	// Status is the payment progress view, written by the webhook
	// path and keyed by the gateway transaction id.
	Status struct {
		// Status code from the gateway
		Status int `json:"status"`
		// StatusText derived from Status
		StatusText string `json:"status_text"`
		// Received on-chain so far
		Received decimal.Decimal `json:"received"`
		// Amount expected, the gateway's view
		Amount decimal.Decimal `json:"amount"`
		// Card code, present only after issuance
		Card string `json:"card,omitempty"`
	}

	// RecordWithStatus is the merged client view. Status fields win
	// on collision, so Amount here is the gateway's amount, not the
	// session's requested one.
	RecordWithStatus struct {
		// ID assigned by the gateway
		ID string `json:"id"`
		// Currency the buyer pays with
		Currency string `json:"currency"`
		// Wallet is the deposit address
		Wallet string `json:"wallet"`
		// StatusURL is the gateway's hosted status page
		StatusURL string `json:"status_url"`
		// ImageURL of the deposit address QR code
		ImageURL string `json:"image_url"`
		// Completed is advisory
		Completed bool `json:"completed"`
		// Terminal reports whether the status can still change;
		// the UI stops polling and offers CLOSE instead of CANCEL.
		Terminal bool `json:"terminal"`

		Status
	}
)

func merge(record Record, status Status) (merged RecordWithStatus) {
	return RecordWithStatus{
		ID:        record.ID,
		Currency:  record.Currency,
		Wallet:    record.Wallet,
		StatusURL: record.StatusURL,
		ImageURL:  record.ImageURL,
		Completed: record.Completed,
		Terminal:  coinpayments.Terminal(status.Status),
		Status:    status,
	}
}

func (r *Record) Bytes() (bytes []byte) {
	bytes, _ = json.Marshal(r)
	return bytes
}

func (s *Status) Bytes() (bytes []byte) {
	bytes, _ = json.Marshal(s)
	return bytes
}
