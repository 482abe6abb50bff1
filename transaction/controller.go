package transaction

import (
	"errors"
	"net/http"
	"time"

	"github.com/birthdates/Crypto-Store/coinpayments"
	"github.com/birthdates/Crypto-Store/conversion"
	"github.com/birthdates/Crypto-Store/giftcard"
	"github.com/birthdates/Crypto-Store/store"
)

var (
	ErrNotFound      = errors.New("transaction not found")
	ErrCorruptRecord = errors.New("invalid session data")
	ErrInvalidAmount = errors.New("amount must be positive")
)

const DefaultTTL = 30 * 24 * time.Hour

// Controller owns the session and transaction-status keyspaces. No
// other component reads or writes them; the webhook path goes through
// HandleIPN on this controller.
type Controller struct {
	store      store.Store
	client     coinpayments.Client
	issuer     giftcard.Issuer
	converter  *conversion.Converter
	http       *http.Client
	merchantID string
	ipnSecret  string
	ttl        time.Duration
}

type Config struct {
	// Store holding session records and transaction status
	Store store.Store
	// Client for the payment gateway
	Client coinpayments.Client
	// Issuer minting gift cards on confirmed payments
	Issuer giftcard.Issuer
	// Converter turning settlement amounts into USD
	Converter *conversion.Converter
	// HTTP client for fetching QR images. Defaults to http.DefaultClient.
	HTTP *http.Client
	// MerchantID expected in webhook notifications
	MerchantID string
	// IPNSecret shared with the gateway for webhook signatures
	IPNSecret string
	// TTL of session records. Defaults to DefaultTTL.
	TTL time.Duration
}

func New(config Config) (ctrl Controller) {
	ctrl.store = config.Store
	ctrl.client = config.Client
	ctrl.issuer = config.Issuer
	ctrl.converter = config.Converter
	ctrl.http = config.HTTP
	ctrl.merchantID = config.MerchantID
	ctrl.ipnSecret = config.IPNSecret
	ctrl.ttl = config.TTL

	if ctrl.http == nil {
		ctrl.http = http.DefaultClient
	}
	if ctrl.ttl <= 0 {
		ctrl.ttl = DefaultTTL
	}
	return ctrl
}
