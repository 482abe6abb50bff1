package router

import (
	"time"

	"github.com/birthdates/Crypto-Store/transaction"
	"github.com/shopspring/decimal"
)

type CreateTransactionRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Email    string          `json:"email"`
	Currency string          `json:"currency"`
}

type CreateTransactionResponse struct {
	Success bool `json:"success"`
	transaction.Record
}

type CancelTransactionResponse struct {
	Success bool `json:"success"`
}

type ConversionResponse struct {
	Conversion decimal.Decimal `json:"conversion"`
}

type CurrenciesResponse struct {
	Currencies []string `json:"currencies"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Limit is one endpoint's rate-limit window.
type Limit struct {
	Window time.Duration `yaml:"window"`
	Max    int64         `yaml:"max"`
}

type Limits struct {
	Create     Limit `yaml:"create"`
	Status     Limit `yaml:"status"`
	Cancel     Limit `yaml:"cancel"`
	Conversion Limit `yaml:"conversion"`
	Image      Limit `yaml:"image"`
	Webhook    Limit `yaml:"webhook"`
}

// DefaultLimits mirror the storefront's production settings.
func DefaultLimits() (limits Limits) {
	return Limits{
		Create:     Limit{Window: 30 * time.Minute, Max: 50},
		Status:     Limit{Window: 5 * time.Minute, Max: 10_000},
		Cancel:     Limit{Window: 30 * time.Minute, Max: 100},
		Conversion: Limit{Window: 10 * time.Minute, Max: 1_000},
		Image:      Limit{Window: time.Hour, Max: 1_000},
		Webhook:    Limit{Window: 5 * time.Minute, Max: 10_000},
	}
}

func (l Limit) or(fallback Limit) (limit Limit) {
	if l.Window <= 0 || l.Max <= 0 {
		return fallback
	}
	return l
}

// WithDefaults fills any unset endpoint limit.
func (l Limits) WithDefaults() (limits Limits) {
	defaults := DefaultLimits()
	return Limits{
		Create:     l.Create.or(defaults.Create),
		Status:     l.Status.or(defaults.Status),
		Cancel:     l.Cancel.or(defaults.Cancel),
		Conversion: l.Conversion.or(defaults.Conversion),
		Image:      l.Image.or(defaults.Image),
		Webhook:    l.Webhook.or(defaults.Webhook),
	}
}
