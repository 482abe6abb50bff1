package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/birthdates/Crypto-Store/giftcard"
	"github.com/shopspring/decimal"
)

// Mock implements the giftcard.Issuer interface for testing purposes.
// Every issued card gets a distinct code so double issuance shows up
// as two different codes.
type Mock struct {
	mu       sync.Mutex
	issued   int
	balances []decimal.Decimal
	err      error
}

var _ giftcard.Issuer = (*Mock)(nil)

type Config struct {
	// Err makes every Issue call fail
	Err error
}

func New(config Config) *Mock {
	return &Mock{err: config.Err}
}

func (m *Mock) Issue(ctx context.Context, balance decimal.Decimal) (code string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return "", m.err
	}

	m.issued++
	m.balances = append(m.balances, balance)
	return fmt.Sprintf("MOCK-CARD-%04d", m.issued), nil
}

// Issued returns how many cards were minted.
func (m *Mock) Issued() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.issued
}

// Balances returns the balances of every minted card, in order.
func (m *Mock) Balances() []decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]decimal.Decimal(nil), m.balances...)
}
