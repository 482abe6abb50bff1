package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/birthdates/Crypto-Store/coinpayments"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mock implements the coinpayments.Client interface for testing
// purposes. Transactions are held in memory and their reported
// status is scriptable through SetStatus.
type Mock struct {
	mu           sync.Mutex
	transactions map[string]coinpayments.TxInfo
	requests     []coinpayments.CreateTransactionRequest
	creates      int
	gets         int
	createErr    error
	rejected     map[string]bool
}

var _ coinpayments.Client = (*Mock)(nil)

type Config struct {
	// CreateErr makes every CreateTransaction call fail
	CreateErr error
	// RejectedCurrencies fail CreateTransaction with a gateway error
	RejectedCurrencies []string
}

func New(config Config) *Mock {
	m := &Mock{
		transactions: make(map[string]coinpayments.TxInfo),
		createErr:    config.CreateErr,
		rejected:     make(map[string]bool),
	}
	for _, currency := range config.RejectedCurrencies {
		m.rejected[currency] = true
	}
	return m
}

func (m *Mock) CreateTransaction(ctx context.Context, req coinpayments.CreateTransactionRequest) (txn coinpayments.Transaction, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.creates++
	m.requests = append(m.requests, req)
	if m.createErr != nil {
		return txn, m.createErr
	}
	if m.rejected[req.Currency2] {
		return txn, &coinpayments.APIError{Message: "That currency is not supported!"}
	}

	id := uuid.NewString()
	txn = coinpayments.Transaction{
		TxnID:       id,
		Address:     fmt.Sprintf("mock_wallet_%d", m.creates),
		Amount:      req.Amount,
		StatusURL:   fmt.Sprintf("https://gateway.invalid/status/%s", id),
		QRCodeURL:   fmt.Sprintf("https://gateway.invalid/qr/%s.png", id),
		CheckoutURL: fmt.Sprintf("https://gateway.invalid/checkout/%s", id),
	}

	m.transactions[id] = coinpayments.TxInfo{
		Status:   coinpayments.StatusWaiting,
		Coin:     req.Currency2,
		Amount:   req.Amount,
		Received: decimal.Zero,
	}
	return txn, nil
}

func (m *Mock) GetTx(ctx context.Context, txnID string) (info coinpayments.TxInfo, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gets++
	info, ok := m.transactions[txnID]
	if !ok {
		return info, &coinpayments.APIError{Message: "Invalid txid"}
	}
	return info, nil
}

// SetStatus scripts the status the gateway reports for a transaction.
func (m *Mock) SetStatus(txnID string, info coinpayments.TxInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[txnID] = info
}

// Requests returns every CreateTransaction request, in order.
func (m *Mock) Requests() []coinpayments.CreateTransactionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]coinpayments.CreateTransactionRequest(nil), m.requests...)
}

// Creates returns how many CreateTransaction calls were made.
func (m *Mock) Creates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creates
}

// Gets returns how many GetTx calls were made.
func (m *Mock) Gets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets
}
