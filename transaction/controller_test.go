package transaction_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/birthdates/Crypto-Store/coinpayments"
	cpmock "github.com/birthdates/Crypto-Store/coinpayments/mock"
	"github.com/birthdates/Crypto-Store/conversion"
	gcmock "github.com/birthdates/Crypto-Store/giftcard/mock"
	"github.com/birthdates/Crypto-Store/store"
	storemock "github.com/birthdates/Crypto-Store/store/mock"
	"github.com/birthdates/Crypto-Store/transaction"
	"github.com/birthdates/Crypto-Store/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	merchantID = "29f4ed3d1e43269d0efab1475cf9c08d"
	ipnSecret  = "ipn-secret"
)

type fixture struct {
	store  *storemock.Mock
	client *cpmock.Mock
	issuer *gcmock.Mock
	oracle *fixedOracle
	ctrl   transaction.Controller
	ctx    context.Context
	cancel func()
}

type fixedOracle struct {
	rates map[string]decimal.Decimal
}

func (o *fixedOracle) Rate(ctx context.Context, from, to string) (rate decimal.Decimal, err error) {
	rate, ok := o.rates[from+to]
	if !ok {
		return rate, conversion.ErrUnsupportedCurrency
	}
	return rate, nil
}

func newFixture(t *testing.T) (f *fixture) {
	f = &fixture{
		store:  storemock.New(storemock.Config{}),
		client: cpmock.New(cpmock.Config{RejectedCurrencies: []string{"NOTACOIN"}}),
		issuer: gcmock.New(gcmock.Config{}),
		oracle: &fixedOracle{rates: map[string]decimal.Decimal{
			"BTCUSD": decimal.NewFromInt(20000),
		}},
	}
	converter := conversion.New(conversion.Config{Oracle: f.oracle})
	f.ctrl = transaction.New(transaction.Config{
		Store:      f.store,
		Client:     f.client,
		Issuer:     f.issuer,
		Converter:  &converter,
		MerchantID: merchantID,
		IPNSecret:  ipnSecret,
	})
	f.ctx, f.cancel = utils.NewContext()
	t.Cleanup(f.cancel)
	return f
}

func (f *fixture) ipnBody(txnID string, status int, amount, received string) (body string) {
	return "merchant=" + merchantID +
		"&txn_id=" + txnID +
		"&status=" + strconv.Itoa(status) +
		"&amount2=" + amount +
		"&received_amount=" + received +
		"&currency2=BTC"
}

func Test_Create_Idempotent(t *testing.T) {
	assertions := require.New(t)
	f := newFixture(t)

	req := transaction.CreateRequest{
		Amount:   decimal.NewFromInt(10),
		Email:    "a@b.com",
		Currency: "BTC",
	}

	first, err := f.ctrl.Create(f.ctx, "sess1", req)
	assertions.NoError(err)
	assertions.NotEmpty(first.ID)
	assertions.Equal("10", first.Amount.String())
	assertions.Equal("BTC", first.Currency)
	assertions.False(first.Completed)

	second, err := f.ctrl.Create(f.ctx, "sess1", req)
	assertions.NoError(err)
	assertions.Equal(first.ID, second.ID)
	assertions.Equal(1, f.client.Creates(), "gateway create should happen at most once")

	// A different session opens its own transaction.
	third, err := f.ctrl.Create(f.ctx, "sess2", req)
	assertions.NoError(err)
	assertions.NotEqual(first.ID, third.ID)
}

func Test_Create_InvalidAmount(t *testing.T) {
	assertions := require.New(t)
	f := newFixture(t)

	_, err := f.ctrl.Create(f.ctx, "sess1", transaction.CreateRequest{
		Amount:   decimal.NewFromInt(-5),
		Currency: "BTC",
	})
	assertions.ErrorIs(err, transaction.ErrInvalidAmount)
	assertions.Zero(f.client.Creates())
}

func Test_Create_GatewayRejection(t *testing.T) {
	assertions := require.New(t)
	f := newFixture(t)

	_, err := f.ctrl.Create(f.ctx, "sess1", transaction.CreateRequest{
		Amount:   decimal.NewFromInt(10),
		Currency: "NOTACOIN",
	})
	assertions.Error(err)

	var apiErr *coinpayments.APIError
	assertions.ErrorAs(err, &apiErr, "gateway detail should be carried through")
	assertions.Equal("That currency is not supported!", apiErr.Message)
}

func Test_Create_USDTChainQualified(t *testing.T) {
	assertions := require.New(t)
	f := newFixture(t)

	record, err := f.ctrl.Create(f.ctx, "sess1", transaction.CreateRequest{
		Amount:   decimal.NewFromInt(10),
		Currency: "USDT",
	})
	assertions.NoError(err)

	requests := f.client.Requests()
	assertions.Len(requests, 1)
	assertions.Equal("USDT.TRC20", requests[0].Currency2, "gateway must get the chain-qualified ticker")
	assertions.Equal("USDT", record.Currency, "record keeps the selected ticker")
}

func Test_Get(t *testing.T) {
	assertions := require.New(t)
	f := newFixture(t)

	_, err := f.ctrl.Get(f.ctx, "missing")
	assertions.ErrorIs(err, transaction.ErrNotFound)

	// An undecodable payload is reported, never a panic.
	err = f.store.Set(f.ctx, store.SessionKey("broken"), "{not json", 0)
	assertions.NoError(err)

	_, err = f.ctrl.Get(f.ctx, "broken")
	assertions.ErrorIs(err, transaction.ErrCorruptRecord)
}

func Test_FetchStatus_PollsFallback(t *testing.T) {
	assertions := require.New(t)
	f := newFixture(t)

	record, err := f.ctrl.Create(f.ctx, "sess1", transaction.CreateRequest{
		Amount:   decimal.NewFromInt(10),
		Currency: "BTC",
	})
	assertions.NoError(err)

	merged, err := f.ctrl.FetchStatus(f.ctx, "sess1")
	assertions.NoError(err)
	assertions.Equal(record.ID, merged.ID)
	assertions.Equal(coinpayments.StatusWaiting, merged.Status.Status)
	assertions.Equal("Awaiting funds", merged.StatusText)
	assertions.False(merged.Terminal)
	assertions.Equal(1, f.client.Gets())

	// Synthesized status is not written back, so the next fetch
	// polls again.
	_, err = f.store.Get(f.ctx, store.StatusKey(record.ID))
	assertions.ErrorIs(err, store.ErrNotFound)

	_, err = f.ctrl.FetchStatus(f.ctx, "sess1")
	assertions.NoError(err)
	assertions.Equal(2, f.client.Gets())
}

func Test_FetchStatus_StoredStatusWins(t *testing.T) {
	assertions := require.New(t)
	f := newFixture(t)

	record, err := f.ctrl.Create(f.ctx, "sess1", transaction.CreateRequest{
		Amount:   decimal.NewFromInt(10),
		Currency: "BTC",
	})
	assertions.NoError(err)

	body := f.ipnBody(record.ID, coinpayments.StatusCoinReceived, "0.0005", "0.0001")
	err = f.ctrl.HandleIPN(f.ctx, []byte(body), coinpayments.SignIPN([]byte(body), ipnSecret))
	assertions.NoError(err)

	merged, err := f.ctrl.FetchStatus(f.ctx, "sess1")
	assertions.NoError(err)
	assertions.Equal(coinpayments.StatusCoinReceived, merged.Status.Status)
	assertions.Equal("0.0005", merged.Status.Amount.String(), "status amount wins over the record's")
	assertions.Zero(f.client.Gets(), "stored status is authoritative; no polling")
}

func Test_Cancel(t *testing.T) {
	assertions := require.New(t)
	f := newFixture(t)

	cancelled, err := f.ctrl.Cancel(f.ctx, "missing")
	assertions.NoError(err)
	assertions.False(cancelled)

	record, err := f.ctrl.Create(f.ctx, "sess1", transaction.CreateRequest{
		Amount:   decimal.NewFromInt(10),
		Currency: "BTC",
	})
	assertions.NoError(err)

	body := f.ipnBody(record.ID, coinpayments.StatusWaiting, "0.0005", "0")
	err = f.ctrl.HandleIPN(f.ctx, []byte(body), coinpayments.SignIPN([]byte(body), ipnSecret))
	assertions.NoError(err)

	cancelled, err = f.ctrl.Cancel(f.ctx, "sess1")
	assertions.NoError(err)
	assertions.True(cancelled)

	_, err = f.ctrl.Get(f.ctx, "sess1")
	assertions.ErrorIs(err, transaction.ErrNotFound)

	_, err = f.store.Get(f.ctx, store.StatusKey(record.ID))
	assertions.ErrorIs(err, store.ErrNotFound, "status mapping should be gone too")
}

func Test_HandleIPN_EndToEnd(t *testing.T) {
	assertions := require.New(t)
	f := newFixture(t)

	record, err := f.ctrl.Create(f.ctx, "sess1", transaction.CreateRequest{
		Amount:   decimal.NewFromInt(10),
		Email:    "a@b.com",
		Currency: "BTC",
	})
	assertions.NoError(err)

	body := f.ipnBody(record.ID, coinpayments.StatusComplete, "0.0005", "0.0005")
	err = f.ctrl.HandleIPN(f.ctx, []byte(body), coinpayments.SignIPN([]byte(body), ipnSecret))
	assertions.NoError(err)

	merged, err := f.ctrl.FetchStatus(f.ctx, "sess1")
	assertions.NoError(err)
	assertions.Equal(coinpayments.StatusComplete, merged.Status.Status)
	assertions.Equal("Received funds", merged.StatusText)
	assertions.NotEmpty(merged.Card)
	assertions.True(merged.Terminal)

	// 0.0005 BTC at 20000 USD/BTC
	balances := f.issuer.Balances()
	assertions.Len(balances, 1)
	assertions.Equal("10", balances[0].String())
}

func Test_HandleIPN_Idempotent(t *testing.T) {
	assertions := require.New(t)
	f := newFixture(t)

	record, err := f.ctrl.Create(f.ctx, "sess1", transaction.CreateRequest{
		Amount:   decimal.NewFromInt(10),
		Currency: "BTC",
	})
	assertions.NoError(err)

	body := f.ipnBody(record.ID, coinpayments.StatusComplete, "0.0005", "0.0005")
	signature := coinpayments.SignIPN([]byte(body), ipnSecret)

	err = f.ctrl.HandleIPN(f.ctx, []byte(body), signature)
	assertions.NoError(err)

	first, err := f.ctrl.FetchStatus(f.ctx, "sess1")
	assertions.NoError(err)

	// The gateway delivers at least once; a duplicate must not mint
	// a second card or change the recorded one.
	err = f.ctrl.HandleIPN(f.ctx, []byte(body), signature)
	assertions.NoError(err)

	second, err := f.ctrl.FetchStatus(f.ctx, "sess1")
	assertions.NoError(err)

	assertions.Equal(1, f.issuer.Issued())
	assertions.Equal(first.Card, second.Card)
	assertions.NotEmpty(second.Card)
}

func Test_HandleIPN_Tampered(t *testing.T) {
	assertions := require.New(t)
	f := newFixture(t)

	record, err := f.ctrl.Create(f.ctx, "sess1", transaction.CreateRequest{
		Amount:   decimal.NewFromInt(10),
		Currency: "BTC",
	})
	assertions.NoError(err)

	body := f.ipnBody(record.ID, coinpayments.StatusComplete, "0.0005", "0.0005")
	signature := coinpayments.SignIPN([]byte(body), ipnSecret)
	tampered := f.ipnBody(record.ID, coinpayments.StatusComplete, "999", "999")

	err = f.ctrl.HandleIPN(f.ctx, []byte(tampered), signature)
	assertions.ErrorIs(err, coinpayments.ErrInvalidSignature)

	// No store mutation, no card.
	assertions.Zero(f.issuer.Issued())
	_, err = f.store.Get(f.ctx, store.StatusKey(record.ID))
	assertions.ErrorIs(err, store.ErrNotFound)
}
