package cryptocompare_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/birthdates/Crypto-Store/conversion"
	"github.com/birthdates/Crypto-Store/conversion/cryptocompare"
	"github.com/birthdates/Crypto-Store/utils"
	"github.com/stretchr/testify/require"
)

func Test_Rate(t *testing.T) {
	assertions := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assertions.Equal("BTC", r.URL.Query().Get("fsym"))
		assertions.Equal("USD", r.URL.Query().Get("tsyms"))
		w.Write([]byte(`{"USD":20123.45}`))
	}))
	defer server.Close()

	oracle := cryptocompare.New(cryptocompare.Config{URL: server.URL})

	ctx, cancel := utils.NewContext()
	defer cancel()

	rate, err := oracle.Rate(ctx, "BTC", "USD")
	assertions.NoError(err)
	assertions.Equal("20123.45", rate.String())
}

func Test_Rate_Errors(t *testing.T) {
	tests := map[string]string{
		"OracleError": `{"Response":"Error","Message":"fsym param is invalid"}`,
		"MissingRate": `{"EUR":123.4}`,
	}
	for name, response := range tests {
		t.Run(name, func(t *testing.T) {
			assertions := require.New(t)

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(response))
			}))
			defer server.Close()

			oracle := cryptocompare.New(cryptocompare.Config{URL: server.URL})

			ctx, cancel := utils.NewContext()
			defer cancel()

			_, err := oracle.Rate(ctx, "NOTACOIN", "USD")
			assertions.ErrorIs(err, conversion.ErrUnsupportedCurrency)
		})
	}
}
