package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPricingClient(handler http.Handler) (*PricingClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	c := &PricingClient{
		client: resty.New().SetBaseURL(server.URL),
		apiKey: "test_api_key",
		logger: zap.NewNop(),
	}
	return c, server
}

func TestGetRate(t *testing.T) {
	mockResponse := `{
		"Realtime Currency Exchange Rate": {
			"1. From_Currency Code": "EUR",
			"3. To_Currency Code": "USD",
			"5. Exchange Rate": "1.08500000",
			"6. Last Refreshed": "2024-03-08 14:00:01",
			"8. Bid Price": "1.08490000",
			"9. Ask Price": "1.08510000"
		}
	}`

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "CURRENCY_EXCHANGE_RATE", r.URL.Query().Get("function"))
		assert.Equal(t, "EUR", r.URL.Query().Get("from_currency"))
		assert.Equal(t, "USD", r.URL.Query().Get("to_currency"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(mockResponse))
	})

	c, server := newTestPricingClient(handler)
	defer server.Close()

	quote, err := c.GetRate(context.Background(), "EURUSD")
	require.NoError(t, err)
	require.NotNil(t, quote)

	assert.Equal(t, "EURUSD", quote.Symbol)
	assert.InDelta(t, 1.085, quote.Price, 1e-9)
	assert.InDelta(t, 1.0849, quote.Bid, 1e-9)
	assert.InDelta(t, 1.0851, quote.Ask, 1e-9)
	assert.Equal(t, "2024-03-08 14:00:01", quote.Timestamp)
}

func TestGetRateUnavailable(t *testing.T) {
	// Alpha Vantage reports throttling and unknown pairs with a 200 and a
	// body missing the rate object.
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Note": "API call frequency exceeded"}`))
	})

	c, server := newTestPricingClient(handler)
	defer server.Close()

	quote, err := c.GetRate(context.Background(), "EURUSD")
	require.NoError(t, err)
	assert.Nil(t, quote)
}

func TestGetRateUpstreamError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	c, server := newTestPricingClient(handler)
	defer server.Close()

	_, err := c.GetRate(context.Background(), "EURUSD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestGetRateWithoutAPIKey(t *testing.T) {
	c := NewPricingClient("", zap.NewNop())

	_, err := c.GetRate(context.Background(), "EURUSD")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
