package marketdata

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const alphaVantageBaseURL = "https://www.alphavantage.co"

// Quote is a live exchange rate for a currency pair.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Bid       float64 `json:"bid"`
	Ask       float64 `json:"ask"`
	Timestamp string  `json:"timestamp"`
}

// realtimeRate mirrors the Alpha Vantage CURRENCY_EXCHANGE_RATE payload,
// whose numeric fields arrive as strings under numbered keys.
type realtimeRate struct {
	ExchangeRate  string `json:"5. Exchange Rate"`
	LastRefreshed string `json:"6. Last Refreshed"`
	BidPrice      string `json:"8. Bid Price"`
	AskPrice      string `json:"9. Ask Price"`
}

type exchangeRateResponse struct {
	Rate *realtimeRate `json:"Realtime Currency Exchange Rate"`
}

// PricingClient fetches live exchange rates from Alpha Vantage.
type PricingClient struct {
	client *resty.Client
	apiKey string
	logger *zap.Logger
}

// NewPricingClient creates a pricing client. An empty apiKey is allowed;
// GetRate then returns ErrNotConfigured.
func NewPricingClient(apiKey string, logger *zap.Logger) *PricingClient {
	client := resty.New().
		SetBaseURL(alphaVantageBaseURL).
		SetTimeout(requestTimeout)

	return &PricingClient{client: client, apiKey: apiKey, logger: logger}
}

// GetRate fetches the live rate for a six-letter pair symbol like EURUSD.
// A response without the expected rate shape yields (nil, nil): the price is
// unavailable but the lookup itself did not fail.
func (c *PricingClient) GetRate(ctx context.Context, symbol string) (*Quote, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if len(symbol) != 6 {
		return nil, fmt.Errorf("invalid pair symbol %q", symbol)
	}

	result := &exchangeRateResponse{}
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function":      "CURRENCY_EXCHANGE_RATE",
			"from_currency": symbol[:3],
			"to_currency":   symbol[3:],
			"apikey":        c.apiKey,
		}).
		SetResult(result).
		Get("/query")

	if err != nil {
		c.logger.Error("Price fetch failed", zap.String("symbol", symbol), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch forex price: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch forex price: status %d", resp.StatusCode())
	}

	if result.Rate == nil {
		return nil, nil // Price data not available for this pair
	}

	return &Quote{
		Symbol:    symbol,
		Price:     parseRate(result.Rate.ExchangeRate),
		Bid:       parseRate(result.Rate.BidPrice),
		Ask:       parseRate(result.Rate.AskPrice),
		Timestamp: result.Rate.LastRefreshed,
	}, nil
}

func parseRate(value string) float64 {
	rate, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return rate
}
