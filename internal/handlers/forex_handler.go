package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/user/fxjournal/internal/marketdata"
)

// ForexHandler serves the live currency-pair price lookup.
type ForexHandler struct {
	prices PriceFetcher
	logger *zap.Logger
}

// NewForexHandler creates a ForexHandler.
func NewForexHandler(prices PriceFetcher, logger *zap.Logger) *ForexHandler {
	return &ForexHandler{prices: prices, logger: logger}
}

func validPairSymbol(symbol string) bool {
	if len(symbol) != 6 {
		return false
	}
	for _, r := range symbol {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Price returns the live exchange rate for a pair like EURUSD. A missing
// API key or an upstream response without price data both yield a null
// price with an explanatory message rather than an error.
func (h *ForexHandler) Price(c *fiber.Ctx) error {
	symbol := strings.ToUpper(c.Params("symbol"))
	if !validPairSymbol(symbol) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "symbol must be a six-letter currency pair like EURUSD"})
	}

	quote, err := h.prices.GetRate(c.Context(), symbol)
	if err != nil {
		if errors.Is(err, marketdata.ErrNotConfigured) {
			return c.JSON(fiber.Map{"symbol": symbol, "price": nil, "message": "Alpha Vantage API key not configured"})
		}
		h.logger.Error("Price lookup failed", zap.String("symbol", symbol), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	if quote == nil {
		return c.JSON(fiber.Map{"symbol": symbol, "price": nil, "message": "Price data not available"})
	}

	return c.JSON(quote)
}
