package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/user/fxjournal/internal/analytics"
)

// AnalyticsHandler serves aggregate statistics and the equity curve. Both
// are recomputed from the stored trades on every request.
type AnalyticsHandler struct {
	trades TradeStore
	logger *zap.Logger
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler(trades TradeStore, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{trades: trades, logger: logger}
}

// Stats aggregates the user's closed trades. A user with no closed trades
// gets the all-zero response, not an error.
func (h *AnalyticsHandler) Stats(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID in token"})
	}

	trades, err := h.trades.ListClosedByUser(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list closed trades", zap.String("user_id", userID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute statistics"})
	}

	return c.JSON(analytics.ComputeStats(trades))
}

// EquityCurve returns the cumulative balance over the user's closed trades
// in exit-time order.
func (h *AnalyticsHandler) EquityCurve(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID in token"})
	}

	trades, err := h.trades.ListClosedByUser(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list closed trades", zap.String("user_id", userID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute equity curve"})
	}

	return c.JSON(analytics.EquityCurve(trades))
}
