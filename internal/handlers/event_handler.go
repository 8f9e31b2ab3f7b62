package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/user/fxjournal/internal/marketdata"
)

const highImpactLimit = 50

// EventHandler serves the economic calendar sync and listing.
type EventHandler struct {
	events   EventStore
	calendar CalendarFetcher
	logger   *zap.Logger
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(events EventStore, calendar CalendarFetcher, logger *zap.Logger) *EventHandler {
	return &EventHandler{events: events, calendar: calendar, logger: logger}
}

// Sync pulls calendar entries for a date range from the upstream service and
// stores them. Without a configured API key this is a successful no-op.
func (h *EventHandler) Sync(c *fiber.Ctx) error {
	from := c.Query("from")
	to := c.Query("to")
	if _, err := time.Parse(time.DateOnly, from); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "from must be a YYYY-MM-DD date"})
	}
	if _, err := time.Parse(time.DateOnly, to); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "to must be a YYYY-MM-DD date"})
	}

	fetched, err := h.calendar.FetchEvents(c.Context(), from, to)
	if err != nil {
		if errors.Is(err, marketdata.ErrNotConfigured) {
			return c.JSON(fiber.Map{"message": "Finnhub API key not configured", "events_synced": 0})
		}
		h.logger.Error("Calendar sync failed", zap.String("from", from), zap.String("to", to), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	if len(fetched) == 0 {
		return c.JSON(fiber.Map{"message": "No events found", "events_synced": 0})
	}

	synced, err := h.events.InsertBatch(c.Context(), fetched)
	if err != nil {
		h.logger.Error("Failed to store synced events", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store events"})
	}

	return c.JSON(fiber.Map{
		"message":       fmt.Sprintf("Synced %d events", synced),
		"events_synced": synced,
	})
}

// HighImpact lists the most recent high-impact events.
func (h *EventHandler) HighImpact(c *fiber.Ctx) error {
	events, err := h.events.HighImpactRecent(c.Context(), highImpactLimit)
	if err != nil {
		h.logger.Error("Failed to list high impact events", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve events"})
	}

	return c.JSON(events)
}
