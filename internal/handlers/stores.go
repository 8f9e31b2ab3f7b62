package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/user/fxjournal/internal/marketdata"
	"github.com/user/fxjournal/internal/models"
)

// The handler structs depend on these narrow interfaces rather than the
// concrete pgx stores, so tests can run the HTTP surface against in-memory
// fakes.

// UserStore is the user persistence the auth handlers need.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash, name string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// TradeStore is the trade persistence the trade and analytics handlers need.
type TradeStore interface {
	Create(ctx context.Context, t *models.Trade) error
	ListByUser(ctx context.Context, userID uuid.UUID, strategy, currencyPair string, limit int) ([]*models.Trade, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Trade, error)
	Update(ctx context.Context, t *models.Trade) error
	Delete(ctx context.Context, id, userID uuid.UUID) (bool, error)
	SetScreenshot(ctx context.Context, id, userID uuid.UUID, screenshotURL string) error
	ListClosedByUser(ctx context.Context, userID uuid.UUID) ([]*models.Trade, error)
}

// EventStore is the calendar persistence the event handlers need.
type EventStore interface {
	InsertBatch(ctx context.Context, events []*models.EconomicEvent) (int, error)
	HighImpactRecent(ctx context.Context, limit int) ([]*models.EconomicEvent, error)
}

// EventTagger snapshots the events around a trade entry.
type EventTagger interface {
	Tag(ctx context.Context, entryTime time.Time) ([]string, error)
}

// CalendarFetcher pulls calendar entries from the upstream service.
type CalendarFetcher interface {
	FetchEvents(ctx context.Context, from, to string) ([]*models.EconomicEvent, error)
}

// PriceFetcher pulls a live exchange rate from the upstream service.
type PriceFetcher interface {
	GetRate(ctx context.Context, symbol string) (*marketdata.Quote, error)
}

// currentUserID reads the authenticated user set by the auth middleware.
func currentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	userID, ok := c.Locals("userID").(uuid.UUID)
	return userID, ok
}
