package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/user/fxjournal/internal/database"
	"github.com/user/fxjournal/internal/marketdata"
	"github.com/user/fxjournal/internal/models"
)

type fakeUserStore struct {
	users []*models.User
}

func (f *fakeUserStore) Create(_ context.Context, email, passwordHash, name string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return nil, database.ErrDuplicateEmail
		}
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
	}
	f.users = append(f.users, user)
	return user, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

type fakeTradeStore struct {
	trades []*models.Trade
}

func (f *fakeTradeStore) Create(_ context.Context, t *models.Trade) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now().UTC()
	stored := *t
	f.trades = append(f.trades, &stored)
	return nil
}

func (f *fakeTradeStore) ListByUser(_ context.Context, userID uuid.UUID, strategy, currencyPair string, limit int) ([]*models.Trade, error) {
	out := make([]*models.Trade, 0)
	for _, t := range f.trades {
		if t.UserID != userID {
			continue
		}
		if strategy != "" && (t.Strategy == nil || *t.Strategy != strategy) {
			continue
		}
		if currencyPair != "" && t.CurrencyPair != currencyPair {
			continue
		}
		out = append(out, t)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeTradeStore) GetByID(_ context.Context, id, userID uuid.UUID) (*models.Trade, error) {
	for _, t := range f.trades {
		if t.ID == id && t.UserID == userID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeTradeStore) Update(_ context.Context, updated *models.Trade) error {
	for i, t := range f.trades {
		if t.ID == updated.ID && t.UserID == updated.UserID {
			stored := *updated
			stored.TaggedEvents = t.TaggedEvents
			stored.ScreenshotURL = t.ScreenshotURL
			stored.CreatedAt = t.CreatedAt
			f.trades[i] = &stored
			return nil
		}
	}
	return nil
}

func (f *fakeTradeStore) Delete(_ context.Context, id, userID uuid.UUID) (bool, error) {
	for i, t := range f.trades {
		if t.ID == id && t.UserID == userID {
			f.trades = append(f.trades[:i], f.trades[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTradeStore) SetScreenshot(_ context.Context, id, userID uuid.UUID, screenshotURL string) error {
	for _, t := range f.trades {
		if t.ID == id && t.UserID == userID {
			t.ScreenshotURL = &screenshotURL
		}
	}
	return nil
}

func (f *fakeTradeStore) ListClosedByUser(_ context.Context, userID uuid.UUID) ([]*models.Trade, error) {
	out := make([]*models.Trade, 0)
	for _, t := range f.trades {
		if t.UserID == userID && t.Closed() {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeEventStore struct {
	events   []*models.EconomicEvent
	inserted int
}

func (f *fakeEventStore) InsertBatch(_ context.Context, events []*models.EconomicEvent) (int, error) {
	f.events = append(f.events, events...)
	f.inserted += len(events)
	return len(events), nil
}

func (f *fakeEventStore) HighImpactRecent(_ context.Context, limit int) ([]*models.EconomicEvent, error) {
	out := make([]*models.EconomicEvent, 0)
	for _, e := range f.events {
		if e.ImpactLevel == models.ImpactHigh {
			out = append(out, e)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

type fakeTagger struct {
	tags  []string
	calls int
}

func (f *fakeTagger) Tag(_ context.Context, _ time.Time) ([]string, error) {
	f.calls++
	if f.tags == nil {
		return []string{}, nil
	}
	return f.tags, nil
}

type fakeCalendar struct {
	events []*models.EconomicEvent
	err    error
}

func (f *fakeCalendar) FetchEvents(_ context.Context, _, _ string) ([]*models.EconomicEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

type fakePrices struct {
	quote *marketdata.Quote
	err   error
}

func (f *fakePrices) GetRate(_ context.Context, _ string) (*marketdata.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.quote, nil
}

// asUser injects an authenticated user the way the real middleware does.
func asUser(userID uuid.UUID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, target))
}
