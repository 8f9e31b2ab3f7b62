// Package marketdata talks to the third-party calendar and pricing services
// and owns the impact classification applied to fetched calendar entries.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/user/fxjournal/internal/models"
)

const (
	finnhubBaseURL = "https://finnhub.io/api/v1"
	requestTimeout = 10 * time.Second
)

// ErrNotConfigured is returned when a client has no API key. Callers treat
// it as a graceful no-op, not a failure.
var ErrNotConfigured = errors.New("api key not configured")

// calendarResponse mirrors the Finnhub economic calendar payload.
type calendarResponse struct {
	EconomicCalendar []calendarEntry `json:"economicCalendar"`
}

type calendarEntry struct {
	Event    string   `json:"event"`
	Country  string   `json:"country"`
	Time     string   `json:"time"`
	Estimate *float64 `json:"estimate"`
	Prev     *float64 `json:"prev"`
	Actual   *float64 `json:"actual"`
}

// CalendarClient fetches economic calendar entries from Finnhub.
type CalendarClient struct {
	client *resty.Client
	apiKey string
	logger *zap.Logger
}

// NewCalendarClient creates a calendar client. An empty apiKey is allowed;
// FetchEvents then returns ErrNotConfigured.
func NewCalendarClient(apiKey string, logger *zap.Logger) *CalendarClient {
	client := resty.New().
		SetBaseURL(finnhubBaseURL).
		SetTimeout(requestTimeout)

	return &CalendarClient{client: client, apiKey: apiKey, logger: logger}
}

// FetchEvents retrieves calendar entries for the from/to date range
// (YYYY-MM-DD) and maps them to classified EconomicEvents.
func (c *CalendarClient) FetchEvents(ctx context.Context, from, to string) ([]*models.EconomicEvent, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	result := &calendarResponse{}
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"from":  from,
			"to":    to,
			"token": c.apiKey,
		}).
		SetResult(result).
		Get("/calendar/economic")

	if err != nil {
		c.logger.Error("Calendar fetch failed", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch economic calendar: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch economic calendar: status %d", resp.StatusCode())
	}

	events := make([]*models.EconomicEvent, 0, len(result.EconomicCalendar))
	for _, entry := range result.EconomicCalendar {
		ts, err := parseEventTime(entry.Time)
		if err != nil {
			return nil, fmt.Errorf("bad event time %q: %w", entry.Time, err)
		}

		events = append(events, &models.EconomicEvent{
			EventName:     entry.Event,
			Country:       entry.Country,
			Timestamp:     ts,
			ImpactLevel:   ClassifyImpact(entry.Event),
			Forecast:      entry.Estimate,
			Previous:      entry.Prev,
			Actual:        entry.Actual,
			AffectedPairs: AffectedPairs(entry.Country),
		})
	}

	c.logger.Info("Fetched economic calendar",
		zap.String("from", from), zap.String("to", to), zap.Int("events", len(events)))
	return events, nil
}

// parseEventTime accepts the two timestamp layouts the calendar feed emits.
// An empty time defaults to now, matching entries with no scheduled slot.
func parseEventTime(value string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC(), nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp layout")
}
