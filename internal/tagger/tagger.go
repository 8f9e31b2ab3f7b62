// Package tagger snapshots the high-impact economic events surrounding a
// trade's entry. The snapshot is taken once at trade creation and never
// recomputed, so later event syncs do not rewrite history.
package tagger

import (
	"context"
	"time"

	"github.com/user/fxjournal/internal/models"
)

const (
	// Window is the half-width of the entry-time window an event must fall
	// into, inclusive on both ends.
	Window = 30 * time.Minute

	// MaxTags caps how many event names get attached to a single trade.
	MaxTags = 10
)

// EventFinder is the slice of the event store the tagger needs.
type EventFinder interface {
	HighImpactBetween(ctx context.Context, from, to time.Time, limit int) ([]*models.EconomicEvent, error)
}

// Tagger joins trade entry times against stored economic events.
type Tagger struct {
	events EventFinder
}

// New creates a Tagger reading from the given event source.
func New(events EventFinder) *Tagger {
	return &Tagger{events: events}
}

// Tag returns the names of high-impact events within Window of entryTime.
func (t *Tagger) Tag(ctx context.Context, entryTime time.Time) ([]string, error) {
	events, err := t.events.HighImpactBetween(ctx, entryTime.Add(-Window), entryTime.Add(Window), MaxTags)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.EventName)
	}
	return names, nil
}
