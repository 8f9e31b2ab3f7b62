package tagger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/fxjournal/internal/models"
)

// fakeFinder filters an in-memory event list the way the store's range query
// does: impact high, timestamp within [from, to] inclusive, capped at limit.
type fakeFinder struct {
	events   []*models.EconomicEvent
	lastFrom time.Time
	lastTo   time.Time
	err      error
}

func (f *fakeFinder) HighImpactBetween(_ context.Context, from, to time.Time, limit int) ([]*models.EconomicEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastFrom, f.lastTo = from, to

	matched := make([]*models.EconomicEvent, 0)
	for _, e := range f.events {
		if e.ImpactLevel != models.ImpactHigh {
			continue
		}
		if e.Timestamp.Before(from) || e.Timestamp.After(to) {
			continue
		}
		matched = append(matched, e)
		if len(matched) == limit {
			break
		}
	}
	return matched, nil
}

func event(name string, ts time.Time, impact string) *models.EconomicEvent {
	return &models.EconomicEvent{EventName: name, Timestamp: ts, ImpactLevel: impact}
}

func TestTagWindowBoundaries(t *testing.T) {
	entry := time.Date(2024, 3, 8, 13, 30, 0, 0, time.UTC)

	finder := &fakeFinder{events: []*models.EconomicEvent{
		event("NFP exactly 30m before", entry.Add(-30*time.Minute), models.ImpactHigh),
		event("CPI exactly 30m after", entry.Add(30*time.Minute), models.ImpactHigh),
		event("GDP 30m01s before", entry.Add(-30*time.Minute-time.Second), models.ImpactHigh),
		event("FOMC 30m01s after", entry.Add(30*time.Minute+time.Second), models.ImpactHigh),
		event("Retail Sales at entry", entry, models.ImpactLow),
	}}

	names, err := New(finder).Tag(context.Background(), entry)
	require.NoError(t, err)

	assert.Equal(t, []string{"NFP exactly 30m before", "CPI exactly 30m after"}, names)
	assert.Equal(t, entry.Add(-30*time.Minute), finder.lastFrom)
	assert.Equal(t, entry.Add(30*time.Minute), finder.lastTo)
}

func TestTagCapsAtTenEvents(t *testing.T) {
	entry := time.Date(2024, 3, 8, 13, 30, 0, 0, time.UTC)

	finder := &fakeFinder{}
	for i := 0; i < 15; i++ {
		finder.events = append(finder.events,
			event(fmt.Sprintf("CPI release %d", i), entry.Add(time.Duration(i)*time.Minute), models.ImpactHigh))
	}

	names, err := New(finder).Tag(context.Background(), entry)
	require.NoError(t, err)

	assert.Len(t, names, MaxTags)
}

func TestTagNoMatches(t *testing.T) {
	finder := &fakeFinder{}

	names, err := New(finder).Tag(context.Background(), time.Now())
	require.NoError(t, err)

	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestTagPropagatesStoreError(t *testing.T) {
	finder := &fakeFinder{err: fmt.Errorf("store unavailable")}

	_, err := New(finder).Tag(context.Background(), time.Now())
	assert.Error(t, err)
}
