package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/fxjournal/internal/models"
)

const eventColumns = `id, event_name, country, event_time, impact_level,
	forecast, previous, actual, affected_pairs, created_at`

// EventStore persists economic calendar entries. Events are append-only:
// the sync operation inserts them and nothing ever mutates them.
type EventStore struct {
	pool *pgxpool.Pool
}

// NewEventStore creates an EventStore backed by the given pool.
func NewEventStore(pool *pgxpool.Pool) *EventStore {
	return &EventStore{pool: pool}
}

// InsertBatch stores a batch of synced events and returns how many were written.
func (s *EventStore) InsertBatch(ctx context.Context, events []*models.EconomicEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	query := `INSERT INTO economic_events
				(event_name, country, event_time, impact_level, forecast, previous, actual, affected_pairs)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, e := range events {
		pairs := e.AffectedPairs
		if pairs == nil {
			pairs = []string{}
		}
		batch.Queue(query, e.EventName, e.Country, e.Timestamp, e.ImpactLevel,
			e.Forecast, e.Previous, e.Actual, pairs)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range events {
		if _, err := results.Exec(); err != nil {
			return 0, fmt.Errorf("error inserting economic events: %w", err)
		}
	}
	return len(events), nil
}

func collectEvents(rows pgx.Rows) ([]*models.EconomicEvent, error) {
	defer rows.Close()

	events := make([]*models.EconomicEvent, 0)
	for rows.Next() {
		e := &models.EconomicEvent{}
		err := rows.Scan(
			&e.ID, &e.EventName, &e.Country, &e.Timestamp, &e.ImpactLevel,
			&e.Forecast, &e.Previous, &e.Actual, &e.AffectedPairs, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", rows.Err())
	}
	return events, nil
}

// HighImpactRecent lists high-impact events, newest first.
func (s *EventStore) HighImpactRecent(ctx context.Context, limit int) ([]*models.EconomicEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM economic_events
			  WHERE impact_level = $1
			  ORDER BY event_time DESC LIMIT $2`

	rows, err := s.pool.Query(ctx, query, models.ImpactHigh, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying high impact events: %w", err)
	}
	return collectEvents(rows)
}

// HighImpactBetween lists high-impact events whose timestamp falls within
// [from, to], both ends inclusive.
func (s *EventStore) HighImpactBetween(ctx context.Context, from, to time.Time, limit int) ([]*models.EconomicEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM economic_events
			  WHERE impact_level = $1 AND event_time BETWEEN $2 AND $3
			  LIMIT $4`

	rows, err := s.pool.Query(ctx, query, models.ImpactHigh, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying events between %s and %s: %w", from, to, err)
	}
	return collectEvents(rows)
}
