package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a connection pool to the record store and verifies it.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return pool, nil
}

// Migrate creates the three collections and their indexes. All statements
// are idempotent so startup can run this unconditionally.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			email         text NOT NULL UNIQUE,
			password_hash text NOT NULL,
			name          text NOT NULL,
			created_at    timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS trades (
			id              uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id         uuid NOT NULL REFERENCES users(id),
			currency_pair   text NOT NULL,
			direction       text NOT NULL,
			entry_price     double precision NOT NULL,
			exit_price      double precision,
			lot_size        double precision NOT NULL,
			entry_time      timestamptz NOT NULL,
			exit_time       timestamptz,
			stop_loss       double precision,
			take_profit     double precision,
			notes           text,
			strategy        text,
			screenshot_url  text,
			profit_loss     double precision,
			profit_loss_pct double precision,
			risk_reward     double precision,
			tagged_events   text[] NOT NULL DEFAULT '{}',
			created_at      timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS economic_events (
			id             uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			event_name     text NOT NULL,
			country        text NOT NULL,
			event_time     timestamptz NOT NULL,
			impact_level   text NOT NULL,
			forecast       double precision,
			previous       double precision,
			actual         double precision,
			affected_pairs text[] NOT NULL DEFAULT '{}',
			created_at     timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_user_id ON trades (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_entry_time ON trades (entry_time)`,
		`CREATE INDEX IF NOT EXISTS idx_events_event_time ON economic_events (event_time)`,
		`CREATE INDEX IF NOT EXISTS idx_events_impact_level ON economic_events (impact_level)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
