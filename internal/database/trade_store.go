package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/fxjournal/internal/models"
)

const tradeColumns = `id, user_id, currency_pair, direction, entry_price, exit_price,
	lot_size, entry_time, exit_time, stop_loss, take_profit, notes, strategy,
	screenshot_url, profit_loss, profit_loss_pct, risk_reward, tagged_events, created_at`

// TradeStore persists journal entries. Every lookup is scoped to the owning
// user; a trade belonging to someone else behaves exactly like a missing one.
type TradeStore struct {
	pool *pgxpool.Pool
}

// NewTradeStore creates a TradeStore backed by the given pool.
func NewTradeStore(pool *pgxpool.Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

func scanTrade(row pgx.Row) (*models.Trade, error) {
	t := &models.Trade{}
	err := row.Scan(
		&t.ID, &t.UserID, &t.CurrencyPair, &t.Direction, &t.EntryPrice, &t.ExitPrice,
		&t.LotSize, &t.EntryTime, &t.ExitTime, &t.StopLoss, &t.TakeProfit, &t.Notes,
		&t.Strategy, &t.ScreenshotURL, &t.ProfitLoss, &t.ProfitLossPct, &t.RiskReward,
		&t.TaggedEvents, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func collectTrades(rows pgx.Rows) ([]*models.Trade, error) {
	defer rows.Close()

	trades := make([]*models.Trade, 0)
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning trade row: %w", err)
		}
		trades = append(trades, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating trade rows: %w", rows.Err())
	}
	return trades, nil
}

// Create inserts a new trade. The id and creation timestamp are generated
// by the store and written back to the trade.
func (s *TradeStore) Create(ctx context.Context, t *models.Trade) error {
	if t.TaggedEvents == nil {
		t.TaggedEvents = []string{}
	}

	query := `INSERT INTO trades (user_id, currency_pair, direction, entry_price, exit_price,
				lot_size, entry_time, exit_time, stop_loss, take_profit, notes, strategy,
				profit_loss, profit_loss_pct, risk_reward, tagged_events)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			  RETURNING id, created_at`

	err := s.pool.QueryRow(ctx, query,
		t.UserID, t.CurrencyPair, t.Direction, t.EntryPrice, t.ExitPrice,
		t.LotSize, t.EntryTime, t.ExitTime, t.StopLoss, t.TakeProfit, t.Notes, t.Strategy,
		t.ProfitLoss, t.ProfitLossPct, t.RiskReward, t.TaggedEvents,
	).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		return fmt.Errorf("error creating trade for user %s: %w", t.UserID, err)
	}
	return nil
}

// ListByUser retrieves a user's trades, newest entry first, optionally
// filtered by strategy and/or currency pair.
func (s *TradeStore) ListByUser(ctx context.Context, userID uuid.UUID, strategy, currencyPair string, limit int) ([]*models.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE user_id = $1`
	args := []interface{}{userID}

	if strategy != "" {
		args = append(args, strategy)
		query += fmt.Sprintf(" AND strategy = $%d", len(args))
	}
	if currencyPair != "" {
		args = append(args, currencyPair)
		query += fmt.Sprintf(" AND currency_pair = $%d", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY entry_time DESC LIMIT $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying trades for user %s: %w", userID, err)
	}
	return collectTrades(rows)
}

// GetByID retrieves a specific trade owned by the given user.
func (s *TradeStore) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE id = $1 AND user_id = $2`

	t, err := scanTrade(s.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Trade not found
		}
		return nil, fmt.Errorf("error getting trade %s: %w", id, err)
	}
	return t, nil
}

// Update rewrites a trade's mutable fields. The tagged event snapshot, the
// screenshot reference and the creation timestamp are left untouched.
func (s *TradeStore) Update(ctx context.Context, t *models.Trade) error {
	query := `UPDATE trades SET
				currency_pair = $3, direction = $4, entry_price = $5, exit_price = $6,
				lot_size = $7, entry_time = $8, exit_time = $9, stop_loss = $10,
				take_profit = $11, notes = $12, strategy = $13,
				profit_loss = $14, profit_loss_pct = $15, risk_reward = $16
			  WHERE id = $1 AND user_id = $2`

	cmdTag, err := s.pool.Exec(ctx, query,
		t.ID, t.UserID, t.CurrencyPair, t.Direction, t.EntryPrice, t.ExitPrice,
		t.LotSize, t.EntryTime, t.ExitTime, t.StopLoss, t.TakeProfit, t.Notes, t.Strategy,
		t.ProfitLoss, t.ProfitLossPct, t.RiskReward,
	)
	if err != nil {
		return fmt.Errorf("error updating trade %s: %w", t.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("trade %s not found", t.ID)
	}
	return nil
}

// Delete removes a trade. It reports whether a row was actually deleted.
func (s *TradeStore) Delete(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	cmdTag, err := s.pool.Exec(ctx, `DELETE FROM trades WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("error deleting trade %s: %w", id, err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// SetScreenshot stores the encoded screenshot reference on a trade.
func (s *TradeStore) SetScreenshot(ctx context.Context, id, userID uuid.UUID, screenshotURL string) error {
	cmdTag, err := s.pool.Exec(ctx,
		`UPDATE trades SET screenshot_url = $3 WHERE id = $1 AND user_id = $2`,
		id, userID, screenshotURL,
	)
	if err != nil {
		return fmt.Errorf("error setting screenshot on trade %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("trade %s not found", id)
	}
	return nil
}

// ListClosedByUser retrieves a user's closed trades (exit price present)
// ordered by exit time ascending, the order the equity curve consumes.
func (s *TradeStore) ListClosedByUser(ctx context.Context, userID uuid.UUID) ([]*models.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades
			  WHERE user_id = $1 AND exit_price IS NOT NULL
			  ORDER BY exit_time ASC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying closed trades for user %s: %w", userID, err)
	}
	return collectTrades(rows)
}
