package models

import (
	"time"

	"github.com/google/uuid"
)

// Trade directions.
const (
	DirectionLong  = "long"
	DirectionShort = "short"
)

// Event impact levels.
const (
	ImpactHigh   = "high"
	ImpactMedium = "medium"
	ImpactLow    = "low"
)

// User represents a registered account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Store hash, exclude from JSON responses
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

// Trade represents a single journal entry. A trade with no exit price is
// open; ProfitLoss, ProfitLossPct and RiskReward are set only when the
// trade is closed.
type Trade struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	CurrencyPair  string     `json:"currency_pair"`
	Direction     string     `json:"direction"`
	EntryPrice    float64    `json:"entry_price"`
	ExitPrice     *float64   `json:"exit_price"`
	LotSize       float64    `json:"lot_size"`
	EntryTime     time.Time  `json:"entry_time"`
	ExitTime      *time.Time `json:"exit_time"`
	StopLoss      *float64   `json:"stop_loss"`
	TakeProfit    *float64   `json:"take_profit"`
	Notes         *string    `json:"notes"`
	Strategy      *string    `json:"strategy"`
	ScreenshotURL *string    `json:"screenshot_url"`
	ProfitLoss    *float64   `json:"profit_loss"`
	ProfitLossPct *float64   `json:"profit_loss_pct"`
	RiskReward    *float64   `json:"risk_reward"`
	TaggedEvents  []string   `json:"tagged_events"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Closed reports whether the trade has an exit price recorded.
func (t *Trade) Closed() bool {
	return t.ExitPrice != nil
}

// EconomicEvent is a macroeconomic calendar entry. Events are written only
// by the bulk sync operation and are shared, read-only data afterwards.
type EconomicEvent struct {
	ID            uuid.UUID `json:"id"`
	EventName     string    `json:"event_name"`
	Country       string    `json:"country"`
	Timestamp     time.Time `json:"timestamp"`
	ImpactLevel   string    `json:"impact_level"`
	Forecast      *float64  `json:"forecast"`
	Previous      *float64  `json:"previous"`
	Actual        *float64  `json:"actual"`
	AffectedPairs []string  `json:"affected_pairs"`
	CreatedAt     time.Time `json:"created_at"`
}
