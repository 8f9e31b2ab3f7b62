// Package analytics holds the journal's derived-number computations: per-trade
// P&L and risk/reward at write time, aggregate statistics and the equity curve
// at read time. Everything here is a pure function over in-memory trades;
// results are recomputed on every request and never cached.
package analytics

import (
	"math"
	"time"

	"github.com/user/fxjournal/internal/models"
)

const (
	// UnitsPerLot is the position-size multiplier: one standard lot is
	// 100,000 units of base currency.
	UnitsPerLot = 100000.0

	// StartingBalance is the account balance the equity curve starts from.
	StartingBalance = 10000.0
)

// Stats aggregates a user's closed trades.
type Stats struct {
	TotalTrades        int     `json:"total_trades"`
	WinRate            float64 `json:"win_rate"`
	TotalProfitLoss    float64 `json:"total_profit_loss"`
	TotalProfitLossPct float64 `json:"total_profit_loss_pct"`
	AverageWin         float64 `json:"average_win"`
	AverageLoss        float64 `json:"average_loss"`
	BestTrade          float64 `json:"best_trade"`
	WorstTrade         float64 `json:"worst_trade"`
	LongWinRate        float64 `json:"long_win_rate"`
	ShortWinRate       float64 `json:"short_win_rate"`
}

// EquityPoint is one step of the cumulative balance curve.
type EquityPoint struct {
	Date       string  `json:"date"`
	Balance    float64 `json:"balance"`
	BalancePct float64 `json:"balance_pct"`
}

// Derive fills in a trade's profit/loss, percentage return and risk/reward
// ratio from its prices. When the trade is open (no exit price) all three
// derived fields are cleared, keeping the invariant that derived values
// exist only on closed trades.
func Derive(t *models.Trade) {
	t.ProfitLoss = nil
	t.ProfitLossPct = nil
	t.RiskReward = nil

	if t.ExitPrice == nil {
		return
	}

	size := t.LotSize * UnitsPerLot

	var pl, plPct float64
	if t.Direction == models.DirectionLong {
		pl = (*t.ExitPrice - t.EntryPrice) * size
		plPct = (*t.ExitPrice - t.EntryPrice) / t.EntryPrice * 100
	} else {
		pl = (t.EntryPrice - *t.ExitPrice) * size
		plPct = (t.EntryPrice - *t.ExitPrice) / t.EntryPrice * 100
	}
	t.ProfitLoss = &pl
	t.ProfitLossPct = &plPct

	if t.StopLoss != nil {
		risk := math.Abs(t.EntryPrice-*t.StopLoss) * size
		if risk > 0 {
			rr := math.Abs(pl) / risk
			t.RiskReward = &rr
		}
	}
}

func profitLoss(t *models.Trade) float64 {
	if t.ProfitLoss == nil {
		return 0
	}
	return *t.ProfitLoss
}

func profitLossPct(t *models.Trade) float64 {
	if t.ProfitLossPct == nil {
		return 0
	}
	return *t.ProfitLossPct
}

// ComputeStats aggregates the given closed trades. A break-even trade counts
// as a loss. An empty slice yields the all-zero Stats, never an error.
func ComputeStats(trades []*models.Trade) Stats {
	stats := Stats{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return stats
	}

	var wins, losses int
	var winSum, lossSum float64
	var longs, shorts, longWins, shortWins int

	stats.BestTrade = profitLoss(trades[0])
	stats.WorstTrade = profitLoss(trades[0])

	for _, t := range trades {
		pl := profitLoss(t)
		stats.TotalProfitLoss += pl
		stats.TotalProfitLossPct += profitLossPct(t)

		if pl > 0 {
			wins++
			winSum += pl
		} else {
			losses++
			lossSum += pl
		}

		if pl > stats.BestTrade {
			stats.BestTrade = pl
		}
		if pl < stats.WorstTrade {
			stats.WorstTrade = pl
		}

		if t.Direction == models.DirectionLong {
			longs++
			if pl > 0 {
				longWins++
			}
		} else {
			shorts++
			if pl > 0 {
				shortWins++
			}
		}
	}

	stats.WinRate = float64(wins) / float64(len(trades)) * 100
	if wins > 0 {
		stats.AverageWin = winSum / float64(wins)
	}
	if losses > 0 {
		stats.AverageLoss = lossSum / float64(losses)
	}
	if longs > 0 {
		stats.LongWinRate = float64(longWins) / float64(longs) * 100
	}
	if shorts > 0 {
		stats.ShortWinRate = float64(shortWins) / float64(shorts) * 100
	}

	return stats
}

// EquityCurve walks the given closed trades, which must already be ordered
// by exit time ascending, and accumulates their P&L on top of the starting
// balance. Dates are day-granular; same-day trades produce separate points.
func EquityCurve(trades []*models.Trade) []EquityPoint {
	curve := make([]EquityPoint, 0, len(trades))
	cumulative := 0.0

	for _, t := range trades {
		cumulative += profitLoss(t)

		date := ""
		if t.ExitTime != nil {
			date = t.ExitTime.Format(time.DateOnly)
		}

		curve = append(curve, EquityPoint{
			Date:       date,
			Balance:    StartingBalance + cumulative,
			BalancePct: cumulative / StartingBalance * 100,
		})
	}

	return curve
}
