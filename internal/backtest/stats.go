package backtest

import (
	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Aggregate computes the summary statistics of a trade ledger. Win rate and
// average R count every trade; equity moves by each trade's PnL. It is the
// only place statistics are computed, so feeding a recorded ledger back in
// reproduces the reported figures.
func Aggregate(trades []types.Trade, initialCapital float64) (types.BacktestStats, []float64) {
	curve := EquityCurve(trades, initialCapital)
	final := curve[len(curve)-1]

	stats := types.BacktestStats{
		NumberOfTrades: len(trades),
		InitialCapital: initialCapital,
		FinalEquity:    final,
		MaxDrawdown:    MaxDrawdown(curve),
	}

	if initialCapital > 0 {
		stats.TotalReturn = final/initialCapital - 1
	}

	if len(trades) == 0 {
		return stats, curve
	}

	stats.NumberOfWinningTrades = lo.CountBy(trades, func(t types.Trade) bool { return t.IsWin() })
	stats.NumberOfLosingTrades = stats.NumberOfTrades - stats.NumberOfWinningTrades
	stats.WinRate = float64(stats.NumberOfWinningTrades) / float64(stats.NumberOfTrades)
	stats.AverageR = lo.SumBy(trades, func(t types.Trade) float64 { return t.RMultiple() }) / float64(len(trades))

	return stats, curve
}

// EquityCurve returns the equity before the first trade and after each
// trade.
func EquityCurve(trades []types.Trade, initialCapital float64) []float64 {
	curve := make([]float64, 0, len(trades)+1)
	equity := decimal.NewFromFloat(initialCapital)
	curve = append(curve, equity.InexactFloat64())

	for _, t := range trades {
		equity = equity.Add(decimal.NewFromFloat(t.PnL))
		curve = append(curve, equity.InexactFloat64())
	}

	return curve
}

// MaxDrawdown is the largest peak-to-trough fall of the curve as a fraction
// of the peak.
func MaxDrawdown(curve []float64) float64 {
	var peak, worst float64

	for _, equity := range curve {
		peak = max(peak, equity)
		if peak > 0 {
			worst = max(worst, (peak-equity)/peak)
		}
	}

	return worst
}
