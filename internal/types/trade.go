package types

import "time"

// ExitReason says why a backtest position was closed.
type ExitReason string

const (
	ExitReasonSignal    ExitReason = "signal-exit"
	ExitReasonStopHit   ExitReason = "stop-hit"
	ExitReasonEndOfData ExitReason = "end-of-data"
)

// Trade is one completed round trip of the backtest engine.
type Trade struct {
	Symbol      string     `yaml:"symbol" json:"symbol" csv:"symbol"`
	EntryIndex  int        `yaml:"entry_index" json:"entry_index" csv:"entry_index"`
	EntryTime   time.Time  `yaml:"entry_time" json:"entry_time" csv:"entry_time"`
	EntryPrice  float64    `yaml:"entry_price" json:"entry_price" csv:"entry_price"`
	InitialStop float64    `yaml:"initial_stop" json:"initial_stop" csv:"initial_stop"`
	ExitIndex   int        `yaml:"exit_index" json:"exit_index" csv:"exit_index"`
	ExitTime    time.Time  `yaml:"exit_time" json:"exit_time" csv:"exit_time"`
	ExitPrice   float64    `yaml:"exit_price" json:"exit_price" csv:"exit_price"`
	ExitReason  ExitReason `yaml:"exit_reason" json:"exit_reason" csv:"exit_reason"`
	// Quantity is zero when the running equity could not afford one lot.
	Quantity int64   `yaml:"quantity" json:"quantity" csv:"quantity"`
	PnL      float64 `yaml:"pnl" json:"pnl" csv:"pnl"`
}

// Return is the per-share fractional return of the trade.
func (t Trade) Return() float64 {
	return t.ExitPrice/t.EntryPrice - 1
}

// Risk is the per-share initial risk.
func (t Trade) Risk() float64 {
	return t.EntryPrice - t.InitialStop
}

// RMultiple is the per-share result over the initial risk; zero when the
// risk is not positive.
func (t Trade) RMultiple() float64 {
	risk := t.Risk()
	if risk <= 0 {
		return 0
	}

	return (t.ExitPrice - t.EntryPrice) / risk
}

// IsWin reports a positive return.
func (t Trade) IsWin() bool {
	return t.ExitPrice > t.EntryPrice
}
