package backtest

import (
	"github.com/MGmoket/stock-assistant/internal/logger"
	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Engine replays bar sequences through the FLAT/LONG state machine. It
// holds only its configuration, so one engine may run many instruments
// concurrently and every run is reproducible.
type Engine struct {
	config Config
	logger *logger.Logger
}

// NewEngine validates config. A nil logger discards debug output.
func NewEngine(config Config, log *logger.Logger) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Engine{config: config, logger: logger.OrNop(log)}, nil
}

func (e *Engine) Config() Config {
	return e.config
}

// Run replays bars for one instrument. Sequences too short for the rule's
// warm-up produce a result without trades.
func (e *Engine) Run(symbol string, bars []types.Bar) (types.BacktestResult, error) {
	if err := types.ValidateBars(bars); err != nil {
		return types.BacktestResult{}, err
	}

	trades, err := e.Replay(symbol, bars)
	if err != nil {
		return types.BacktestResult{}, err
	}

	stats, curve := Aggregate(trades, e.config.InitialCapital)

	e.logger.Debug("backtest finished",
		zap.String("symbol", symbol),
		zap.String("rule", string(e.config.Rule)),
		zap.Int("bars", len(bars)),
		zap.Int("trades", stats.NumberOfTrades),
		zap.Float64("total_return", stats.TotalReturn),
	)

	return types.BacktestResult{
		Symbol:      symbol,
		Rule:        string(e.config.Rule),
		Stats:       stats,
		Trades:      trades,
		EquityCurve: curve,
	}, nil
}

// Replay runs the state machine and sizes each closed trade.
func (e *Engine) Replay(symbol string, bars []types.Bar) ([]types.Trade, error) {
	ctx, err := NewContext(symbol, bars, e.config)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("replay started",
		zap.String("symbol", symbol),
		zap.String("rule", string(ctx.Rule.Name())),
		zap.Int("warm_up", ctx.Rule.WarmUp()),
		zap.Int("bars", len(bars)),
	)

	if len(bars) <= ctx.Rule.WarmUp() {
		return nil, nil
	}

	var (
		trades []types.Trade
		state  = StateFlat
		pos    Position
		equity = decimal.NewFromFloat(e.config.InitialCapital)
	)

	for i := range bars {
		var closed optional.Option[types.Trade]

		state, pos, closed = Step(state, pos, i, ctx)
		if closed.IsNone() {
			continue
		}

		trade := closed.Unwrap()
		trade.Quantity = e.quantity(trade.EntryPrice, equity)
		pnl := decimal.NewFromFloat(trade.ExitPrice).Sub(decimal.NewFromFloat(trade.EntryPrice)).
			Mul(decimal.NewFromInt(trade.Quantity))
		trade.PnL = pnl.InexactFloat64()
		equity = equity.Add(pnl)

		e.logger.Debug("trade closed",
			zap.String("symbol", symbol),
			zap.Int("entry_index", trade.EntryIndex),
			zap.Int("exit_index", trade.ExitIndex),
			zap.String("reason", string(trade.ExitReason)),
			zap.Int64("quantity", trade.Quantity),
		)

		trades = append(trades, trade)
	}

	return trades, nil
}

// quantity sizes a trade in whole lots from the sizing policy.
func (e *Engine) quantity(entry float64, equity decimal.Decimal) int64 {
	sizing := e.config.Sizing
	base := equity
	if sizing.Kind == SizingFixedCapital {
		base = decimal.NewFromFloat(e.config.InitialCapital)
	}

	if !base.IsPositive() {
		return 0
	}

	lot := decimal.NewFromInt(sizing.LotSize)
	budget := base.Mul(decimal.NewFromFloat(sizing.Fraction))

	return budget.Div(decimal.NewFromFloat(entry)).Div(lot).Floor().Mul(lot).IntPart()
}
