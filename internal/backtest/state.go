package backtest

import (
	"github.com/MGmoket/stock-assistant/internal/indicator"
	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/moznion/go-optional"
)

// State is the position state of one instrument.
type State int

const (
	StateFlat State = iota
	StateLong
)

func (s State) String() string {
	if s == StateLong {
		return "LONG"
	}

	return "FLAT"
}

// Position is the open long while in StateLong.
type Position struct {
	EntryIndex int
	EntryPrice float64
	Stop       float64
}

// Context is the read-only input of the transition function.
type Context struct {
	Symbol string
	Bars   []types.Bar
	Rule   Rule
	Config Config
	// ATR is only read by the atr stop policy.
	ATR indicator.Series
}

// NewContext precomputes the rule lines for bars.
func NewContext(symbol string, bars []types.Bar, config Config) (*Context, error) {
	rule, err := NewRule(config, bars)
	if err != nil {
		return nil, err
	}

	ctx := &Context{Symbol: symbol, Bars: bars, Rule: rule, Config: config}
	if config.Stop.Kind == StopATR {
		ctx.ATR = indicator.ComputeATR(bars, config.Stop.ATRPeriod)
	}

	return ctx, nil
}

// Step advances the state machine by bar i and returns the new state, the
// new position and the trade closed on this bar, if any.
//
// With signal_close timing a signal on bar i fills at bar i's close; with
// next_open timing a signal on bar i-1 fills at bar i's open. A stop breach
// exits at the stop price and takes precedence over an exit signal. A
// position still open on the last bar is closed at its close.
func Step(state State, pos Position, i int, ctx *Context) (State, Position, optional.Option[types.Trade]) {
	last := len(ctx.Bars) - 1
	bar := ctx.Bars[i]

	switch state {
	case StateFlat:
		entryIndex, price, ok := ctx.entryFill(i)
		if !ok {
			return StateFlat, Position{}, optional.None[types.Trade]()
		}

		stop, ok := ctx.initialStop(entryIndex, price)
		if !ok {
			return StateFlat, Position{}, optional.None[types.Trade]()
		}

		pos = Position{EntryIndex: i, EntryPrice: price, Stop: stop}

		// an open fill trades through the rest of the bar
		if ctx.Config.Execution == ExecutionNextOpen {
			return Step(StateLong, pos, i, ctx)
		}

		return StateLong, pos, optional.None[types.Trade]()

	case StateLong:
		if bar.Low <= pos.Stop {
			return StateFlat, Position{}, optional.Some(ctx.close(pos, i, pos.Stop, types.ExitReasonStopHit))
		}

		if price, ok := ctx.exitFill(i, pos); ok {
			return StateFlat, Position{}, optional.Some(ctx.close(pos, i, price, types.ExitReasonSignal))
		}

		if i == last {
			return StateFlat, Position{}, optional.Some(ctx.close(pos, i, bar.Close, types.ExitReasonEndOfData))
		}

		return StateLong, pos, optional.None[types.Trade]()
	}

	return state, pos, optional.None[types.Trade]()
}

// entryFill returns the signal index and fill price of an entry on bar i.
// Signals before the rule's warm-up are ignored.
func (c *Context) entryFill(i int) (int, float64, bool) {
	if c.Config.Execution == ExecutionNextOpen {
		if i-1 < c.Rule.WarmUp() || !c.Rule.Entry(i-1) {
			return 0, 0, false
		}

		return i - 1, c.Bars[i].Open, true
	}

	// a close fill on the final bar could never be held
	if i < c.Rule.WarmUp() || i == len(c.Bars)-1 || !c.Rule.Entry(i) {
		return 0, 0, false
	}

	return i, c.Bars[i].Close, true
}

// exitFill returns the fill price of a signal exit on bar i.
func (c *Context) exitFill(i int, pos Position) (float64, bool) {
	if c.Config.Execution == ExecutionNextOpen {
		// the signal bar must be after the fill bar
		if i-1 <= pos.EntryIndex || !c.Rule.Exit(i-1) {
			return 0, false
		}

		return c.Bars[i].Open, true
	}

	if i <= pos.EntryIndex || !c.Rule.Exit(i) {
		return 0, false
	}

	return c.Bars[i].Close, true
}

// initialStop places the stop from data known at the signal bar.
func (c *Context) initialStop(signal int, price float64) (float64, bool) {
	var stop float64

	switch c.Config.Stop.Kind {
	case StopATR:
		atr, ok := c.ATR.Get(signal)
		if !ok {
			return 0, false
		}

		stop = price - c.Config.Stop.ATRMultiple*atr
	default:
		stop = price * (1 - c.Config.Stop.Percent)
	}

	return stop, stop > 0 && stop < price
}

func (c *Context) close(pos Position, i int, price float64, reason types.ExitReason) types.Trade {
	return types.Trade{
		Symbol:      c.Symbol,
		EntryIndex:  pos.EntryIndex,
		EntryTime:   c.Bars[pos.EntryIndex].Time,
		EntryPrice:  pos.EntryPrice,
		InitialStop: pos.Stop,
		ExitIndex:   i,
		ExitTime:    c.Bars[i].Time,
		ExitPrice:   price,
		ExitReason:  reason,
	}
}
