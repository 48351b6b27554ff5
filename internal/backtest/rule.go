package backtest

import (
	"github.com/MGmoket/stock-assistant/internal/indicator"
	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
)

// Rule answers entry and exit questions for a bar index. Every series a
// rule reads is causal: the value at i depends only on bars 0..i, so
// precomputing the lines over the whole sequence cannot leak future data.
type Rule interface {
	Name() RuleName
	// WarmUp is the first index at which Entry can fire.
	WarmUp() int
	Entry(i int) bool
	Exit(i int) bool
}

// NewRule builds the configured rule over bars.
func NewRule(config Config, bars []types.Bar) (Rule, error) {
	closes := types.Closes(bars)

	switch config.Rule {
	case RuleMACross:
		return &maCross{
			fast:   indicator.SMA(closes, config.Fast),
			slow:   indicator.SMA(closes, config.Slow),
			warmUp: config.Slow,
		}, nil
	case RuleMACDCross:
		lines := indicator.ComputeMACD(closes, config.MACDFast, config.MACDSlow, config.MACDSignal)

		return &macdCross{
			histogram: lines.Histogram,
			warmUp:    config.MACDSlow + config.MACDSignal - 1,
		}, nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnknownRule, "unknown backtest rule %q", config.Rule)
	}
}

type maCross struct {
	fast, slow Series
	warmUp     int
}

func (r *maCross) Name() RuleName   { return RuleMACross }
func (r *maCross) WarmUp() int      { return r.warmUp }
func (r *maCross) Entry(i int) bool { return indicator.CrossUp(r.fast, r.slow, i) }
func (r *maCross) Exit(i int) bool  { return indicator.CrossDown(r.fast, r.slow, i) }

type macdCross struct {
	histogram Series
	warmUp    int
}

func (r *macdCross) Name() RuleName   { return RuleMACDCross }
func (r *macdCross) WarmUp() int      { return r.warmUp }
func (r *macdCross) Entry(i int) bool { return indicator.GoldenCross(r.histogram, i) }
func (r *macdCross) Exit(i int) bool  { return indicator.DeadCross(r.histogram, i) }

// Series is the indicator line type rules read.
type Series = indicator.Series
