package indicator

import (
	"math"

	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
)

// ComputeATR returns Wilder's average true range. The first value, at index
// period-1, is the mean true range of the first period bars.
func ComputeATR(bars []types.Bar, period int) Series {
	out := newSeries(len(bars))
	if period <= 0 || len(bars) < period {
		return out
	}

	var atr float64

	for i, bar := range bars {
		tr := bar.High - bar.Low
		if i > 0 {
			prevClose := bars[i-1].Close
			tr = math.Max(tr, math.Max(math.Abs(bar.High-prevClose), math.Abs(bar.Low-prevClose)))
		}

		switch {
		case i < period-1:
			atr += tr

			continue
		case i == period-1:
			atr = (atr + tr) / float64(period)
		default:
			atr = (atr*float64(period-1) + tr) / float64(period)
		}

		out[i] = value(atr)
	}

	return out
}

// ATR represents the Average True Range indicator.
type ATR struct {
	period int
}

// NewATR creates a new ATR indicator with default configuration.
func NewATR() Indicator {
	return &ATR{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (a *ATR) Name() types.IndicatorType {
	return types.IndicatorTypeATR
}

// Config configures the ATR indicator. Expected parameters: period (int).
func (a *ATR) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, err := positiveInt(params[0], "period")
	if err != nil {
		return err
	}

	a.period = period

	return nil
}

// WarmUp implements Indicator.
func (a *ATR) WarmUp() int {
	return a.period
}

// Compute implements Indicator.
func (a *ATR) Compute(bars []types.Bar) Output {
	return Output{
		"atr": ComputeATR(bars, a.period),
	}
}
