package indicator

import (
	"fmt"

	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
)

// EMA returns the exponential moving average of values with smoothing
// 2/(period+1). The recursion is seeded with the first value, so defined
// outputs match a non-adjusted pandas ewm; indices below period-1 are
// masked as undefined.
func EMA(values []float64, period int) Series {
	if period <= 0 {
		return newSeries(len(values))
	}

	return mask(ewm(values, 2/float64(period+1)), period-1)
}

// ewm runs out = alpha*x + (1-alpha)*prev seeded with values[0].
func ewm(values []float64, alpha float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if i == 0 {
			out[i] = v

			continue
		}

		out[i] = alpha*v + (1-alpha)*out[i-1]
	}

	return out
}

// mask wraps values, leaving indices below from undefined.
func mask(values []float64, from int) Series {
	out := newSeries(len(values))
	for i := max(from, 0); i < len(values); i++ {
		out[i] = value(values[i])
	}

	return out
}

// smooth runs the same recursion over a series that may contain gaps. It is
// seeded with the first defined input; undefined inputs after the seed keep
// the state and produce undefined outputs.
func smooth(src Series, alpha float64) Series {
	out := newSeries(len(src))

	start := src.FirstDefined()
	if start < 0 {
		return out
	}

	prev, _ := src.Get(start)
	out[start] = value(prev)

	for i := start + 1; i < len(src); i++ {
		x, ok := src.Get(i)
		if !ok {
			continue
		}

		prev = alpha*x + (1-alpha)*prev
		out[i] = value(prev)
	}

	return out
}

// EMAIndicator is the exponential moving average of closes.
type EMAIndicator struct {
	period int
}

// NewEMA creates a new EMA indicator with default configuration.
func NewEMA() Indicator {
	return &EMAIndicator{
		period: 12,
	}
}

// Name returns the name of the indicator.
func (e *EMAIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Config configures the EMA indicator. Expected parameters: period (int).
func (e *EMAIndicator) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, err := positiveInt(params[0], "period")
	if err != nil {
		return err
	}

	e.period = period

	return nil
}

// WarmUp implements Indicator.
func (e *EMAIndicator) WarmUp() int {
	return e.period
}

// Compute implements Indicator.
func (e *EMAIndicator) Compute(bars []types.Bar) Output {
	return Output{
		fmt.Sprintf("ema_%d", e.period): EMA(types.Closes(bars), e.period),
	}
}
