package indicator

import (
	"fmt"

	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
)

// ComputeRSI returns Wilder's RSI of values. The first average gain and
// loss are simple means of the first period changes, later ones use
// Wilder smoothing. Index period is the first defined value. A window with
// neither gains nor losses is undefined.
func ComputeRSI(values []float64, period int) Series {
	out := newSeries(len(values))
	if period <= 0 || len(values) <= period {
		return out
	}

	var avgGain, avgLoss float64

	for i := 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		gain := max(change, 0)
		loss := max(-change, 0)

		switch {
		case i < period:
			avgGain += gain
			avgLoss += loss

			continue
		case i == period:
			avgGain = (avgGain + gain) / float64(period)
			avgLoss = (avgLoss + loss) / float64(period)
		default:
			avgGain = (avgGain*float64(period-1) + gain) / float64(period)
			avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		}

		out[i] = rsiValue(avgGain, avgLoss)
	}

	return out
}

func rsiValue(avgGain, avgLoss float64) optionalFloat {
	if avgGain == 0 && avgLoss == 0 {
		return none()
	}

	if avgLoss == 0 {
		return value(100)
	}

	rs := avgGain / avgLoss

	return value(100 - 100/(1+rs))
}

// RSI represents the Relative Strength Index indicator.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	return &RSI{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config configures the RSI indicator. Expected parameters: period (int).
func (r *RSI) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, err := positiveInt(params[0], "period")
	if err != nil {
		return err
	}

	r.period = period

	return nil
}

// WarmUp implements Indicator.
func (r *RSI) WarmUp() int {
	return r.period + 1
}

// Compute implements Indicator.
func (r *RSI) Compute(bars []types.Bar) Output {
	return Output{
		fmt.Sprintf("rsi_%d", r.period): ComputeRSI(types.Closes(bars), r.period),
	}
}
