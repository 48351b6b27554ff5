package indicator

import (
	"fmt"

	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
)

// SMA returns the simple moving average of values. Indices below period-1
// are undefined.
func SMA(values []float64, period int) Series {
	out := newSeries(len(values))
	if period <= 0 {
		return out
	}

	var sum float64

	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}

		if i >= period-1 {
			out[i] = value(sum / float64(period))
		}
	}

	return out
}

// MA is the simple moving average of closes.
type MA struct {
	period int
}

// NewMA creates a new MA indicator with default configuration.
func NewMA() Indicator {
	return &MA{
		period: 20,
	}
}

// Name returns the name of the indicator.
func (m *MA) Name() types.IndicatorType {
	return types.IndicatorTypeMA
}

// Config configures the MA indicator. Expected parameters: period (int).
func (m *MA) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, err := positiveInt(params[0], "period")
	if err != nil {
		return err
	}

	m.period = period

	return nil
}

// WarmUp implements Indicator.
func (m *MA) WarmUp() int {
	return m.period
}

// Compute implements Indicator.
func (m *MA) Compute(bars []types.Bar) Output {
	return Output{
		fmt.Sprintf("ma_%d", m.period): SMA(types.Closes(bars), m.period),
	}
}

func positiveInt(param any, name string) (int, error) {
	v, ok := param.(int)
	if !ok {
		return 0, errors.Newf(errors.ErrCodeInvalidType, "invalid type for %s parameter, expected int", name)
	}

	if v <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidPeriod, "%s must be a positive integer, got %d", name, v)
	}

	return v, nil
}

func positiveFloat(param any, name string) (float64, error) {
	var v float64

	switch p := param.(type) {
	case float64:
		v = p
	case int:
		v = float64(p)
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidType, "invalid type for %s parameter, expected float64", name)
	}

	if v <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidMultiplier, "%s must be positive, got %f", name, v)
	}

	return v, nil
}
