package indicator

import (
	"math"

	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
)

// BollingerLines holds the band series and the close position inside them.
type BollingerLines struct {
	Upper  Series
	Middle Series
	Lower  Series
	// PercentB is the close position between the bands on a 0-100 scale;
	// undefined when the bands have zero width.
	PercentB Series
}

// ComputeBollinger returns bands of k sample standard deviations around the
// period moving average of values.
func ComputeBollinger(values []float64, period int, k float64) BollingerLines {
	n := len(values)
	lines := BollingerLines{
		Upper:    newSeries(n),
		Middle:   newSeries(n),
		Lower:    newSeries(n),
		PercentB: newSeries(n),
	}

	if period < 2 {
		return lines
	}

	middle := SMA(values, period)
	for i := period - 1; i < n; i++ {
		mean, _ := middle.Get(i)

		var squares float64
		for _, v := range values[i-period+1 : i+1] {
			squares += (v - mean) * (v - mean)
		}

		std := math.Sqrt(squares / float64(period-1))
		upper := mean + k*std
		lower := mean - k*std

		lines.Middle[i] = value(mean)
		lines.Upper[i] = value(upper)
		lines.Lower[i] = value(lower)

		if width := upper - lower; width > 0 {
			lines.PercentB[i] = value((values[i] - lower) / width * 100)
		}
	}

	return lines
}

// BollingerBands represents the Bollinger Bands indicator.
type BollingerBands struct {
	period int
	stdDev float64
}

// NewBollingerBands creates a new Bollinger Bands indicator with default configuration.
func NewBollingerBands() Indicator {
	return &BollingerBands{
		period: 20,
		stdDev: 2.0,
	}
}

// Name returns the name of the indicator.
func (bb *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Config configures the Bollinger Bands indicator.
// Expected parameters: period (int), stdDev (float64).
func (bb *BollingerBands) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: period (int), stdDev (float64)")
	}

	period, err := positiveInt(params[0], "period")
	if err != nil {
		return err
	}

	if period < 2 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be at least 2, got %d", period)
	}

	stdDev, err := positiveFloat(params[1], "stdDev")
	if err != nil {
		return err
	}

	bb.period = period
	bb.stdDev = stdDev

	return nil
}

// WarmUp implements Indicator.
func (bb *BollingerBands) WarmUp() int {
	return bb.period
}

// Compute implements Indicator.
func (bb *BollingerBands) Compute(bars []types.Bar) Output {
	lines := ComputeBollinger(types.Closes(bars), bb.period, bb.stdDev)

	return Output{
		"upper":     lines.Upper,
		"middle":    lines.Middle,
		"lower":     lines.Lower,
		"percent_b": lines.PercentB,
	}
}
