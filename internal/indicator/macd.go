package indicator

import (
	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
)

// MACDLines holds the three MACD series.
type MACDLines struct {
	// DIF is fast EMA minus slow EMA.
	DIF Series
	// DEA is the signal-period EMA of DIF.
	DEA Series
	// Histogram is DIF minus DEA.
	Histogram Series
}

// ComputeMACD returns the MACD lines of values. DIF is defined from index
// slow-1; DEA and Histogram from slow+signal-2.
func ComputeMACD(values []float64, fast, slow, signal int) MACDLines {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		n := len(values)

		return MACDLines{DIF: newSeries(n), DEA: newSeries(n), Histogram: newSeries(n)}
	}

	fastLine := ewm(values, 2/float64(fast+1))
	slowLine := ewm(values, 2/float64(slow+1))

	dif := make([]float64, len(values))
	for i := range values {
		dif[i] = fastLine[i] - slowLine[i]
	}

	dea := ewm(dif, 2/float64(signal+1))

	hist := make([]float64, len(values))
	for i := range values {
		hist[i] = dif[i] - dea[i]
	}

	difFrom := max(fast, slow) - 1
	signalFrom := difFrom + signal - 1

	return MACDLines{
		DIF:       mask(dif, difFrom),
		DEA:       mask(dea, signalFrom),
		Histogram: mask(hist, signalFrom),
	}
}

// MACD represents the Moving Average Convergence Divergence indicator.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD indicator with default configuration.
func NewMACD() Indicator {
	return &MACD{
		fastPeriod:   12,
		slowPeriod:   26,
		signalPeriod: 9,
	}
}

// Name returns the name of the indicator.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Config configures the MACD indicator.
// Expected parameters: fastPeriod (int), slowPeriod (int), signalPeriod (int).
func (m *MACD) Config(params ...any) error {
	if len(params) != 3 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 3 parameters: fastPeriod (int), slowPeriod (int), signalPeriod (int)")
	}

	fastPeriod, err := positiveInt(params[0], "fastPeriod")
	if err != nil {
		return err
	}

	slowPeriod, err := positiveInt(params[1], "slowPeriod")
	if err != nil {
		return err
	}

	signalPeriod, err := positiveInt(params[2], "signalPeriod")
	if err != nil {
		return err
	}

	if fastPeriod >= slowPeriod {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "fastPeriod (%d) must be less than slowPeriod (%d)", fastPeriod, slowPeriod)
	}

	m.fastPeriod = fastPeriod
	m.slowPeriod = slowPeriod
	m.signalPeriod = signalPeriod

	return nil
}

// WarmUp implements Indicator. It is the warm-up of the histogram.
func (m *MACD) WarmUp() int {
	return m.slowPeriod + m.signalPeriod - 1
}

// Compute implements Indicator.
func (m *MACD) Compute(bars []types.Bar) Output {
	lines := ComputeMACD(types.Closes(bars), m.fastPeriod, m.slowPeriod, m.signalPeriod)

	return Output{
		"dif":       lines.DIF,
		"dea":       lines.DEA,
		"histogram": lines.Histogram,
	}
}
