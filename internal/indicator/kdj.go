package indicator

import (
	"math"

	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
)

// KDJLines holds the stochastic lines.
type KDJLines struct {
	K Series
	D Series
	J Series
}

// ComputeKDJ returns the KDJ lines. RSV is the close position inside the
// n-bar high/low range, K smooths RSV with alpha 1/m1, D smooths K with
// alpha 1/m2, and J = 3K - 2D. A flat n-bar range leaves RSV undefined for
// that bar without resetting the smoothing state.
func ComputeKDJ(bars []types.Bar, n, m1, m2 int) KDJLines {
	rsv := newSeries(len(bars))

	if n > 0 && m1 > 0 && m2 > 0 {
		for i := n - 1; i < len(bars); i++ {
			highest := math.Inf(-1)
			lowest := math.Inf(1)

			for _, bar := range bars[i-n+1 : i+1] {
				highest = math.Max(highest, bar.High)
				lowest = math.Min(lowest, bar.Low)
			}

			if width := highest - lowest; width > 0 {
				rsv[i] = value((bars[i].Close - lowest) / width * 100)
			}
		}
	}

	if m1 <= 0 || m2 <= 0 {
		return KDJLines{K: rsv, D: newSeries(len(bars)), J: newSeries(len(bars))}
	}

	k := smooth(rsv, 1/float64(m1))
	d := smooth(k, 1/float64(m2))

	return KDJLines{
		K: k,
		D: d,
		J: combine(k, d, func(k, d float64) float64 { return 3*k - 2*d }),
	}
}

// KDJ represents the stochastic oscillator with K, D and J lines.
type KDJ struct {
	period int
	m1     int
	m2     int
}

// NewKDJ creates a new KDJ indicator with default configuration (9, 3, 3).
func NewKDJ() Indicator {
	return &KDJ{
		period: 9,
		m1:     3,
		m2:     3,
	}
}

// Name returns the name of the indicator.
func (k *KDJ) Name() types.IndicatorType {
	return types.IndicatorTypeKDJ
}

// Config configures the KDJ indicator. Expected parameters: period (int), m1 (int), m2 (int).
func (k *KDJ) Config(params ...any) error {
	if len(params) != 3 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 3 parameters: period (int), m1 (int), m2 (int)")
	}

	period, err := positiveInt(params[0], "period")
	if err != nil {
		return err
	}

	m1, err := positiveInt(params[1], "m1")
	if err != nil {
		return err
	}

	m2, err := positiveInt(params[2], "m2")
	if err != nil {
		return err
	}

	k.period = period
	k.m1 = m1
	k.m2 = m2

	return nil
}

// WarmUp implements Indicator.
func (k *KDJ) WarmUp() int {
	return k.period
}

// Compute implements Indicator.
func (k *KDJ) Compute(bars []types.Bar) Output {
	lines := ComputeKDJ(bars, k.period, k.m1, k.m2)

	return Output{
		"k": lines.K,
		"d": lines.D,
		"j": lines.J,
	}
}
