package types

import (
	"math"
	"time"

	"github.com/MGmoket/stock-assistant/pkg/errors"
)

// Bar is one OHLCV period of an instrument. Bar sequences are ordered by
// strictly increasing Time and are never mutated after loading.
type Bar struct {
	Time   time.Time `csv:"time" json:"time" yaml:"time"`
	Open   float64   `csv:"open" json:"open" yaml:"open"`
	High   float64   `csv:"high" json:"high" yaml:"high"`
	Low    float64   `csv:"low" json:"low" yaml:"low"`
	Close  float64   `csv:"close" json:"close" yaml:"close"`
	Volume float64   `csv:"volume" json:"volume" yaml:"volume"`
}

// Body returns the absolute open-close distance.
func (b Bar) Body() float64 {
	return math.Abs(b.Close - b.Open)
}

// Range returns high minus low.
func (b Bar) Range() float64 {
	return b.High - b.Low
}

// UpperShadow returns the distance from the top of the body to the high.
func (b Bar) UpperShadow() float64 {
	return b.High - math.Max(b.Open, b.Close)
}

// LowerShadow returns the distance from the bottom of the body to the low.
func (b Bar) LowerShadow() float64 {
	return math.Min(b.Open, b.Close) - b.Low
}

// IsBullish reports close above open.
func (b Bar) IsBullish() bool {
	return b.Close > b.Open
}

// IsBearish reports close below open.
func (b Bar) IsBearish() bool {
	return b.Close < b.Open
}

// ValidateBars checks ordering and OHLC sanity. It rejects duplicate or
// decreasing timestamps, non-positive prices, a high below the body, a low
// above the body and negative volume.
func ValidateBars(bars []Bar) error {
	for i, bar := range bars {
		if bar.Open <= 0 || bar.High <= 0 || bar.Low <= 0 || bar.Close <= 0 {
			return errors.Newf(errors.ErrCodeInvalidBars, "bar %d has a non-positive price", i)
		}

		if bar.High < math.Max(bar.Open, bar.Close) || bar.Low > math.Min(bar.Open, bar.Close) {
			return errors.Newf(errors.ErrCodeInvalidBars, "bar %d has high/low outside its body", i)
		}

		if bar.Volume < 0 {
			return errors.Newf(errors.ErrCodeInvalidBars, "bar %d has negative volume", i)
		}

		if i > 0 && !bar.Time.After(bars[i-1].Time) {
			return errors.Newf(errors.ErrCodeInvalidBars, "bar %d timestamp %s is not after %s",
				i, bar.Time.Format(time.RFC3339), bars[i-1].Time.Format(time.RFC3339))
		}
	}

	return nil
}

// Closes extracts the close column.
func Closes(bars []Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}

	return closes
}
