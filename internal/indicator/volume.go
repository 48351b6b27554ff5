package indicator

import (
	"fmt"

	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
)

// VolumeLines holds the rolling average volume and the surge ratio.
type VolumeLines struct {
	Average Series
	// Ratio is current volume over Average; undefined when the average is zero.
	Ratio Series
}

// ComputeVolume returns the period average of volume, current bar included,
// and the ratio of each bar's volume to it.
func ComputeVolume(bars []types.Bar, period int) VolumeLines {
	volumes := make([]float64, len(bars))
	for i, bar := range bars {
		volumes[i] = bar.Volume
	}

	average := SMA(volumes, period)
	ratio := newSeries(len(bars))

	for i := range bars {
		if avg, ok := average.Get(i); ok && avg > 0 {
			ratio[i] = value(volumes[i] / avg)
		}
	}

	return VolumeLines{Average: average, Ratio: ratio}
}

// Volume represents the volume surge indicator.
type Volume struct {
	period int
}

// NewVolume creates a new Volume indicator with default configuration.
func NewVolume() Indicator {
	return &Volume{
		period: 5,
	}
}

// Name returns the name of the indicator.
func (v *Volume) Name() types.IndicatorType {
	return types.IndicatorTypeVolume
}

// Config configures the Volume indicator. Expected parameters: period (int).
func (v *Volume) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, err := positiveInt(params[0], "period")
	if err != nil {
		return err
	}

	v.period = period

	return nil
}

// WarmUp implements Indicator.
func (v *Volume) WarmUp() int {
	return v.period
}

// Compute implements Indicator.
func (v *Volume) Compute(bars []types.Bar) Output {
	lines := ComputeVolume(bars, v.period)

	return Output{
		fmt.Sprintf("volume_avg_%d", v.period): lines.Average,
		"volume_ratio":                         lines.Ratio,
	}
}
