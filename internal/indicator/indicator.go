package indicator

import (
	"github.com/MGmoket/stock-assistant/internal/types"
)

// Output maps line names (e.g. "dif", "upper") to their series.
type Output map[string]Series

// At returns the defined line values at index i.
func (o Output) At(i int) map[string]float64 {
	values := make(map[string]float64, len(o))
	for line, series := range o {
		if v, ok := series.Get(i); ok {
			values[line] = v
		}
	}

	return values
}

// Indicator is a configurable transform from bars to one or more series.
// Implementations are pure; Compute never fails on short input and instead
// leaves positions inside the warm-up window undefined.
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Config overrides the default periods
	Config(params ...any) error
	// WarmUp returns the number of bars needed for the first defined value
	WarmUp() int
	// Compute returns every line of the indicator, each aligned with bars
	Compute(bars []types.Bar) Output
}
