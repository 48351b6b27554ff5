package indicator

import (
	"time"

	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/moznion/go-optional"
)

var baseTime = time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)

// barsFromCloses builds bars whose open is the previous close and whose
// range extends one percent beyond the body.
func barsFromCloses(closes ...float64) []types.Bar {
	bars := make([]types.Bar, len(closes))
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}

		bars[i] = types.Bar{
			Time:   baseTime.AddDate(0, 0, i),
			Open:   open,
			High:   max(open, c) * 1.01,
			Low:    min(open, c) * 0.99,
			Close:  c,
			Volume: 1000,
		}
	}

	return bars
}

// ramp returns n closes starting at start and moving step per bar.
func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}

	return out
}

// wave returns n closes oscillating around base.
func wave(n int, base, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base + amplitude*float64((i*7)%11-5)/5
	}

	return out
}

func seriesOf(values ...float64) Series {
	s := make(Series, len(values))
	for i, v := range values {
		s[i] = optional.Some(v)
	}

	return s
}
