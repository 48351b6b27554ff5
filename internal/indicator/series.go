package indicator

import (
	"math"

	"github.com/moznion/go-optional"
)

// Series is an indicator output aligned 1:1 with its input bars. Indices
// inside the warm-up window, or where the value is mathematically undefined,
// hold None.
type Series []optional.Option[float64]

func newSeries(n int) Series {
	return make(Series, n)
}

// Len returns the number of positions, defined or not.
func (s Series) Len() int {
	return len(s)
}

// At returns the value at i, or None when i is out of range.
func (s Series) At(i int) optional.Option[float64] {
	if i < 0 || i >= len(s) {
		return optional.None[float64]()
	}

	return s[i]
}

// Last returns the value at the final index.
func (s Series) Last() optional.Option[float64] {
	return s.At(len(s) - 1)
}

// Defined reports whether the value at i is defined.
func (s Series) Defined(i int) bool {
	return s.At(i).IsSome()
}

// FirstDefined returns the index of the first defined value, or -1.
func (s Series) FirstDefined() int {
	for i, v := range s {
		if v.IsSome() {
			return i
		}
	}

	return -1
}

// Values returns the series as floats with NaN for undefined positions.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = v.TakeOr(math.NaN())
	}

	return out
}

// fromValues wraps raw floats; NaN and Inf become undefined.
func fromValues(values []float64) Series {
	s := newSeries(len(values))
	for i, v := range values {
		s[i] = value(v)
	}

	return s
}

type optionalFloat = optional.Option[float64]

func none() optionalFloat {
	return optional.None[float64]()
}

func value(v float64) optionalFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return optional.None[float64]()
	}

	return optional.Some(v)
}

// Get returns the value at i, reporting whether it was defined.
func (s Series) Get(i int) (float64, bool) {
	v := s.At(i)
	if v.IsNone() {
		return 0, false
	}

	return v.Unwrap(), true
}

// combine applies fn where both inputs are defined.
func combine(a, b Series, fn func(x, y float64) float64) Series {
	out := newSeries(len(a))
	for i := range a {
		x, okA := a.Get(i)
		y, okB := b.Get(i)

		if okA && okB {
			out[i] = value(fn(x, y))
		}
	}

	return out
}
