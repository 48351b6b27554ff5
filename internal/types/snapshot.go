package types

import (
	"math"

	"github.com/moznion/go-optional"
)

// Well-known snapshot metric names.
const (
	MetricPrice          = "price"
	MetricCompositeScore = "composite_score"
	MetricNetInflow      = "net_inflow"
	MetricMainInflow     = "main_inflow"
)

// CapitalFlow holds the money-flow figures of the latest session.
type CapitalFlow struct {
	NetInflow  *float64 `yaml:"net_inflow,omitempty" json:"net_inflow,omitempty"`
	MainInflow *float64 `yaml:"main_inflow,omitempty" json:"main_inflow,omitempty"`
}

// Snapshot is the point-in-time view of one instrument used by a screening
// pass. Absent keys and NaN values are undefined.
type Snapshot struct {
	Symbol     string             `yaml:"symbol" json:"symbol" validate:"required"`
	Name       string             `yaml:"name,omitempty" json:"name,omitempty"`
	Price      float64            `yaml:"price" json:"price"`
	Indicators map[string]float64 `yaml:"indicators,omitempty" json:"indicators,omitempty"`
	// Previous holds indicator values of the bar before the latest one.
	Previous     map[string]float64 `yaml:"previous,omitempty" json:"previous,omitempty"`
	Fundamentals map[string]float64 `yaml:"fundamentals,omitempty" json:"fundamentals,omitempty"`
	CapitalFlow  CapitalFlow        `yaml:"capital_flow,omitempty" json:"capital_flow,omitempty"`
	// Patterns are the candlestick patterns detected on the latest bar.
	Patterns []PatternMatch `yaml:"patterns,omitempty" json:"patterns,omitempty"`
}

// Metric resolves a metric by name across price, indicators, fundamentals
// and capital flow.
func (s Snapshot) Metric(name string) optional.Option[float64] {
	switch name {
	case MetricPrice:
		return defined(s.Price, s.Price > 0)
	case MetricNetInflow:
		return fromPtr(s.CapitalFlow.NetInflow)
	case MetricMainInflow:
		return fromPtr(s.CapitalFlow.MainInflow)
	}

	if v, ok := s.Indicators[name]; ok {
		return defined(v, true)
	}

	if v, ok := s.Fundamentals[name]; ok {
		return defined(v, true)
	}

	return optional.None[float64]()
}

// PreviousMetric resolves an indicator value of the prior bar.
func (s Snapshot) PreviousMetric(name string) optional.Option[float64] {
	if v, ok := s.Previous[name]; ok {
		return defined(v, true)
	}

	return optional.None[float64]()
}

// Score returns the composite score if present.
func (s Snapshot) Score() optional.Option[float64] {
	return s.Metric(MetricCompositeScore)
}

// HasPattern reports whether a pattern with the given bias was seen on the
// latest bar. An empty bias matches any pattern.
func (s Snapshot) HasPattern(bias Bias) bool {
	for _, match := range s.Patterns {
		if bias == "" || match.Bias == bias {
			return true
		}
	}

	return false
}

func defined(v float64, ok bool) optional.Option[float64] {
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return optional.None[float64]()
	}

	return optional.Some(v)
}

func fromPtr(v *float64) optional.Option[float64] {
	if v == nil {
		return optional.None[float64]()
	}

	return defined(*v, true)
}
