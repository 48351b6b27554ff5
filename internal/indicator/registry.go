package indicator

import (
	"slices"
	"sync"

	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
)

// IndicatorRegistry manages all available indicators.
type IndicatorRegistry interface {
	RegisterIndicator(indicator Indicator) error
	GetIndicator(name types.IndicatorType) (Indicator, error)
	ListIndicators() []types.IndicatorType
	RemoveIndicator(name types.IndicatorType) error
}

// IndicatorRegistryV1 manages all available indicators.
type IndicatorRegistryV1 struct {
	indicators map[types.IndicatorType]Indicator
	mu         sync.RWMutex
}

// NewIndicatorRegistry creates a new, empty indicator registry.
func NewIndicatorRegistry() IndicatorRegistry {
	return &IndicatorRegistryV1{
		indicators: make(map[types.IndicatorType]Indicator),
		mu:         sync.RWMutex{},
	}
}

// NewDefaultRegistry returns a registry holding every built-in indicator
// with its default periods.
func NewDefaultRegistry() IndicatorRegistry {
	registry := NewIndicatorRegistry()
	for _, indicator := range []Indicator{
		NewMA(), NewEMA(), NewMACD(), NewKDJ(), NewBollingerBands(), NewRSI(), NewVolume(), NewATR(),
	} {
		// names are unique, so registration cannot fail
		_ = registry.RegisterIndicator(indicator)
	}

	return registry
}

// NewRegistryFromParams returns the built-in indicators configured from
// params. Single-period indicators take the longest MA period, the fast MACD
// period for EMA and the score RSI period.
func NewRegistryFromParams(params Params) (IndicatorRegistry, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	configs := []struct {
		indicator Indicator
		params    []any
	}{
		{NewMA(), []any{slices.Max(params.MAPeriods)}},
		{NewEMA(), []any{params.MACDFast}},
		{NewMACD(), []any{params.MACDFast, params.MACDSlow, params.MACDSignal}},
		{NewKDJ(), []any{params.KDJPeriod, params.KDJM1, params.KDJM2}},
		{NewBollingerBands(), []any{params.BollPeriod, params.BollK}},
		{NewRSI(), []any{params.ScoreRSIPeriod}},
		{NewVolume(), []any{params.VolumePeriod}},
		{NewATR(), []any{params.ATRPeriod}},
	}

	registry := NewIndicatorRegistry()
	for _, c := range configs {
		if err := c.indicator.Config(c.params...); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "configure %s", c.indicator.Name())
		}

		if err := registry.RegisterIndicator(c.indicator); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// RegisterIndicator adds an indicator to the registry.
func (r *IndicatorRegistryV1) RegisterIndicator(indicator Indicator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := indicator.Name()
	if _, exists := r.indicators[name]; exists {
		return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "RegisterIndicator: indicator with name %s already registered", name)
	}

	r.indicators[name] = indicator

	return nil
}

// GetIndicator retrieves an indicator by name.
func (r *IndicatorRegistryV1) GetIndicator(name types.IndicatorType) (Indicator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indicator, exists := r.indicators[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "GetIndicator: indicator with name %s not found", name)
	}

	return indicator, nil
}

// ListIndicators returns the registered indicator names in sorted order.
func (r *IndicatorRegistryV1) ListIndicators() []types.IndicatorType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.IndicatorType, 0, len(r.indicators))
	for name := range r.indicators {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// RemoveIndicator removes an indicator from the registry.
func (r *IndicatorRegistryV1) RemoveIndicator(name types.IndicatorType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.indicators[name]; !exists {
		return errors.Newf(errors.ErrCodeIndicatorNotFound, "RemoveIndicator: indicator with name %s not found", name)
	}

	delete(r.indicators, name)

	return nil
}

// ComputeAll runs every registered indicator over bars, keyed by indicator.
func ComputeAll(registry IndicatorRegistry, bars []types.Bar) (map[types.IndicatorType]Output, error) {
	out := make(map[types.IndicatorType]Output)

	for _, name := range registry.ListIndicators() {
		indicator, err := registry.GetIndicator(name)
		if err != nil {
			return nil, err
		}

		out[name] = indicator.Compute(bars)
	}

	return out, nil
}

// Pending lists the registered indicators whose warm-up exceeds n bars.
func Pending(registry IndicatorRegistry, n int) []types.IndicatorType {
	var pending []types.IndicatorType

	for _, name := range registry.ListIndicators() {
		if indicator, err := registry.GetIndicator(name); err == nil && indicator.WarmUp() > n {
			pending = append(pending, name)
		}
	}

	return pending
}
