package planner

import (
	"slices"

	"github.com/MGmoket/stock-assistant/internal/indicator"
	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/moznion/go-optional"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Levels are suggested entry, stop and target prices.
type Levels struct {
	Entry  float64 `yaml:"entry" json:"entry"`
	Stop   float64 `yaml:"stop" json:"stop"`
	Target float64 `yaml:"target" json:"target"`
}

// SuggestLevels derives levels from the latest close. The stop is the
// highest of the lower Bollinger band, the recent low and the maximum stop
// distance; the target is the lower of the upper band and the marked-up
// recent high, but at least the minimum target distance.
func (p *Planner) SuggestLevels(bars []types.Bar, params indicator.Params) (Levels, error) {
	cfg := p.config.Levels
	if len(bars) == 0 {
		return Levels{}, errors.NewInsufficientDataError(1, 0, "", "no bars to derive levels from")
	}

	last := len(bars) - 1
	entry := bars[last].Close
	recent := bars[max(0, len(bars)-cfg.RecentBars):]
	boll := indicator.ComputeBollinger(types.Closes(bars), params.BollPeriod, params.BollK)

	floor := entry * (1 - cfg.MaxStopPct)
	stops := []float64{floor, lo.MinBy(recent, func(a, b types.Bar) bool { return a.Low < b.Low }).Low}
	if lower, ok := boll.Lower.Get(last); ok {
		stops = append(stops, lower)
	}

	stop := slices.Max(stops)
	if stop >= entry {
		stop = floor
	}

	target := lo.MaxBy(recent, func(a, b types.Bar) bool { return a.High > b.High }).High * (1 + cfg.HighMarkup)
	if upper, ok := boll.Upper.Get(last); ok {
		target = min(target, upper)
	}

	target = max(target, entry*(1+cfg.MinTargetPct))

	levels := Levels{Entry: p.round(entry), Stop: p.round(stop), Target: p.round(target)}

	// rounding can lift a stop just under entry onto it
	if levels.Stop >= levels.Entry {
		levels.Stop = p.round(floor)
	}

	if levels.Stop >= levels.Entry {
		return Levels{}, errors.Newf(errors.ErrCodeDegenerateStop,
			"stop %v rounds onto entry %v", levels.Stop, levels.Entry)
	}

	return levels, nil
}

// PlanFromBars suggests levels on the latest bar and sizes the plan.
func (p *Planner) PlanFromBars(symbol string, bars []types.Bar, params indicator.Params,
	capital, riskPct float64, score optional.Option[float64],
) (types.OrderPlan, error) {
	levels, err := p.SuggestLevels(bars, params)
	if err != nil {
		return types.OrderPlan{}, err
	}

	return p.Plan(Request{
		Symbol:  symbol,
		Entry:   levels.Entry,
		Stop:    levels.Stop,
		Target:  levels.Target,
		Capital: capital,
		RiskPct: riskPct,
		Score:   score,
	})
}

func (p *Planner) round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(p.config.PricePrecision).InexactFloat64()
}
