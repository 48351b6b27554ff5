package planner

import (
	"math"

	"github.com/MGmoket/stock-assistant/internal/symbol"
	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// Request is one long entry to size.
type Request struct {
	Symbol  string  `yaml:"symbol" json:"symbol"`
	Entry   float64 `yaml:"entry" json:"entry"`
	Stop    float64 `yaml:"stop" json:"stop"`
	Target  float64 `yaml:"target" json:"target"`
	Capital float64 `yaml:"capital" json:"capital"`
	RiskPct float64 `yaml:"risk_pct" json:"risk_pct"`
	// Score is the composite technical score, if known.
	Score optional.Option[float64] `yaml:"-" json:"-"`
}

// Planner sizes positions against a risk budget. It is stateless; the same
// request always yields the same plan.
type Planner struct {
	config Config
}

func New(config Config) (*Planner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Planner{config: config}, nil
}

// NewDefault returns a planner with DefaultConfig.
func NewDefault() *Planner {
	return &Planner{config: DefaultConfig()}
}

func (p *Planner) Config() Config {
	return p.config
}

// Plan sizes one long position. The quantity is floored to whole lots and
// capped by capital; a plan that cannot afford one lot is returned with
// quantity zero and rating skip.
func (p *Planner) Plan(req Request) (types.OrderPlan, error) {
	if err := checkRequest(req); err != nil {
		return types.OrderPlan{}, err
	}

	entry := decimal.NewFromFloat(req.Entry)
	stop := decimal.NewFromFloat(req.Stop)
	target := decimal.NewFromFloat(req.Target)
	capital := decimal.NewFromFloat(req.Capital)
	lot := decimal.NewFromInt(p.config.LotSize)

	perShare := entry.Sub(stop)
	if perShare.LessThanOrEqual(decimal.NewFromFloat(p.config.MinTick)) {
		return types.OrderPlan{}, errors.Newf(errors.ErrCodeDegenerateStop,
			"per-share risk %s is not above the minimum tick %v", perShare, p.config.MinTick)
	}

	riskAmount := capital.Mul(decimal.NewFromFloat(req.RiskPct))
	quantity := floorLots(riskAmount.Div(perShare), lot)

	affordable := floorLots(capital.Div(entry), lot)
	capped := quantity.GreaterThan(affordable)
	if capped {
		quantity = affordable
	}

	realizedRisk := quantity.Mul(perShare)
	rMultiple := target.Sub(entry).Div(perShare)

	plan := types.OrderPlan{
		Symbol:          req.Symbol,
		Entry:           req.Entry,
		Stop:            req.Stop,
		Target:          req.Target,
		Quantity:        quantity.IntPart(),
		RiskAmount:      riskAmount.InexactFloat64(),
		RealizedRisk:    realizedRisk.InexactFloat64(),
		RealizedRiskPct: realizedRisk.Div(capital).InexactFloat64(),
		CapitalCapped:   capped,
		PositionValue:   quantity.Mul(entry).InexactFloat64(),
		RMultiple:       rMultiple.InexactFloat64(),
	}
	plan.Rating = p.rate(plan, req.Score)
	if req.Score.IsSome() {
		score := req.Score.Unwrap()
		plan.Score = &score
	}

	return plan, nil
}

func (p *Planner) rate(plan types.OrderPlan, score optional.Option[float64]) types.RiskRating {
	rating := p.config.Rating

	switch {
	case plan.Quantity == 0:
		return types.RiskRatingSkip
	case plan.RMultiple < rating.LowRewardBelow:
		return types.RiskRatingLowReward
	case plan.RMultiple >= rating.FavorableAtLeast && score.IsSome() && score.Unwrap() >= rating.FavorableScore:
		return types.RiskRatingFavorable
	default:
		return types.RiskRatingNeutral
	}
}

// PlanBatch plans every request, skipping symbols already held or repeated
// in the batch and stopping new entries once MaxHoldings is reached.
// Failures are per symbol; planning continues for the rest.
func (p *Planner) PlanBatch(reqs []Request, holdings types.Holdings) ([]types.OrderPlan, []types.Failure) {
	var (
		plans    []types.OrderPlan
		failures []types.Failure
		seen     = make(map[string]bool, len(reqs))
		open     = len(holdings)
	)

	for _, req := range reqs {
		code, err := symbol.Normalize(req.Symbol)
		if err != nil {
			failures = append(failures, types.NewFailure(req.Symbol, err))

			continue
		}

		if holdings.Has(code) || seen[code] {
			failures = append(failures, types.NewFailure(code,
				errors.Newf(errors.ErrCodeDuplicatePosition, "%s is already held or planned", code)))

			continue
		}

		seen[code] = true

		if p.config.MaxHoldings > 0 && open >= p.config.MaxHoldings {
			failures = append(failures, types.NewFailure(code,
				errors.Newf(errors.ErrCodeHoldingsFull, "holding limit %d reached", p.config.MaxHoldings)))

			continue
		}

		req.Symbol = code

		plan, err := p.Plan(req)
		if err != nil {
			failures = append(failures, types.NewFailure(code, err))

			continue
		}

		if plan.Quantity > 0 {
			open++
		}

		plans = append(plans, plan)
	}

	return plans, failures
}

func checkRequest(req Request) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"entry", req.Entry}, {"stop", req.Stop}, {"target", req.Target},
		{"capital", req.Capital}, {"risk_pct", req.RiskPct},
	}

	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return errors.Newf(errors.ErrCodeInvalidParameter, "%s must be a finite number", f.name)
		}
	}

	switch {
	case req.Entry <= 0:
		return errors.Newf(errors.ErrCodeInvalidParameter, "entry must be positive, got %v", req.Entry)
	case req.Capital <= 0:
		return errors.Newf(errors.ErrCodeInvalidParameter, "capital must be positive, got %v", req.Capital)
	case req.RiskPct <= 0 || req.RiskPct >= 1:
		return errors.Newf(errors.ErrCodeInvalidParameter, "risk_pct must be in (0, 1), got %v", req.RiskPct)
	case req.Stop <= 0:
		return errors.Newf(errors.ErrCodeInvalidParameter, "stop must be positive, got %v", req.Stop)
	case req.Stop >= req.Entry:
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"stop %v must be below entry %v for a long position", req.Stop, req.Entry)
	case req.Target <= 0:
		return errors.Newf(errors.ErrCodeInvalidParameter, "target must be positive, got %v", req.Target)
	}

	return nil
}

func floorLots(shares, lot decimal.Decimal) decimal.Decimal {
	return shares.Div(lot).Floor().Mul(lot)
}
