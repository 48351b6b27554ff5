package planner

import (
	"math"
	"testing"
	"time"

	"github.com/MGmoket/stock-assistant/internal/indicator"
	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type PlannerTestSuite struct {
	suite.Suite
	planner *Planner
}

func TestPlannerSuite(t *testing.T) {
	suite.Run(t, new(PlannerTestSuite))
}

func (suite *PlannerTestSuite) SetupTest() {
	planner, err := New(DefaultConfig())
	suite.Require().NoError(err)
	suite.planner = planner
}

func base() Request {
	return Request{Symbol: "600519", Entry: 1680, Stop: 1600, Target: 1840, Capital: 100000, RiskPct: 0.01}
}

// ============================================================================
// Sizing Tests
// ============================================================================

func (suite *PlannerTestSuite) TestSubLotRiskIsSkip() {
	plan, err := suite.planner.Plan(base())
	suite.Require().NoError(err)

	suite.Equal(1000.0, plan.RiskAmount)
	suite.Equal(int64(0), plan.Quantity)
	suite.Equal(types.RiskRatingSkip, plan.Rating)
	suite.Equal(0.0, plan.RealizedRisk)
	suite.Equal(2.0, plan.RMultiple)
	suite.NoError(plan.Validate())
}

func (suite *PlannerTestSuite) TestLargeCapital() {
	req := base()
	req.Capital = 3_000_000

	plan, err := suite.planner.Plan(req)
	suite.Require().NoError(err)

	// 30000 of risk over 80 per share is 375 shares, floored to 300
	suite.Equal(30000.0, plan.RiskAmount)
	suite.Equal(int64(300), plan.Quantity)
	suite.Equal(24000.0, plan.RealizedRisk)
	suite.InDelta(0.008, plan.RealizedRiskPct, 1e-12)
	suite.Equal(504000.0, plan.PositionValue)
	suite.False(plan.CapitalCapped)
	suite.Equal(2.0, plan.RMultiple)
	suite.Equal(types.RiskRatingNeutral, plan.Rating)
	suite.Zero(plan.Quantity % DefaultConfig().LotSize)
	suite.LessOrEqual(plan.PositionValue, req.Capital)
}

func (suite *PlannerTestSuite) TestCapitalCap() {
	// 5% risk on a tight stop wants 4700 shares but capital buys 900
	plan, err := suite.planner.Plan(Request{
		Symbol: "600000", Entry: 10, Stop: 9.9, Target: 10.5, Capital: 9500, RiskPct: 0.05,
	})
	suite.Require().NoError(err)

	suite.True(plan.CapitalCapped)
	suite.Equal(int64(900), plan.Quantity)
	suite.Equal(475.0, plan.RiskAmount)
	suite.InDelta(90.0, plan.RealizedRisk, 1e-9)
	suite.Less(plan.RealizedRisk, plan.RiskAmount)
	suite.LessOrEqual(plan.PositionValue, 9500.0)
}

func (suite *PlannerTestSuite) TestRatings() {
	tests := []struct {
		name     string
		target   float64
		score    optional.Option[float64]
		expected types.RiskRating
	}{
		{"low reward", 10.2, optional.None[float64](), types.RiskRatingLowReward},
		{"neutral", 10.8, optional.None[float64](), types.RiskRatingNeutral},
		{"favorable needs score", 11.0, optional.None[float64](), types.RiskRatingNeutral},
		{"favorable", 11.0, optional.Some(72.0), types.RiskRatingFavorable},
		{"weak score", 11.0, optional.Some(45.0), types.RiskRatingNeutral},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			plan, err := suite.planner.Plan(Request{
				Symbol: "600000", Entry: 10, Stop: 9.6, Target: tt.target,
				Capital: 100000, RiskPct: 0.02, Score: tt.score,
			})
			suite.Require().NoError(err)
			suite.Equal(tt.expected, plan.Rating)
		})
	}
}

func (suite *PlannerTestSuite) TestInvalidInputs() {
	tests := []struct {
		name string
		edit func(*Request)
		code errors.ErrorCode
	}{
		{"zero entry", func(r *Request) { r.Entry = 0 }, errors.ErrCodeInvalidParameter},
		{"negative capital", func(r *Request) { r.Capital = -1 }, errors.ErrCodeInvalidParameter},
		{"risk pct one", func(r *Request) { r.RiskPct = 1 }, errors.ErrCodeInvalidParameter},
		{"risk pct zero", func(r *Request) { r.RiskPct = 0 }, errors.ErrCodeInvalidParameter},
		{"stop above entry", func(r *Request) { r.Stop = 1700 }, errors.ErrCodeInvalidParameter},
		{"nan target", func(r *Request) { r.Target = math.NaN() }, errors.ErrCodeInvalidParameter},
		{"one tick stop", func(r *Request) { r.Stop = 1679.99 }, errors.ErrCodeDegenerateStop},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			req := base()
			tt.edit(&req)

			_, err := suite.planner.Plan(req)
			suite.Error(err)
			suite.Equal(tt.code, errors.GetCode(err))
		})
	}
}

func (suite *PlannerTestSuite) TestDeterministic() {
	req := base()
	req.Capital = 987654.32
	req.Score = optional.Some(81.0)

	first, err := suite.planner.Plan(req)
	suite.Require().NoError(err)

	for range 5 {
		again, err := suite.planner.Plan(req)
		suite.Require().NoError(err)
		suite.Equal(first, again)
	}
}

func (suite *PlannerTestSuite) TestConfigValidation() {
	cfg := DefaultConfig()
	cfg.LotSize = 0
	_, err := New(cfg)
	suite.Equal(errors.ErrCodeInvalidConfiguration, errors.GetCode(err))

	cfg = DefaultConfig()
	cfg.Rating.FavorableAtLeast = 1
	suite.Error(cfg.Validate())

	cfg = DefaultConfig()
	cfg.LotSize = 1
	planner, err := New(cfg)
	suite.Require().NoError(err)

	plan, err := planner.Plan(base())
	suite.Require().NoError(err)
	suite.Equal(int64(12), plan.Quantity)
}

// ============================================================================
// Batch Tests
// ============================================================================

func (suite *PlannerTestSuite) TestPlanBatch() {
	holdings := types.Holdings{{Symbol: "600519", Quantity: 100, AvgCost: 1700}}
	req := func(symbol string, stop float64) Request {
		return Request{Symbol: symbol, Entry: 10, Stop: stop, Target: 11, Capital: 50000, RiskPct: 0.02}
	}

	plans, failures := suite.planner.PlanBatch([]Request{
		req("sh600519", 9.5),
		req("600000", 9.5),
		req("600000", 9.5),
		req("000001", 10),
		req("bogus", 9.5),
		req("600036", 9.6),
		req("601318", 9.6),
	}, holdings)

	suite.Require().Len(plans, 2)
	suite.Equal("600000", plans[0].Symbol)
	suite.Equal("600036", plans[1].Symbol)

	codes := make(map[string]errors.ErrorCode)
	for _, f := range failures {
		codes[f.Symbol] = f.Code()
	}

	suite.Equal(errors.ErrCodeDuplicatePosition, codes["600519"])
	suite.Equal(errors.ErrCodeDuplicatePosition, codes["600000"])
	suite.Equal(errors.ErrCodeInvalidParameter, codes["000001"])
	suite.Equal(errors.ErrCodeInvalidSymbol, codes["bogus"])
	suite.Equal(errors.ErrCodeHoldingsFull, codes["601318"])
}

// ============================================================================
// Level Tests
// ============================================================================

func (suite *PlannerTestSuite) TestSuggestLevels() {
	start := time.Date(2024, 5, 6, 15, 0, 0, 0, time.UTC)
	bars := make([]types.Bar, 30)

	for i := range bars {
		c := 20 + 0.5*math.Sin(float64(i))
		bars[i] = types.Bar{
			Time: start.AddDate(0, 0, i), Open: c, High: c + 0.3, Low: c - 0.3, Close: c, Volume: 1000,
		}
	}

	levels, err := suite.planner.SuggestLevels(bars, indicator.DefaultParams())
	suite.Require().NoError(err)

	entry := levels.Entry
	suite.Less(levels.Stop, entry)
	suite.GreaterOrEqual(levels.Stop, entry*0.95-0.01)
	suite.GreaterOrEqual(levels.Target, entry*1.03-0.01)

	plan, err := suite.planner.PlanFromBars("600000", bars, indicator.DefaultParams(), 200000, 0.01, optional.None[float64]())
	suite.Require().NoError(err)
	suite.Equal(levels.Stop, plan.Stop)

	_, err = suite.planner.SuggestLevels(nil, indicator.DefaultParams())
	suite.Equal(errors.ErrCodeInsufficientData, errors.GetCode(err))
}

func flatBars(close, low float64) []types.Bar {
	start := time.Date(2024, 5, 6, 15, 0, 0, 0, time.UTC)
	bars := make([]types.Bar, 3)

	for i := range bars {
		bars[i] = types.Bar{
			Time: start.AddDate(0, 0, i), Open: close, High: close * 1.01, Low: low, Close: close, Volume: 1000,
		}
	}

	return bars
}

func (suite *PlannerTestSuite) TestRoundedStopStaysBelowEntry() {
	// a recent low of 9.996 rounds onto the 10.00 entry
	levels, err := suite.planner.SuggestLevels(flatBars(10, 9.996), indicator.DefaultParams())
	suite.Require().NoError(err)
	suite.Equal(10.0, levels.Entry)
	suite.Equal(9.5, levels.Stop)

	plan, err := suite.planner.PlanFromBars("600000", flatBars(10, 9.996), indicator.DefaultParams(),
		200000, 0.01, optional.None[float64]())
	suite.Require().NoError(err)
	suite.Equal(9.5, plan.Stop)
	suite.NoError(plan.Validate())

	// at five cents even the widest stop rounds onto the entry
	_, err = suite.planner.SuggestLevels(flatBars(0.05, 0.0498), indicator.DefaultParams())
	suite.Equal(errors.ErrCodeDegenerateStop, errors.GetCode(err))
}
