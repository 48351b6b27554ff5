package screener

import (
	"strings"
	"testing"

	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type ScreenerTestSuite struct {
	suite.Suite
	screener *Screener
}

func TestScreenerSuite(t *testing.T) {
	suite.Run(t, new(ScreenerTestSuite))
}

func (suite *ScreenerTestSuite) SetupTest() {
	suite.screener = New(nil)
}

func snap(symbol string, score float64, indicators map[string]float64) types.Snapshot {
	metrics := map[string]float64{types.MetricCompositeScore: score}
	for k, v := range indicators {
		metrics[k] = v
	}

	return types.Snapshot{Symbol: symbol, Price: 10, Indicators: metrics}
}

// ============================================================================
// Catalog Tests
// ============================================================================

func (suite *ScreenerTestSuite) TestDefaultCatalog() {
	catalog := DefaultCatalog()
	suite.Equal([]string{
		"short_term", "oversold_bounce", "volume_breakout",
		"leader_first_board", "trend_pullback", "ice_reversal",
	}, catalog.Names())

	for _, preset := range catalog.Presets {
		_, err := preset.Compile()
		suite.NoError(err, preset.Name)
	}

	_, err := catalog.Get("missing")
	suite.Equal(errors.ErrCodePresetNotFound, errors.GetCode(err))
}

func (suite *ScreenerTestSuite) TestLoadCatalogRejectsBadData() {
	_, err := LoadCatalog(strings.NewReader(`
presets:
  - name: a
    predicates:
      - {kind: threshold, metric: price, op: gt, value: 1}
  - name: a
    predicates:
      - {kind: threshold, metric: price, op: gt, value: 1}
`))
	suite.Equal(errors.ErrCodeInvalidConfiguration, errors.GetCode(err))

	_, err = LoadCatalog(strings.NewReader(`
presets:
  - name: b
    predicates:
      - {kind: threshold, op: gt, value: 1}
`))
	suite.Error(err)

	catalog, err := LoadCatalog(strings.NewReader(`
presets:
  - name: cheap
    label: Cheap
    predicates:
      - {kind: threshold, metric: pe, op: lt, value: 10}
`))
	suite.Require().NoError(err)
	suite.Equal([]string{"cheap"}, catalog.Names())
}

func (suite *ScreenerTestSuite) TestDescriptorValidation() {
	tests := []struct {
		name  string
		d     Descriptor
		valid bool
	}{
		{"threshold", Descriptor{Kind: KindThreshold, Metric: "pe", Op: OpLT, Value: 10}, true},
		{"threshold without op", Descriptor{Kind: KindThreshold, Metric: "pe"}, false},
		{"compare without other", Descriptor{Kind: KindCompare, Metric: "price", Op: OpGT}, false},
		{"cross without direction", Descriptor{Kind: KindCross, Metric: "macd_hist"}, false},
		{"cross", Descriptor{Kind: KindCross, Metric: "macd_hist", Direction: DirectionUp}, true},
		{"sentiment", Descriptor{Kind: KindSentiment, Op: OpLT, Value: 25}, true},
		{"pattern", Descriptor{Kind: KindPattern, Bias: types.BiasBullish}, true},
		{"bad bias", Descriptor{Kind: KindPattern, Bias: "sideways"}, false},
		{"bad op", Descriptor{Kind: KindThreshold, Metric: "pe", Op: "around"}, false},
		{"unknown kind", Descriptor{Kind: "magic"}, false},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := Compile(tt.d)
			if tt.valid {
				suite.NoError(err)
			} else {
				suite.Equal(errors.ErrCodeInvalidPredicate, errors.GetCode(err))
			}
		})
	}
}

// ============================================================================
// Predicate Tests
// ============================================================================

func (suite *ScreenerTestSuite) TestPredicatesFailClosed() {
	below, err := Compile(Descriptor{Kind: KindThreshold, Metric: "pe", Op: OpLT, Value: 30})
	suite.Require().NoError(err)
	above, err := Compile(Descriptor{Kind: KindThreshold, Metric: "pe", Op: OpGT, Value: 30})
	suite.Require().NoError(err)

	empty := EvalContext{Snapshot: types.Snapshot{Symbol: "600000", Price: 10}}
	suite.False(below.Test(empty))
	suite.False(above.Test(empty))

	withPE := EvalContext{Snapshot: types.Snapshot{Symbol: "600000", Price: 10, Fundamentals: map[string]float64{"pe": 12}}}
	suite.True(below.Test(withPE))
	suite.False(above.Test(withPE))
	suite.Equal("pe < 30", below.Name())
}

func (suite *ScreenerTestSuite) TestCompareAndCross() {
	ma, err := Compile(Descriptor{Kind: KindCompare, Metric: "price", Op: OpGT, Other: "ma_20"})
	suite.Require().NoError(err)

	ctx := EvalContext{Snapshot: snap("600000", 60, map[string]float64{"ma_20": 9.5})}
	suite.True(ma.Test(ctx))

	ctx.Snapshot.Indicators["ma_20"] = 10.5
	suite.False(ma.Test(ctx))

	golden, err := Compile(Descriptor{Kind: KindCross, Metric: "macd_hist", Direction: DirectionUp})
	suite.Require().NoError(err)

	cross := snap("600000", 60, map[string]float64{"macd_hist": 0.2})
	suite.False(golden.Test(EvalContext{Snapshot: cross}), "no previous bar")

	cross.Previous = map[string]float64{"macd_hist": -0.1}
	suite.True(golden.Test(EvalContext{Snapshot: cross}))

	cross.Previous["macd_hist"] = 0.1
	suite.False(golden.Test(EvalContext{Snapshot: cross}))

	kd, err := Compile(Descriptor{Kind: KindCross, Metric: "kdj_k", Other: "kdj_d", Direction: DirectionDown})
	suite.Require().NoError(err)

	dead := snap("600000", 60, map[string]float64{"kdj_k": 70, "kdj_d": 75})
	dead.Previous = map[string]float64{"kdj_k": 80, "kdj_d": 78}
	suite.True(kd.Test(EvalContext{Snapshot: dead}))
}

func (suite *ScreenerTestSuite) TestPatternPredicate() {
	p, err := Compile(Descriptor{Kind: KindPattern, Bias: types.BiasBullish})
	suite.Require().NoError(err)

	s := snap("600000", 60, nil)
	suite.False(p.Test(EvalContext{Snapshot: s}))

	s.Patterns = []types.PatternMatch{{Name: "hammer", Bias: types.BiasBullish, Score: 10}}
	suite.True(p.Test(EvalContext{Snapshot: s}))
}

// ============================================================================
// Evaluate Tests
// ============================================================================

func (suite *ScreenerTestSuite) TestRankingAndTies() {
	predicates, err := Custom(CustomOptions{})
	suite.Require().NoError(err)

	result := suite.screener.Evaluate([]types.Snapshot{
		snap("600003", 70, nil),
		snap("600002", 80, nil),
		snap("600001", 70, nil),
		snap("sz000001", 90, nil),
	}, predicates, Options{})

	suite.Equal([]string{"000001", "600002", "600001", "600003"}, result.Symbols())
	suite.Empty(result.Failures)
}

func (suite *ScreenerTestSuite) TestMissingScoreIsFailure() {
	predicates, err := Custom(CustomOptions{})
	suite.Require().NoError(err)

	result := suite.screener.Evaluate([]types.Snapshot{
		{Symbol: "600000", Price: 10},
		snap("600001", 50, nil),
		{Symbol: "bogus", Price: 10},
	}, predicates, Options{})

	suite.Equal([]string{"600001"}, result.Symbols())
	suite.Require().Len(result.Failures, 2)
	suite.Equal(errors.ErrCodeUpstreamDataGap, result.Failures[0].Code())
	suite.Equal(errors.ErrCodeInvalidSymbol, result.Failures[1].Code())
}

func (suite *ScreenerTestSuite) TestDeterministicAndMonotonic() {
	snapshots := []types.Snapshot{
		snap("600001", 60, map[string]float64{"pct_change": 2, "volume_ratio": 2}),
		snap("600002", 65, map[string]float64{"pct_change": 8, "volume_ratio": 2}),
		snap("600003", 70, map[string]float64{"pct_change": 4, "volume_ratio": 1}),
		snap("600004", 75, map[string]float64{"pct_change": 4}),
	}

	full, err := Custom(CustomOptions{Extra: []Descriptor{
		{Kind: KindThreshold, Metric: "pct_change", Op: OpGTE, Value: 1},
		{Kind: KindThreshold, Metric: "pct_change", Op: OpLTE, Value: 7},
		{Kind: KindThreshold, Metric: "volume_ratio", Op: OpGTE, Value: 1.5},
	}})
	suite.Require().NoError(err)

	first := suite.screener.Evaluate(snapshots, full, Options{})
	second := suite.screener.Evaluate(snapshots, full, Options{})
	suite.Equal(first, second)
	suite.Equal([]string{"600001"}, first.Symbols())

	for drop := range full {
		reduced := append(append([]Predicate{}, full[:drop]...), full[drop+1:]...)
		smaller := suite.screener.Evaluate(snapshots, reduced, Options{})
		suite.Subset(smaller.Symbols(), first.Symbols(), "dropping %s", full[drop].Name())
		suite.GreaterOrEqual(len(smaller.Candidates), len(first.Candidates))
	}
}

func (suite *ScreenerTestSuite) TestUniverseFiltersAndLimit() {
	predicates, err := Custom(CustomOptions{})
	suite.Require().NoError(err)

	st := snap("600005", 99, nil)
	st.Name = "*ST测试"

	result := suite.screener.Evaluate([]types.Snapshot{
		snap("300750", 95, nil),
		st,
		snap("600001", 60, nil),
		snap("600002", 50, nil),
	}, predicates, Options{MainBoardOnly: true, ExcludeST: true, Limit: 1})

	suite.Equal([]string{"600001"}, result.Symbols())
	suite.Equal(2, result.Rejected)
}

func (suite *ScreenerTestSuite) TestIceReversalGate() {
	candidate := snap("600001", 40, map[string]float64{
		"pct_change":    -4,
		"pct_change_5":  -15,
		"volume_growth": 1.8,
		"boll_pct_b":    10,
	})
	candidate.Patterns = []types.PatternMatch{{Name: "hammer", Bias: types.BiasBullish, Score: 10}}
	snapshots := []types.Snapshot{candidate}

	closed, err := suite.screener.EvaluatePreset("ice_reversal", snapshots, Options{})
	suite.Require().NoError(err)
	suite.True(closed.GateClosed, "missing sentiment fails closed")
	suite.Empty(closed.Candidates)

	warm, err := suite.screener.EvaluatePreset("ice_reversal", snapshots, Options{Sentiment: optional.Some(40.0)})
	suite.Require().NoError(err)
	suite.True(warm.GateClosed)

	cold, err := suite.screener.EvaluatePreset("ice_reversal", snapshots, Options{Sentiment: optional.Some(12.0)})
	suite.Require().NoError(err)
	suite.False(cold.GateClosed)
	suite.Equal([]string{"600001"}, cold.Symbols())
	suite.Equal("ice_reversal", cold.Preset)

	_, err = suite.screener.EvaluatePreset("nope", snapshots, Options{})
	suite.Equal(errors.ErrCodePresetNotFound, errors.GetCode(err))
}

func (suite *ScreenerTestSuite) TestTrendPullbackPreset() {
	passing := snap("600010", 72, map[string]float64{
		"pct_change":         1,
		"ma_20":              9.5,
		"ma_60":              9.0,
		"ma_10_distance_pct": 1.2,
		"rsi_6":              45,
		"max_pct_change_20":  10,
	})
	passing.Patterns = []types.PatternMatch{{Name: "engulfing", Bias: types.BiasBullish, Score: 8}}

	noPattern := passing
	noPattern.Symbol = "600011"
	noPattern.Patterns = nil

	result, err := suite.screener.EvaluatePreset("trend_pullback", []types.Snapshot{passing, noPattern}, Options{})
	suite.Require().NoError(err)
	suite.Equal([]string{"600010"}, result.Symbols())
	suite.Equal(1, result.Rejected)
}

func (suite *ScreenerTestSuite) TestCustom() {
	predicates, err := Custom(CustomOptions{
		PEMax:           optional.Some(20.0),
		MACDGoldenCross: true,
		AboveMA:         20,
	})
	suite.Require().NoError(err)
	suite.Len(predicates, 4)

	s := snap("600000", 60, map[string]float64{"macd_hist": 0.1, "ma_20": 9})
	s.Previous = map[string]float64{"macd_hist": -0.1}
	s.Fundamentals = map[string]float64{"pe": 15}

	outcome := Explain(s, predicates, optional.None[float64]())
	for name, ok := range outcome {
		suite.True(ok, name)
	}

	s.Fundamentals["pe"] = -3
	suite.False(Explain(s, predicates, optional.None[float64]())["pe > 0"])

	_, err = Custom(CustomOptions{AboveMA: -1})
	suite.Equal(errors.ErrCodeInvalidPeriod, errors.GetCode(err))
}

func (suite *ScreenerTestSuite) TestCustomIcePoint() {
	predicates, err := Custom(CustomOptions{IcePoint: true, AboveMA: 20})
	suite.Require().NoError(err)
	suite.Require().Len(predicates, 2)
	suite.True(predicates[0].Global())

	snapshots := []types.Snapshot{snap("600000", 60, map[string]float64{"ma_20": 9})}

	cold := suite.screener.Evaluate(snapshots, predicates, Options{Sentiment: optional.Some(DefaultSentimentThreshold - 1)})
	suite.False(cold.GateClosed)
	suite.Equal([]string{"600000"}, cold.Symbols())

	atThreshold := suite.screener.Evaluate(snapshots, predicates, Options{Sentiment: optional.Some(DefaultSentimentThreshold)})
	suite.True(atThreshold.GateClosed)
	suite.Empty(atThreshold.Candidates)

	// the built-in preset gates on the same level
	preset, err := DefaultCatalog().Get("ice_reversal")
	suite.Require().NoError(err)
	suite.Equal(KindSentiment, preset.Predicates[0].Kind)
	suite.Equal(DefaultSentimentThreshold, preset.Predicates[0].Value)
}
