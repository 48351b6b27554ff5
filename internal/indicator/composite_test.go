package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type CompositeTestSuite struct {
	suite.Suite
}

func TestCompositeSuite(t *testing.T) {
	suite.Run(t, new(CompositeTestSuite))
}

func (suite *CompositeTestSuite) TestDefaultsAreValid() {
	suite.NoError(DefaultParams().Validate())
	suite.NoError(DefaultScoreConfig().Validate())
}

func (suite *CompositeTestSuite) TestInvalidConfig() {
	params := DefaultParams()
	params.MACDFast = 30
	suite.Error(params.Validate())

	cfg := DefaultScoreConfig()
	cfg.Levels.Ratings = [4]float64{60, 80, 40, 20}
	suite.Error(cfg.Validate())

	cfg = DefaultScoreConfig()
	cfg.Levels.VolumeShrink = 2
	suite.Error(cfg.Validate())
}

func (suite *CompositeTestSuite) TestShortInputScoresBase() {
	score := Composite(barsFromCloses(10), DefaultParams(), DefaultScoreConfig())

	suite.Equal(50.0, score.Value)
	suite.Equal(ScoreRatingNeutral, score.Rating)
	suite.Empty(score.Terms)
	suite.ElementsMatch([]string{"ma_trend", "ma_alignment", "macd", "kdj", "boll", "rsi", "volume"}, score.Undefined)
}

func (suite *CompositeTestSuite) TestScoreIsBoundedAndDeterministic() {
	for _, closes := range [][]float64{ramp(120, 10, 0.5), ramp(120, 80, -0.5), wave(120, 20, 4)} {
		bars := barsFromCloses(closes...)
		first := Composite(bars, DefaultParams(), DefaultScoreConfig())
		second := Composite(bars, DefaultParams(), DefaultScoreConfig())

		suite.Equal(first, second)
		suite.GreaterOrEqual(first.Value, 0.0)
		suite.LessOrEqual(first.Value, 100.0)
	}
}

func (suite *CompositeTestSuite) TestUptrendBeatsDowntrend() {
	up := Composite(barsFromCloses(ramp(120, 10, 0.5)...), DefaultParams(), DefaultScoreConfig())
	down := Composite(barsFromCloses(ramp(120, 80, -0.5)...), DefaultParams(), DefaultScoreConfig())

	suite.Greater(up.Value, down.Value)
	// every average sits below price and they are stacked
	suite.InDelta(15.0, up.Terms["ma_trend"], 1e-9)
	suite.InDelta(5.0, up.Terms["ma_alignment"], 1e-9)
	suite.InDelta(-15.0, down.Terms["ma_trend"], 1e-9)
}

func (suite *CompositeTestSuite) TestWeightsAreTunable() {
	bars := barsFromCloses(ramp(120, 10, 0.5)...)

	cfg := DefaultScoreConfig()
	cfg.Weights = Weights{Base: 42}
	score := Composite(bars, DefaultParams(), cfg)

	suite.Equal(42.0, score.Value)
	for name, points := range score.Terms {
		suite.Zerof(points, "term %s", name)
	}
}

func (suite *CompositeTestSuite) TestRatingBuckets() {
	bounds := DefaultScoreConfig().Levels.Ratings
	suite.Equal(ScoreRatingStrongBuy, rate(80, bounds))
	suite.Equal(ScoreRatingBuy, rate(79.9, bounds))
	suite.Equal(ScoreRatingNeutral, rate(40, bounds))
	suite.Equal(ScoreRatingSell, rate(20, bounds))
	suite.Equal(ScoreRatingStrongSell, rate(0, bounds))
}

// ============================================================================
// Analysis metrics
// ============================================================================

func (suite *CompositeTestSuite) TestMetricsAt() {
	closes := ramp(70, 10, 0.2)
	bars := barsFromCloses(closes...)
	analysis := Analyze(bars, DefaultParams())

	metrics := analysis.MetricsAt(len(bars) - 1)
	suite.InDelta(closes[69], metrics["price"], 1e-12)
	suite.Contains(metrics, "ma_60")
	suite.Contains(metrics, "macd_hist")
	suite.Contains(metrics, "rsi_6")
	suite.Contains(metrics, "rsi_14")
	suite.Contains(metrics, "boll_pct_b")
	suite.Contains(metrics, "ma_10_distance_pct")
	suite.Equal(1.0, metrics["ma_bullish_alignment"])
	suite.InDelta((closes[69]-closes[68])/closes[68]*100, metrics["pct_change"], 1e-9)
	suite.InDelta((closes[69]-closes[64])/closes[64]*100, metrics["pct_change_5"], 1e-9)
	suite.Contains(metrics, "max_pct_change_20")
	suite.Equal(1.0, metrics["volume_growth"])

	early := analysis.MetricsAt(3)
	suite.NotContains(early, "ma_5")
	suite.NotContains(early, "macd_golden_cross")
	suite.NotContains(early, "ma_bullish_alignment")
}

func (suite *CompositeTestSuite) TestMaxDailyChange() {
	analysis := Analyze(barsFromCloses(10, 11, 10, 10.5), DefaultParams())

	best, ok := analysis.MaxDailyChange(3, 20)
	suite.True(ok)
	suite.InDelta(10.0, best, 1e-9)

	_, ok = analysis.MaxDailyChange(0, 20)
	suite.False(ok)
}
