package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/MGmoket/stock-assistant/internal/backtest"
	"github.com/MGmoket/stock-assistant/internal/indicator"
	"github.com/MGmoket/stock-assistant/internal/planner"
	"github.com/MGmoket/stock-assistant/internal/snapshot"
	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/mocks"
	errs "github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RunnerTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	provider *mocks.MockBarProvider
	bars     []types.Bar
}

func TestRunnerSuite(t *testing.T) {
	suite.Run(t, new(RunnerTestSuite))
}

func (suite *RunnerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.provider = mocks.NewMockBarProvider(suite.ctrl)
	suite.bars = mocks.GenerateBars(120)
}

func (suite *RunnerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *RunnerTestSuite) expectBars() {
	suite.provider.EXPECT().Bars(gomock.Any(), "600519").Return(suite.bars, nil)
	suite.provider.EXPECT().Bars(gomock.Any(), "000001").
		Return(nil, errs.New(errs.ErrCodeDataNotFound, "no bar file"))
	suite.provider.EXPECT().Bars(gomock.Any(), "300750").Return(suite.bars[:3], nil)
}

// ============================================================================
// Backtest Tests
// ============================================================================

func (suite *RunnerTestSuite) TestBacktestIsolatesFailures() {
	suite.expectBars()

	var done atomic.Int32

	runner := NewRunner(suite.provider, 2, WithProgress(func(string) { done.Add(1) }))
	engine, err := backtest.NewEngine(backtest.DefaultConfig(), nil)
	suite.Require().NoError(err)

	results, failures, err := runner.Backtest(context.Background(), engine, []string{"SH600519", "000001", "bad", "300750"})
	suite.Require().NoError(err)

	suite.Require().Len(results, 2)
	suite.Equal("600519", results[0].Symbol)
	suite.Equal("300750", results[1].Symbol)
	suite.Empty(results[1].Trades)

	expected, err := engine.Run("600519", suite.bars)
	suite.Require().NoError(err)
	suite.Equal(expected, results[0])

	suite.Require().Len(failures, 2)
	suite.Equal("000001", failures[0].Symbol)
	suite.Equal(errs.ErrCodeDataNotFound, failures[0].Code())
	suite.Equal("bad", failures[1].Symbol)
	suite.Equal(errs.ErrCodeInvalidSymbol, failures[1].Code())

	suite.Equal(int32(4), done.Load())
}

func (suite *RunnerTestSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine, err := backtest.NewEngine(backtest.DefaultConfig(), nil)
	suite.Require().NoError(err)

	_, _, err = NewRunner(suite.provider, 1).Backtest(ctx, engine, []string{"600519"})
	suite.True(errors.Is(err, context.Canceled))
}

// ============================================================================
// Snapshot And Plan Tests
// ============================================================================

func (suite *RunnerTestSuite) TestSnapshots() {
	suite.expectBars()

	profiles := []types.Snapshot{
		{Symbol: "600519", Name: "Moutai", Fundamentals: map[string]float64{"pe": 28}},
		{Symbol: "000001"},
		{Symbol: "300750"},
	}

	snapshots, failures, err := NewRunner(suite.provider, 3).
		Snapshots(context.Background(), snapshot.NewDefaultBuilder(), profiles)
	suite.Require().NoError(err)

	suite.Require().Len(snapshots, 2)
	suite.Equal("Moutai", snapshots[0].Name)
	suite.Equal(28.0, snapshots[0].Metric("pe").Unwrap())
	suite.True(snapshots[0].Score().IsSome())
	suite.Equal(suite.bars[len(suite.bars)-1].Close, snapshots[0].Price)
	suite.Equal("300750", snapshots[1].Symbol)

	suite.Require().Len(failures, 1)
	suite.Equal("000001", failures[0].Symbol)
}

func (suite *RunnerTestSuite) TestRequests() {
	suite.expectBars()

	p := planner.NewDefault()
	reqs, failures, err := NewRunner(suite.provider, 2).Requests(context.Background(), p,
		indicator.DefaultParams(), indicator.DefaultScoreConfig(), []string{"600519", "000001", "300750"}, 30000, 0.02)
	suite.Require().NoError(err)
	suite.Len(failures, 1)
	suite.Require().Len(reqs, 2)

	for _, req := range reqs {
		suite.Less(req.Stop, req.Entry)
		suite.Greater(req.Target, req.Entry)
		suite.Equal(30000.0, req.Capital)
		suite.True(req.Score.IsSome())
	}

	expected := indicator.Composite(suite.bars, indicator.DefaultParams(), indicator.DefaultScoreConfig())
	suite.Equal(expected.Value, reqs[0].Score.Unwrap())

	plans, planFailures := p.PlanBatch(reqs, types.Holdings{{Symbol: "300750", Quantity: 100, AvgCost: 10}})
	suite.Len(plans, 1)
	suite.Require().Len(planFailures, 1)
	suite.Equal(errs.ErrCodeDuplicatePosition, planFailures[0].Code())
}

func (suite *RunnerTestSuite) TestRequestScoreReachesRating() {
	suite.provider.EXPECT().Bars(gomock.Any(), "600519").Return(suite.bars, nil)

	reqs, _, err := NewRunner(suite.provider, 1).Requests(context.Background(), planner.NewDefault(),
		indicator.DefaultParams(), indicator.DefaultScoreConfig(), []string{"600519"}, 1_000_000, 0.02)
	suite.Require().NoError(err)
	suite.Require().Len(reqs, 1)

	req := reqs[0]
	score := req.Score.Unwrap()
	req.Target = req.Entry + 4*(req.Entry-req.Stop)

	// the favorable bar sits exactly at this symbol's score
	cfg := planner.DefaultConfig()
	cfg.Rating.FavorableScore = score
	p, err := planner.New(cfg)
	suite.Require().NoError(err)

	plans, failures := p.PlanBatch([]planner.Request{req}, nil)
	suite.Empty(failures)
	suite.Require().Len(plans, 1)
	suite.Equal(types.RiskRatingFavorable, plans[0].Rating)
	suite.Require().NotNil(plans[0].Score)
	suite.Equal(score, *plans[0].Score)

	// one point higher and the same plan is only neutral
	cfg.Rating.FavorableScore = min(score+1, 100)
	p, err = planner.New(cfg)
	suite.Require().NoError(err)

	plans, _ = p.PlanBatch([]planner.Request{req}, nil)
	suite.Require().Len(plans, 1)
	if score < 100 {
		suite.Equal(types.RiskRatingNeutral, plans[0].Rating)
	}
}
