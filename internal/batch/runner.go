package batch

import (
	"context"

	"github.com/MGmoket/stock-assistant/internal/backtest"
	"github.com/MGmoket/stock-assistant/internal/indicator"
	"github.com/MGmoket/stock-assistant/internal/logger"
	"github.com/MGmoket/stock-assistant/internal/planner"
	"github.com/MGmoket/stock-assistant/internal/snapshot"
	"github.com/MGmoket/stock-assistant/internal/symbol"
	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/moznion/go-optional"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BarProvider supplies the daily bar history of one instrument.
type BarProvider interface {
	Bars(ctx context.Context, symbol string) ([]types.Bar, error)
}

// Runner fans per-instrument work out over a bounded number of goroutines.
// A failing instrument is recorded and never stops the others; output keeps
// the input order.
type Runner struct {
	provider BarProvider
	limit    int
	logger   *logger.Logger
	progress func(symbol string)
}

type Option func(*Runner)

// WithProgress registers a callback invoked once per finished instrument.
// It may be called concurrently.
func WithProgress(fn func(symbol string)) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

// WithLogger sets the runner logger.
func WithLogger(log *logger.Logger) Option {
	return func(r *Runner) {
		r.logger = logger.OrNop(log)
	}
}

// NewRunner creates a runner; a limit below one runs sequentially.
func NewRunner(provider BarProvider, limit int, opts ...Option) *Runner {
	r := &Runner{
		provider: provider,
		limit:    max(limit, 1),
		logger:   logger.NewNopLogger(),
		progress: func(string) {},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

type outcome[T any] struct {
	value T
	err   error
	ok    bool
}

// run applies fn to every symbol and gathers values and failures in input
// order. The returned error is only the context error.
func run[T any](ctx context.Context, r *Runner, symbols []string,
	fn func(ctx context.Context, code string, bars []types.Bar) (T, error),
) ([]T, []types.Failure, error) {
	outcomes := make([]outcome[T], len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)

	for i, raw := range symbols {
		g.Go(func() error {
			defer r.progress(raw)

			if err := gctx.Err(); err != nil {
				return err
			}

			code, err := symbol.Normalize(raw)
			if err != nil {
				outcomes[i] = outcome[T]{err: err}

				return nil
			}

			bars, err := r.provider.Bars(gctx, code)
			if err != nil {
				r.logger.Warn("Failed to load bars", zap.String("symbol", code), zap.Error(err))
				outcomes[i] = outcome[T]{err: err}

				return nil
			}

			value, err := fn(gctx, code, bars)
			outcomes[i] = outcome[T]{value: value, err: err, ok: err == nil}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var (
		values   []T
		failures []types.Failure
	)

	for i, o := range outcomes {
		if o.ok {
			values = append(values, o.value)

			continue
		}

		failures = append(failures, types.NewFailure(symbols[i], o.err))
	}

	r.logger.Info("Batch finished",
		zap.Int("instruments", len(symbols)),
		zap.Int("succeeded", len(values)),
		zap.Int("failed", len(failures)),
	)

	return values, failures, nil
}

// Backtest replays every symbol through engine.
func (r *Runner) Backtest(ctx context.Context, engine *backtest.Engine, symbols []string) (
	[]types.BacktestResult, []types.Failure, error,
) {
	return run(ctx, r, symbols, func(_ context.Context, code string, bars []types.Bar) (types.BacktestResult, error) {
		return engine.Run(code, bars)
	})
}

// Snapshots builds a snapshot for each profile from its bars. Profiles carry
// the names, fundamentals and capital flow supplied from outside.
func (r *Runner) Snapshots(ctx context.Context, builder *snapshot.Builder, profiles []types.Snapshot) (
	[]types.Snapshot, []types.Failure, error,
) {
	byCode := make(map[string]types.Snapshot, len(profiles))
	symbols := lo.Map(profiles, func(p types.Snapshot, _ int) string {
		if code, err := symbol.Normalize(p.Symbol); err == nil {
			byCode[code] = p
		}

		return p.Symbol
	})

	return run(ctx, r, symbols, func(_ context.Context, code string, bars []types.Bar) (types.Snapshot, error) {
		profile := byCode[code]

		return builder.Build(snapshot.Input{
			Symbol:       code,
			Name:         profile.Name,
			Bars:         bars,
			Fundamentals: profile.Fundamentals,
			CapitalFlow:  profile.CapitalFlow,
		})
	})
}

// Requests derives order requests from each symbol's latest bars, carrying
// the composite score of the last bar for the risk rating.
func (r *Runner) Requests(ctx context.Context, p *planner.Planner, params indicator.Params,
	score indicator.ScoreConfig, symbols []string, capital, riskPct float64,
) ([]planner.Request, []types.Failure, error) {
	return run(ctx, r, symbols, func(_ context.Context, code string, bars []types.Bar) (planner.Request, error) {
		levels, err := p.SuggestLevels(bars, params)
		if err != nil {
			return planner.Request{}, err
		}

		return planner.Request{
			Symbol:  code,
			Entry:   levels.Entry,
			Stop:    levels.Stop,
			Target:  levels.Target,
			Capital: capital,
			RiskPct: riskPct,
			Score:   optional.Some(indicator.Composite(bars, params, score).Value),
		}, nil
	})
}
