package snapshot

import (
	"github.com/MGmoket/stock-assistant/internal/indicator"
	"github.com/MGmoket/stock-assistant/internal/pattern"
	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
)

// Builder turns bar history plus externally supplied fundamentals into
// screening snapshots.
type Builder struct {
	params  indicator.Params
	score   indicator.ScoreConfig
	scanner *pattern.Scanner
}

// Input is everything known about one instrument at build time.
type Input struct {
	Symbol       string
	Name         string
	Bars         []types.Bar
	Fundamentals map[string]float64
	CapitalFlow  types.CapitalFlow
}

func NewBuilder(params indicator.Params, score indicator.ScoreConfig, scanner *pattern.Scanner) *Builder {
	return &Builder{params: params, score: score, scanner: scanner}
}

// NewDefaultBuilder uses the default indicator, score and pattern tables.
func NewDefaultBuilder() *Builder {
	return NewBuilder(indicator.DefaultParams(), indicator.DefaultScoreConfig(),
		pattern.NewScanner(pattern.DefaultThresholds()))
}

// Build computes indicators on the latest bar. Indicators still in warm-up
// are left out of the snapshot so predicates over them fail closed.
func (b *Builder) Build(in Input) (types.Snapshot, error) {
	if len(in.Bars) == 0 {
		return types.Snapshot{}, errors.NewInsufficientDataError(1, 0, in.Symbol, "no bars to build a snapshot")
	}

	if err := types.ValidateBars(in.Bars); err != nil {
		return types.Snapshot{}, err
	}

	last := len(in.Bars) - 1
	analysis := indicator.Analyze(in.Bars, b.params)

	current := analysis.MetricsAt(last)
	current[types.MetricCompositeScore] = analysis.ScoreAt(last, b.score).Value

	snap := types.Snapshot{
		Symbol:       in.Symbol,
		Name:         in.Name,
		Price:        in.Bars[last].Close,
		Indicators:   current,
		Fundamentals: in.Fundamentals,
		CapitalFlow:  in.CapitalFlow,
	}

	if last > 0 {
		snap.Previous = analysis.MetricsAt(last - 1)
	}

	if b.scanner != nil {
		snap.Patterns = b.scanner.Latest(in.Bars)
	}

	return snap, nil
}

// BuildAll builds one snapshot per input, collecting failures without
// stopping.
func (b *Builder) BuildAll(inputs []Input) ([]types.Snapshot, []types.Failure) {
	var (
		snapshots []types.Snapshot
		failures  []types.Failure
	)

	for _, in := range inputs {
		snap, err := b.Build(in)
		if err != nil {
			failures = append(failures, types.NewFailure(in.Symbol, err))

			continue
		}

		snapshots = append(snapshots, snap)
	}

	return snapshots, failures
}
