package screener

import (
	"cmp"
	"slices"

	"github.com/MGmoket/stock-assistant/internal/symbol"
	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/moznion/go-optional"
	"github.com/samber/lo"
)

// DefaultSentimentThreshold is the ice-point level below which the
// ice_reversal preset and ice-point custom screens open.
const DefaultSentimentThreshold = 25.0

// Options are the universe filters and inputs of one screening pass.
type Options struct {
	MainBoardOnly bool `yaml:"main_board_only" json:"main_board_only"`
	ExcludeST     bool `yaml:"exclude_st" json:"exclude_st"`
	// Limit caps the ranked output; zero keeps every candidate.
	Limit int `yaml:"limit" json:"limit" validate:"gte=0"`
	// Sentiment is the external market-sentiment score, if known.
	Sentiment optional.Option[float64] `yaml:"-" json:"-"`
}

// Candidate is an instrument that passed every predicate.
type Candidate struct {
	Symbol string  `yaml:"symbol" json:"symbol"`
	Name   string  `yaml:"name,omitempty" json:"name,omitempty"`
	Score  float64 `yaml:"score" json:"score"`
}

// Result is the ranked output of a screening pass.
type Result struct {
	Preset     string          `yaml:"preset,omitempty" json:"preset,omitempty"`
	Candidates []Candidate     `yaml:"candidates" json:"candidates"`
	Failures   []types.Failure `yaml:"failures,omitempty" json:"failures,omitempty"`
	// Rejected counts instruments excluded by a predicate or filter.
	Rejected int `yaml:"rejected" json:"rejected"`
	// GateClosed is set when a market-wide predicate failed, so no
	// instrument was examined.
	GateClosed bool `yaml:"gate_closed" json:"gate_closed"`
}

// Symbols returns the ranked candidate symbols.
func (r Result) Symbols() []string {
	return lo.Map(r.Candidates, func(c Candidate, _ int) string { return c.Symbol })
}

// Screener evaluates predicate sets over snapshots.
type Screener struct {
	catalog *Catalog
}

func New(catalog *Catalog) *Screener {
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	return &Screener{catalog: catalog}
}

func (s *Screener) Catalog() *Catalog {
	return s.catalog
}

// EvaluatePreset screens snapshots with a named preset.
func (s *Screener) EvaluatePreset(name string, snapshots []types.Snapshot, opts Options) (Result, error) {
	preset, err := s.catalog.Get(name)
	if err != nil {
		return Result{}, err
	}

	predicates, err := preset.Compile()
	if err != nil {
		return Result{}, err
	}

	result := s.Evaluate(snapshots, predicates, opts)
	result.Preset = preset.Name

	return result, nil
}

// Evaluate keeps the snapshots satisfying every predicate and ranks them by
// composite score descending, then symbol ascending. A passing snapshot
// without a composite score is reported as a failure. Per-instrument
// problems never abort the pass.
func (s *Screener) Evaluate(snapshots []types.Snapshot, predicates []Predicate, opts Options) Result {
	global, local := lo.FilterReject(predicates, func(p Predicate, _ int) bool { return p.Global() })

	market := EvalContext{Sentiment: opts.Sentiment}
	if !lo.EveryBy(global, func(p Predicate) bool { return p.Test(market) }) {
		return Result{Rejected: len(snapshots), GateClosed: true}
	}

	var result Result

	for _, snap := range snapshots {
		code, err := symbol.Normalize(snap.Symbol)
		if err != nil {
			result.Failures = append(result.Failures, types.NewFailure(snap.Symbol, err))

			continue
		}

		if (opts.MainBoardOnly && !symbol.IsMainBoard(code)) || (opts.ExcludeST && symbol.IsST(snap.Name)) {
			result.Rejected++

			continue
		}

		ctx := EvalContext{Snapshot: snap, Sentiment: opts.Sentiment}
		if !lo.EveryBy(local, func(p Predicate) bool { return p.Test(ctx) }) {
			result.Rejected++

			continue
		}

		score, ok := get(snap.Score())
		if !ok {
			result.Failures = append(result.Failures, types.NewFailure(code,
				errors.Newf(errors.ErrCodeUpstreamDataGap, "%s has no composite score", code)))

			continue
		}

		result.Candidates = append(result.Candidates, Candidate{Symbol: code, Name: snap.Name, Score: score})
	}

	slices.SortFunc(result.Candidates, func(a, b Candidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}

		return cmp.Compare(a.Symbol, b.Symbol)
	})

	if opts.Limit > 0 && len(result.Candidates) > opts.Limit {
		result.Candidates = result.Candidates[:opts.Limit]
	}

	return result
}

// Explain reports the outcome of every predicate for one snapshot.
func Explain(snap types.Snapshot, predicates []Predicate, sentiment optional.Option[float64]) map[string]bool {
	ctx := EvalContext{Snapshot: snap, Sentiment: sentiment}

	return lo.SliceToMap(predicates, func(p Predicate) (string, bool) {
		return p.Name(), p.Test(ctx)
	})
}
