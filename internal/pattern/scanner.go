package pattern

import (
	"cmp"
	"iter"
	"math"
	"slices"

	"github.com/MGmoket/stock-assistant/internal/types"
)

// Scanner runs a pattern catalog over bar windows. It holds no state
// between scans and is safe for concurrent use.
type Scanner struct {
	catalog    []Pattern
	thresholds Thresholds
}

// NewScanner creates a scanner over the default catalog.
func NewScanner(th Thresholds) *Scanner {
	return NewScannerWithCatalog(DefaultCatalog(), th)
}

// NewScannerWithCatalog creates a scanner over a caller-supplied catalog.
func NewScannerWithCatalog(catalog []Pattern, th Thresholds) *Scanner {
	return &Scanner{
		catalog:    slices.Clone(catalog),
		thresholds: th,
	}
}

// Catalog returns a copy of the catalog in emission order.
func (s *Scanner) Catalog() []Pattern {
	return slices.Clone(s.catalog)
}

// MinWindow returns the widest lookback in the catalog, the window length
// at which every pattern can be evaluated on the last bar.
func (s *Scanner) MinWindow() int {
	widest := 0
	for _, p := range s.catalog {
		widest = max(widest, p.Lookback)
	}

	return widest
}

// Scan lazily yields every match in bars ordered by bar index, then by
// catalog order. A pattern is never evaluated on a bar that has fewer than
// Lookback-1 bars before it. Overlapping patterns are all reported. The
// returned sequence can be ranged over any number of times.
func (s *Scanner) Scan(bars []types.Bar) iter.Seq[types.PatternMatch] {
	return func(yield func(types.PatternMatch) bool) {
		split := splitter(bars)

		for i := range bars {
			for _, p := range s.catalog {
				if p.Lookback <= 0 || i < p.Lookback-1 {
					continue
				}

				bias, ok := p.Detect(split(i-p.Lookback+1, i+1), s.thresholds)
				if !ok {
					continue
				}

				if !yield(newMatch(bars[i], i, p, bias)) {
					return
				}
			}
		}
	}
}

// Collect returns Scan as a slice.
func (s *Scanner) Collect(bars []types.Bar) []types.PatternMatch {
	return slices.Collect(s.Scan(bars))
}

// Latest returns the matches on the final bar, strongest first; equal
// strengths keep catalog order.
func (s *Scanner) Latest(bars []types.Bar) []types.PatternMatch {
	last := len(bars) - 1

	var matches []types.PatternMatch

	for match := range s.Scan(bars) {
		if match.Index == last {
			matches = append(matches, match)
		}
	}

	slices.SortStableFunc(matches, func(a, b types.PatternMatch) int {
		return cmp.Compare(math.Abs(b.Score), math.Abs(a.Score))
	})

	return matches
}

// splitter memoizes the candle split of each bar for the duration of one
// scan.
func splitter(bars []types.Bar) func(from, to int) []parts {
	cache := make([]parts, len(bars))
	done := make([]bool, len(bars))

	return func(from, to int) []parts {
		for j := from; j < to; j++ {
			if !done[j] {
				cache[j] = split(bars[j])
				done[j] = true
			}
		}

		return cache[from:to]
	}
}

func newMatch(bar types.Bar, index int, p Pattern, bias types.Bias) types.PatternMatch {
	score := p.Score
	if bias == types.BiasBearish {
		score = -score
	}

	return types.PatternMatch{
		Index: index,
		Time:  bar.Time,
		Name:  p.Name,
		Bias:  bias,
		Score: score,
	}
}
