package screener

import (
	"fmt"

	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/moznion/go-optional"
)

// CustomOptions builds an ad-hoc conjunctive screen.
type CustomOptions struct {
	// PEMax keeps profitable instruments with PE at or below the bound.
	PEMax optional.Option[float64]
	// MACDGoldenCross requires the histogram to turn positive on the
	// latest bar.
	MACDGoldenCross bool
	// AboveMA requires the close above the MA of this period; zero skips.
	AboveMA int
	// IcePoint gates the screen on sentiment below DefaultSentimentThreshold.
	IcePoint bool
	// Extra descriptors are appended unchanged.
	Extra []Descriptor
}

// Custom compiles the predicates of a custom screen.
func Custom(opts CustomOptions) ([]Predicate, error) {
	var descriptors []Descriptor

	if opts.IcePoint {
		descriptors = append(descriptors,
			Descriptor{Kind: KindSentiment, Op: OpLT, Value: DefaultSentimentThreshold})
	}

	if opts.PEMax.IsSome() {
		descriptors = append(descriptors,
			Descriptor{Kind: KindThreshold, Metric: "pe", Op: OpGT, Value: 0},
			Descriptor{Kind: KindThreshold, Metric: "pe", Op: OpLTE, Value: opts.PEMax.Unwrap()},
		)
	}

	if opts.MACDGoldenCross {
		descriptors = append(descriptors,
			Descriptor{Kind: KindCross, Metric: "macd_hist", Direction: DirectionUp, Value: 0})
	}

	if opts.AboveMA < 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "ma period must be positive, got %d", opts.AboveMA)
	}

	if opts.AboveMA > 0 {
		descriptors = append(descriptors,
			Descriptor{Kind: KindCompare, Metric: "price", Op: OpGT, Other: fmt.Sprintf("ma_%d", opts.AboveMA)})
	}

	descriptors = append(descriptors, opts.Extra...)

	return CompileAll(descriptors)
}
