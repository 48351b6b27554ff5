package screener

import (
	"fmt"
	"strconv"

	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
)

// Kind tags the variant of a predicate descriptor.
type Kind string

const (
	// KindThreshold compares a metric with a constant.
	KindThreshold Kind = "threshold"
	// KindCompare compares a metric with another metric scaled by Ratio.
	KindCompare Kind = "compare"
	// KindCross detects a metric crossing another metric, or the level in
	// Value when Other is empty, between the previous and the latest bar.
	KindCross Kind = "cross"
	// KindSentiment gates on the externally supplied market sentiment.
	KindSentiment Kind = "sentiment"
	// KindPattern requires a candlestick pattern of Bias on the latest bar.
	KindPattern Kind = "pattern"
)

// Op is a comparison operator.
type Op string

const (
	OpLT  Op = "lt"
	OpLTE Op = "lte"
	OpGT  Op = "gt"
	OpGTE Op = "gte"
	OpEQ  Op = "eq"
	OpNE  Op = "ne"
)

var opSymbols = map[Op]string{
	OpLT: "<", OpLTE: "<=", OpGT: ">", OpGTE: ">=", OpEQ: "==", OpNE: "!=",
}

func (o Op) apply(a, b float64) bool {
	switch o {
	case OpLT:
		return a < b
	case OpLTE:
		return a <= b
	case OpGT:
		return a > b
	case OpGTE:
		return a >= b
	case OpEQ:
		return a == b
	case OpNE:
		return a != b
	default:
		return false
	}
}

// Direction of a cross.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Descriptor is the data form of a predicate. Presets are lists of
// descriptors so new screens need no code.
type Descriptor struct {
	Kind      Kind       `yaml:"kind" json:"kind" validate:"required,oneof=threshold compare cross sentiment pattern"`
	Metric    string     `yaml:"metric,omitempty" json:"metric,omitempty" validate:"required_if=Kind threshold,required_if=Kind compare,required_if=Kind cross"`
	Op        Op         `yaml:"op,omitempty" json:"op,omitempty" validate:"required_if=Kind threshold,required_if=Kind compare,required_if=Kind sentiment,omitempty,oneof=lt lte gt gte eq ne"`
	Value     float64    `yaml:"value,omitempty" json:"value,omitempty"`
	Other     string     `yaml:"other,omitempty" json:"other,omitempty" validate:"required_if=Kind compare"`
	Ratio     float64    `yaml:"ratio,omitempty" json:"ratio,omitempty" validate:"gte=0"`
	Direction Direction  `yaml:"direction,omitempty" json:"direction,omitempty" validate:"required_if=Kind cross,omitempty,oneof=up down"`
	Bias      types.Bias `yaml:"bias,omitempty" json:"bias,omitempty" validate:"omitempty,oneof=bullish bearish neutral"`
}

func (d Descriptor) Validate() error {
	if err := validator.New().Struct(d); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPredicate, "invalid predicate descriptor", err)
	}

	return nil
}

// String renders the descriptor as a readable condition.
func (d Descriptor) String() string {
	value := strconv.FormatFloat(d.Value, 'f', -1, 64)

	switch d.Kind {
	case KindThreshold:
		return fmt.Sprintf("%s %s %s", d.Metric, opSymbols[d.Op], value)
	case KindCompare:
		if d.ratio() != 1 {
			return fmt.Sprintf("%s %s %s * %s", d.Metric, opSymbols[d.Op], d.Other,
				strconv.FormatFloat(d.ratio(), 'f', -1, 64))
		}

		return fmt.Sprintf("%s %s %s", d.Metric, opSymbols[d.Op], d.Other)
	case KindCross:
		target := d.Other
		if target == "" {
			target = value
		}

		return fmt.Sprintf("%s crosses %s %s", d.Metric, d.Direction, target)
	case KindSentiment:
		return fmt.Sprintf("sentiment %s %s", opSymbols[d.Op], value)
	case KindPattern:
		if d.Bias == "" {
			return "any pattern"
		}

		return fmt.Sprintf("%s pattern", d.Bias)
	default:
		return string(d.Kind)
	}
}

func (d Descriptor) ratio() float64 {
	if d.Ratio == 0 {
		return 1
	}

	return d.Ratio
}

// EvalContext is the input of a predicate. Sentiment is None when the
// caller has no market-sentiment reading.
type EvalContext struct {
	Snapshot  types.Snapshot
	Sentiment optional.Option[float64]
}

// Predicate is a compiled, side-effect free condition.
type Predicate struct {
	Descriptor Descriptor
	test       func(EvalContext) bool
}

// Name returns the readable condition.
func (p Predicate) Name() string {
	return p.Descriptor.String()
}

// Test evaluates the predicate. Any undefined input fails it.
func (p Predicate) Test(ctx EvalContext) bool {
	return p.test != nil && p.test(ctx)
}

// Global reports whether the predicate reads only market-wide state.
func (p Predicate) Global() bool {
	return p.Descriptor.Kind == KindSentiment
}

// Compile validates a descriptor and builds its predicate.
func Compile(d Descriptor) (Predicate, error) {
	if err := d.Validate(); err != nil {
		return Predicate{}, err
	}

	p := Predicate{Descriptor: d}

	switch d.Kind {
	case KindThreshold:
		p.test = func(ctx EvalContext) bool {
			v, ok := get(ctx.Snapshot.Metric(d.Metric))

			return ok && d.Op.apply(v, d.Value)
		}
	case KindCompare:
		p.test = func(ctx EvalContext) bool {
			a, okA := get(ctx.Snapshot.Metric(d.Metric))
			b, okB := get(ctx.Snapshot.Metric(d.Other))

			return okA && okB && d.Op.apply(a, b*d.ratio())
		}
	case KindCross:
		p.test = crossTest(d)
	case KindSentiment:
		p.test = func(ctx EvalContext) bool {
			v, ok := get(ctx.Sentiment)

			return ok && d.Op.apply(v, d.Value)
		}
	case KindPattern:
		p.test = func(ctx EvalContext) bool {
			return ctx.Snapshot.HasPattern(d.Bias)
		}
	default:
		return Predicate{}, errors.Newf(errors.ErrCodeInvalidPredicate, "unknown predicate kind %q", d.Kind)
	}

	return p, nil
}

// CompileAll compiles descriptors in order.
func CompileAll(descriptors []Descriptor) ([]Predicate, error) {
	predicates := make([]Predicate, 0, len(descriptors))

	for i, d := range descriptors {
		p, err := Compile(d)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidPredicate, err, "predicate %d", i)
		}

		predicates = append(predicates, p)
	}

	return predicates, nil
}

func crossTest(d Descriptor) func(EvalContext) bool {
	level := func(ctx EvalContext, previous bool) (float64, bool) {
		if d.Other == "" {
			return d.Value, true
		}

		if previous {
			return get(ctx.Snapshot.PreviousMetric(d.Other))
		}

		return get(ctx.Snapshot.Metric(d.Other))
	}

	return func(ctx EvalContext) bool {
		cur, ok1 := get(ctx.Snapshot.Metric(d.Metric))
		prev, ok2 := get(ctx.Snapshot.PreviousMetric(d.Metric))
		curRef, ok3 := level(ctx, false)
		prevRef, ok4 := level(ctx, true)

		if !ok1 || !ok2 || !ok3 || !ok4 {
			return false
		}

		if d.Direction == DirectionUp {
			return prev <= prevRef && cur > curRef
		}

		return prev >= prevRef && cur < curRef
	}
}

func get(o optional.Option[float64]) (float64, bool) {
	if o.IsNone() {
		return 0, false
	}

	return o.Unwrap(), true
}
