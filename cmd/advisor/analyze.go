package main

import (
	"context"
	"fmt"
	"time"

	"github.com/MGmoket/stock-assistant/internal/indicator"
	"github.com/MGmoket/stock-assistant/internal/pattern"
	"github.com/MGmoket/stock-assistant/internal/symbol"
	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/urfave/cli/v3"
)

type indicatorReport struct {
	Symbol  string             `yaml:"symbol"`
	Date    time.Time          `yaml:"date"`
	Close   float64            `yaml:"close"`
	Metrics map[string]float64 `yaml:"metrics"`
	Score   indicator.Score    `yaml:"score"`
	// Lines holds every registered indicator line on the latest bar.
	Lines   map[types.IndicatorType]map[string]float64 `yaml:"lines"`
	Pending []types.IndicatorType                      `yaml:"pending,omitempty"`
}

func indicatorsCommand() *cli.Command {
	return &cli.Command{
		Name:      "indicators",
		Usage:     "Show the latest indicator values and composite score",
		ArgsUsage: "SYMBOL",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, bars, code, err := loadOne(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			registry, err := indicator.NewRegistryFromParams(e.config.Indicators)
			if err != nil {
				return err
			}

			outputs, err := indicator.ComputeAll(registry, bars)
			if err != nil {
				return err
			}

			last := len(bars) - 1
			analysis := indicator.Analyze(bars, e.config.Indicators)

			lines := make(map[types.IndicatorType]map[string]float64, len(outputs))
			for name, out := range outputs {
				lines[name] = out.At(last)
			}

			return e.print(indicatorReport{
				Symbol:  code,
				Date:    bars[last].Time,
				Close:   bars[last].Close,
				Metrics: analysis.MetricsAt(last),
				Score:   analysis.ScoreAt(last, e.config.Score),
				Lines:   lines,
				Pending: indicator.Pending(registry, len(bars)),
			})
		},
	}
}

func patternsCommand() *cli.Command {
	return &cli.Command{
		Name:      "patterns",
		Usage:     "Detect candlestick patterns",
		ArgsUsage: "SYMBOL",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "List matches over the whole history instead of the latest bar",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, bars, _, err := loadOne(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			scanner := pattern.NewScanner(e.config.Patterns)

			var matches []types.PatternMatch
			if cmd.Bool("all") {
				matches = scanner.Collect(bars)
			} else {
				matches = scanner.Latest(bars)
			}

			return e.print(matches)
		},
	}
}

func loadOne(ctx context.Context, cmd *cli.Command) (*env, []types.Bar, string, error) {
	if cmd.Args().Len() != 1 {
		return nil, nil, "", fmt.Errorf("expected exactly one symbol")
	}

	code, err := symbol.Normalize(cmd.Args().First())
	if err != nil {
		return nil, nil, "", err
	}

	e, err := newEnv(cmd)
	if err != nil {
		return nil, nil, "", err
	}

	bars, err := e.source.Bars(ctx, code)
	if err == nil && len(bars) == 0 {
		err = errors.NewInsufficientDataError(1, 0, code, "bar file is empty")
	}

	if err != nil {
		e.Close()

		return nil, nil, "", err
	}

	return e, bars, code, nil
}
