package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MGmoket/stock-assistant/internal/backtest"
	"github.com/MGmoket/stock-assistant/internal/backtest/results"
	"github.com/MGmoket/stock-assistant/internal/batch"
	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

type backtestReport struct {
	Results  []types.BacktestResult `yaml:"results"`
	Failures []types.Failure        `yaml:"failures,omitempty"`
}

func backtestCommand() *cli.Command {
	return &cli.Command{
		Name:      "backtest",
		Usage:     "Replay the configured rule over historical bars",
		ArgsUsage: "[SYMBOL...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "rule-config",
				Aliases: []string{"r"},
				Usage:   "Backtest config YAML, replaces the backtest section of the config",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Write stats.yaml and trades.parquet per instrument under results_dir",
			},
		},
		Action: backtestAction,
	}
}

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	config := e.config.Backtest
	if path := cmd.String("rule-config"); path != "" {
		if config, err = backtest.LoadConfig(path); err != nil {
			return err
		}
	}

	engine, err := backtest.NewEngine(config, e.logger)
	if err != nil {
		return err
	}

	codes := cmd.Args().Slice()
	if len(codes) == 0 {
		if codes, err = e.source.Symbols(ctx); err != nil {
			return err
		}
	}

	bar := progressbar.NewOptions(len(codes),
		progressbar.OptionSetDescription(fmt.Sprintf("Backtesting %s", config.Rule)),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
	)

	runs, failures, err := e.runner(batch.WithProgress(func(string) { _ = bar.Add(1) })).
		Backtest(ctx, engine, codes)
	if err != nil {
		return err
	}

	_ = bar.Finish()

	if cmd.Bool("save") {
		writer := results.NewWriter(e.config.ResultsDir, e.logger)
		for i := range runs {
			if runs[i], err = writer.Write(runs[i]); err != nil {
				return err
			}
		}
	}

	return e.print(backtestReport{Results: runs, Failures: failures})
}
