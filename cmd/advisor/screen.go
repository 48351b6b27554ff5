package main

import (
	"context"
	"fmt"

	"github.com/MGmoket/stock-assistant/internal/datasource"
	"github.com/MGmoket/stock-assistant/internal/pattern"
	"github.com/MGmoket/stock-assistant/internal/screener"
	"github.com/MGmoket/stock-assistant/internal/snapshot"
	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/moznion/go-optional"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
)

func screenCommand() *cli.Command {
	return &cli.Command{
		Name:      "screen",
		Usage:     "Rank instruments with a preset or a custom screen",
		ArgsUsage: "[SYMBOL...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "preset",
				Aliases: []string{"p"},
				Usage:   "Preset name; empty runs the custom screen",
			},
			&cli.BoolFlag{
				Name:  "list",
				Usage: "List the preset catalog and exit",
			},
			&cli.StringFlag{
				Name:  "snapshots",
				Usage: "YAML file with names, fundamentals and capital flow per symbol",
			},
			&cli.FloatFlag{
				Name:  "sentiment",
				Usage: "Market sentiment score, overrides the config",
				Value: -1,
			},
			&cli.FloatFlag{
				Name:  "pe-max",
				Usage: "Custom screen: keep 0 < PE <= value",
			},
			&cli.BoolFlag{
				Name:  "macd-golden",
				Usage: "Custom screen: MACD histogram turned positive on the latest bar",
			},
			&cli.IntFlag{
				Name:  "above-ma",
				Usage: "Custom screen: close above the MA of this period",
			},
			&cli.BoolFlag{
				Name:  "ice-point",
				Usage: "Custom screen: only run while market sentiment is at the ice point",
			},
		},
		Action: screenAction,
	}
}

func screenAction(ctx context.Context, cmd *cli.Command) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	catalog, err := e.config.Catalog()
	if err != nil {
		return err
	}

	if cmd.Bool("list") {
		return e.print(catalog.Presets)
	}

	profiles, err := e.profiles(ctx, cmd)
	if err != nil {
		return err
	}

	builder := snapshot.NewBuilder(e.config.Indicators, e.config.Score, pattern.NewScanner(e.config.Patterns))

	snapshots, failures, err := e.runner().Snapshots(ctx, builder, profiles)
	if err != nil {
		return err
	}

	opts := e.config.ScreenOptions()
	if s := cmd.Float("sentiment"); s >= 0 {
		opts.Sentiment = optional.Some(s)
	}

	s := screener.New(catalog)

	var result screener.Result
	if name := cmd.String("preset"); name != "" {
		result, err = s.EvaluatePreset(name, snapshots, opts)
		if err != nil {
			return err
		}
	} else {
		custom := screener.CustomOptions{
			MACDGoldenCross: cmd.Bool("macd-golden"),
			AboveMA:         int(cmd.Int("above-ma")),
			IcePoint:        cmd.Bool("ice-point"),
		}
		if cmd.IsSet("pe-max") {
			custom.PEMax = optional.Some(cmd.Float("pe-max"))
		}

		predicates, err := screener.Custom(custom)
		if err != nil {
			return err
		}

		if len(predicates) == 0 {
			return fmt.Errorf("no preset and no custom condition given")
		}

		result = s.Evaluate(snapshots, predicates, opts)
	}

	// instruments that never reached the screen
	result.Failures = append(failures, result.Failures...)

	return e.print(result)
}

// profiles returns the instruments to screen: the snapshot file when given,
// else the command arguments, else every instrument in the data directory.
func (e *env) profiles(ctx context.Context, cmd *cli.Command) ([]types.Snapshot, error) {
	if path := cmd.String("snapshots"); path != "" {
		return datasource.LoadSnapshots(path)
	}

	codes := cmd.Args().Slice()
	if len(codes) == 0 {
		var err error
		if codes, err = e.source.Symbols(ctx); err != nil {
			return nil, err
		}
	}

	return lo.Map(codes, func(code string, _ int) types.Snapshot {
		return types.Snapshot{Symbol: code}
	}), nil
}
