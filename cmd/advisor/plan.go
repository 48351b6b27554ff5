package main

import (
	"context"
	"fmt"

	"github.com/MGmoket/stock-assistant/internal/holdings"
	"github.com/MGmoket/stock-assistant/internal/indicator"
	"github.com/MGmoket/stock-assistant/internal/planner"
	"github.com/MGmoket/stock-assistant/internal/symbol"
	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/moznion/go-optional"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

type planReport struct {
	Plans    []types.OrderPlan `yaml:"plans"`
	Failures []types.Failure   `yaml:"failures,omitempty"`
}

func planCommand() *cli.Command {
	return &cli.Command{
		Name:      "plan",
		Usage:     "Size long entries against the risk budget",
		ArgsUsage: "SYMBOL...",
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:  "entry",
				Usage: "Entry price; with --stop and --target skips level suggestion (single symbol)",
			},
			&cli.FloatFlag{
				Name:  "stop",
				Usage: "Stop price",
			},
			&cli.FloatFlag{
				Name:  "target",
				Usage: "Target price",
			},
			&cli.FloatFlag{
				Name:  "capital",
				Usage: "Account size, overrides the config",
			},
			&cli.FloatFlag{
				Name:  "risk",
				Usage: "Fraction of capital risked per trade, overrides the config",
			},
		},
		Action: planAction,
	}
}

func planAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("at least one symbol is required")
	}

	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	capital, riskPct := e.config.Capital, e.config.RiskPct
	if cmd.IsSet("capital") {
		capital = cmd.Float("capital")
	}

	if cmd.IsSet("risk") {
		riskPct = cmd.Float("risk")
	}

	p, err := planner.New(e.config.Planner)
	if err != nil {
		return err
	}

	if cmd.IsSet("entry") {
		if cmd.Args().Len() != 1 || !cmd.IsSet("stop") || !cmd.IsSet("target") {
			return fmt.Errorf("--entry needs --stop, --target and exactly one symbol")
		}

		code, err := symbol.Normalize(cmd.Args().First())
		if err != nil {
			return err
		}

		req := planner.Request{
			Symbol:  code,
			Entry:   cmd.Float("entry"),
			Stop:    cmd.Float("stop"),
			Target:  cmd.Float("target"),
			Capital: capital,
			RiskPct: riskPct,
		}

		// manual levels still plan without bars, only the rating loses the score
		if bars, err := e.source.Bars(ctx, code); err == nil && len(bars) > 0 {
			req.Score = optional.Some(indicator.Composite(bars, e.config.Indicators, e.config.Score).Value)
		} else {
			e.logger.Warn("planning without a composite score", zap.String("symbol", code), zap.Error(err))
		}

		plan, err := p.Plan(req)
		if err != nil {
			return err
		}

		return e.print(planReport{Plans: []types.OrderPlan{plan}})
	}

	held := types.Holdings{}
	if e.config.HoldingsFile != "" {
		if held, err = holdings.Load(e.config.HoldingsFile); err != nil {
			return err
		}
	}

	reqs, failures, err := e.runner().Requests(ctx, p, e.config.Indicators, e.config.Score,
		cmd.Args().Slice(), capital, riskPct)
	if err != nil {
		return err
	}

	plans, planFailures := p.PlanBatch(reqs, held)

	return e.print(planReport{Plans: plans, Failures: append(failures, planFailures...)})
}
