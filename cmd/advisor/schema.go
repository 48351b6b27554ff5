package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MGmoket/stock-assistant/internal/backtest"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const schemaName = "backtest-config.json"

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Write the backtest config JSON schema and a sample config",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out",
				Usage: "Output directory",
				Value: "config",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			schema, err := backtest.Schema()
			if err != nil {
				return err
			}

			dir := cmd.String("out")
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}

			schemaPath := filepath.Join(dir, schemaName)
			if err := os.WriteFile(schemaPath, []byte(schema), 0644); err != nil {
				return fmt.Errorf("failed to write schema: %w", err)
			}

			// an existing sample may carry local edits
			samplePath := filepath.Join(dir, "backtest-config.yaml")
			if _, err := os.Stat(samplePath); os.IsNotExist(err) {
				data, err := yaml.Marshal(backtest.DefaultConfig())
				if err != nil {
					return fmt.Errorf("failed to marshal sample config: %w", err)
				}

				data = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), data...)
				if err := os.WriteFile(samplePath, data, 0644); err != nil {
					return fmt.Errorf("failed to write sample config: %w", err)
				}

				fmt.Printf("Sample config written to %s\n", samplePath)
			}

			fmt.Printf("Schema written to %s\n", schemaPath)

			return nil
		},
	}
}
