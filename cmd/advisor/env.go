package main

import (
	"fmt"
	"io"
	"os"

	"github.com/MGmoket/stock-assistant/internal/batch"
	"github.com/MGmoket/stock-assistant/internal/config"
	"github.com/MGmoket/stock-assistant/internal/datasource"
	"github.com/MGmoket/stock-assistant/internal/logger"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// stdout receives every command report.
var stdout io.Writer = os.Stdout

// env is the per-invocation wiring shared by every command.
type env struct {
	config config.Config
	logger *logger.Logger
	source *datasource.DuckDBBarSource
	out    io.Writer
}

func newEnv(cmd *cli.Command) (*env, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if dir := cmd.String("data"); dir != "" {
		cfg.DataDir = dir
	}

	level := zapcore.WarnLevel
	if cmd.Bool("verbose") {
		level = zapcore.DebugLevel
	}

	log, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	source, err := datasource.NewDuckDBBarSource(cfg.DataDir, log)
	if err != nil {
		return nil, err
	}

	return &env{config: cfg, logger: log, source: source, out: stdout}, nil
}

func (e *env) runner(opts ...batch.Option) *batch.Runner {
	opts = append([]batch.Option{batch.WithLogger(e.logger)}, opts...)

	return batch.NewRunner(e.source, e.config.Concurrency, opts...)
}

func (e *env) Close() {
	e.source.Close()
	_ = e.logger.Sync()
}

func (e *env) print(v any) error {
	enc := yaml.NewEncoder(e.out)
	enc.SetIndent(2)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	return enc.Close()
}
