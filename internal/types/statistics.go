package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type BacktestStats struct {
	// Count of all trades.
	NumberOfTrades int `yaml:"number_of_trades" json:"number_of_trades"`
	// Count of trades with positive return.
	NumberOfWinningTrades int `yaml:"number_of_winning_trades" json:"number_of_winning_trades"`
	// Count of trades with zero or negative return.
	NumberOfLosingTrades int `yaml:"number_of_losing_trades" json:"number_of_losing_trades"`
	// Fraction of winning trades.
	WinRate float64 `yaml:"win_rate" json:"win_rate"`
	// Mean of each trade's R multiple.
	AverageR float64 `yaml:"average_r" json:"average_r"`
	// Largest peak-to-trough fall of the equity curve, as a fraction of the peak.
	MaxDrawdown float64 `yaml:"max_drawdown" json:"max_drawdown"`
	// Final equity over initial capital minus one.
	TotalReturn    float64 `yaml:"total_return" json:"total_return"`
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital"`
	FinalEquity    float64 `yaml:"final_equity" json:"final_equity"`
}

type BacktestResult struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time     `yaml:"timestamp" json:"timestamp"`
	Symbol    string        `yaml:"symbol" json:"symbol"`
	Rule      string        `yaml:"rule" json:"rule"`
	Stats     BacktestStats `yaml:"stats" json:"stats"`
	Trades    []Trade       `yaml:"-" json:"trades"`
	// EquityCurve holds the running equity after each trade, starting with
	// the initial capital.
	EquityCurve []float64 `yaml:"-" json:"equity_curve"`
	// TradesFilePath is the path to the trades parquet file.
	TradesFilePath string `yaml:"trades_file_path,omitempty" json:"trades_file_path,omitempty"`
	// DataPath is the path to the bar file used for this run.
	DataPath string `yaml:"data_path,omitempty" json:"data_path,omitempty"`
}

func WriteBacktestResults(path string, results []BacktestResult) error {
	data, err := yaml.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest results to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest results to file: %w", err)
	}

	return nil
}
