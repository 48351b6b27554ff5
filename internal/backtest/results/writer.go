package results

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/MGmoket/stock-assistant/internal/logger"
	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Writer stores each backtest result under its own folder:
// <root>/<symbol>_<rule>_<run id>/{stats.yaml,trades.parquet}.
type Writer struct {
	root   string
	logger *logger.Logger
	now    func() time.Time
}

func NewWriter(root string, log *logger.Logger) *Writer {
	return &Writer{root: root, logger: logger.OrNop(log), now: time.Now}
}

// Write stamps the result with a run ID and timestamp and persists it. The
// stamped result is returned.
func (w *Writer) Write(result types.BacktestResult) (types.BacktestResult, error) {
	result.ID = uuid.New().String()
	result.Timestamp = w.now()

	dir := filepath.Join(w.root, fmt.Sprintf("%s_%s_%s", result.Symbol, result.Rule, result.ID[:8]))

	ledger, err := NewLedger(w.logger)
	if err != nil {
		return result, err
	}
	defer ledger.Close()

	if err := ledger.Insert(result.ID, result.Trades); err != nil {
		return result, err
	}

	path, err := ledger.Write(dir)
	if err != nil {
		return result, err
	}

	result.TradesFilePath = path

	if err := types.WriteBacktestResults(filepath.Join(dir, "stats.yaml"), []types.BacktestResult{result}); err != nil {
		return result, errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to write stats", err)
	}

	w.logger.Info("Saved backtest result",
		zap.String("id", result.ID),
		zap.String("symbol", result.Symbol),
		zap.String("dir", dir),
	)

	return result, nil
}
