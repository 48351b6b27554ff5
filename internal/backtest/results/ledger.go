package results

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MGmoket/stock-assistant/internal/logger"
	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/MGmoket/stock-assistant/pkg/utils"
	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"
)

var tradeColumns = []string{
	"run_id", "symbol", "entry_index", "entry_time", "entry_price", "initial_stop",
	"exit_index", "exit_time", "exit_price", "exit_reason", "quantity", "pnl",
}

// Ledger is an in-memory duckdb trade table used to export and re-read
// backtest trades as parquet.
type Ledger struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

func NewLedger(log *logger.Logger) (*Ledger, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to open database", err)
	}

	l := &Ledger{
		db:     db,
		logger: logger.OrNop(log),
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := l.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return l, nil
}

func (l *Ledger) initialize() error {
	_, err := l.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			run_id TEXT,
			symbol TEXT,
			entry_index INTEGER,
			entry_time TIMESTAMP,
			entry_price DOUBLE,
			initial_stop DOUBLE,
			exit_index INTEGER,
			exit_time TIMESTAMP,
			exit_price DOUBLE,
			exit_reason TEXT,
			quantity BIGINT,
			pnl DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to create trades table", err)
	}

	return nil
}

// Insert appends trades of one run in a single transaction.
func (l *Ledger) Insert(runID string, trades []types.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := l.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to begin transaction", err)
	}

	query := l.sq.Insert("trades").Columns(tradeColumns...)
	for _, t := range trades {
		query = query.Values(
			runID, t.Symbol, t.EntryIndex, t.EntryTime, t.EntryPrice, t.InitialStop,
			t.ExitIndex, t.ExitTime, t.ExitPrice, string(t.ExitReason), t.Quantity, t.PnL,
		)
	}

	if _, err := query.RunWith(tx).Exec(); err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to insert trades", err)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to commit trades", err)
	}

	return nil
}

// Trades returns the trades of one run in exit order.
func (l *Ledger) Trades(runID string) ([]types.Trade, error) {
	rows, err := l.sq.Select(tradeColumns[1:]...).
		From("trades").
		Where(squirrel.Eq{"run_id": runID}).
		OrderBy("exit_index ASC", "entry_index ASC").
		RunWith(l.db).
		Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query trades", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// Write exports the trade table to dir/trades.parquet and returns the path.
func (l *Ledger) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to create directory", err)
	}

	path := filepath.Join(dir, "trades.parquet")

	// COPY has no squirrel builder
	if _, err := l.db.Exec(fmt.Sprintf(`COPY trades TO '%s' (FORMAT PARQUET)`, utils.SQLString(path))); err != nil {
		return "", errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to export trades to parquet", err)
	}

	l.logger.Info("Exported backtest trades", zap.String("path", path))

	return path, nil
}

// ReadTrades loads a trades.parquet file written by Write.
func (l *Ledger) ReadTrades(path string) ([]types.Trade, error) {
	rows, err := l.sq.Select(tradeColumns[1:]...).
		From(fmt.Sprintf("read_parquet('%s')", utils.SQLString(path))).
		OrderBy("exit_index ASC", "entry_index ASC").
		RunWith(l.db).
		Query()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read %s", path)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// Reset drops every stored trade.
func (l *Ledger) Reset() error {
	if _, err := l.sq.Delete("trades").RunWith(l.db).Exec(); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to reset trades", err)
	}

	return nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

func scanTrades(rows *sql.Rows) ([]types.Trade, error) {
	var trades []types.Trade

	for rows.Next() {
		var (
			t      types.Trade
			reason string
		)

		err := rows.Scan(
			&t.Symbol, &t.EntryIndex, &t.EntryTime, &t.EntryPrice, &t.InitialStop,
			&t.ExitIndex, &t.ExitTime, &t.ExitPrice, &reason, &t.Quantity, &t.PnL,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan trade", err)
		}

		t.ExitReason = types.ExitReason(reason)
		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating trades", err)
	}

	return trades, nil
}
