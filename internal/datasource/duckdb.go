package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MGmoket/stock-assistant/internal/logger"
	"github.com/MGmoket/stock-assistant/internal/symbol"
	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/MGmoket/stock-assistant/pkg/utils"
	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
)

// Format is the on-disk layout of a bar file.
type Format string

const (
	FormatParquet Format = "parquet"
	FormatCSV     Format = "csv"
)

// Range restricts a load to bars within [Start, End]. Unset bounds are open.
type Range struct {
	Start optional.Option[time.Time]
	End   optional.Option[time.Time]
}

// DuckDBBarSource reads daily bars from one file per instrument under a
// directory: <dir>/<symbol>.parquet or <dir>/<symbol>.csv, each with the
// columns time, open, high, low, close and volume.
type DuckDBBarSource struct {
	db     *sql.DB
	dir    string
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
	// guards the export table
	mu sync.Mutex
}

// NewDuckDBBarSource opens an in-memory duckdb used only as a file reader.
func NewDuckDBBarSource(dir string, log *logger.Logger) (*DuckDBBarSource, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBBarSource{
		db:     db,
		dir:    dir,
		logger: logger.OrNop(log),
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Bars loads the full history of one instrument. Parquet is preferred when
// both files exist.
func (d *DuckDBBarSource) Bars(ctx context.Context, code string) ([]types.Bar, error) {
	path, err := d.Path(code)
	if err != nil {
		return nil, err
	}

	return d.Load(ctx, path, Range{})
}

// Path resolves the bar file of an instrument.
func (d *DuckDBBarSource) Path(code string) (string, error) {
	normalized, err := symbol.Normalize(code)
	if err != nil {
		return "", err
	}

	for _, format := range []Format{FormatParquet, FormatCSV} {
		path := filepath.Join(d.dir, normalized+"."+string(format))
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", errors.Newf(errors.ErrCodeDataNotFound, "no bar file for %s in %s", normalized, d.dir)
}

// Symbols lists the instruments that have a bar file, sorted.
func (d *DuckDBBarSource) Symbols(ctx context.Context) ([]string, error) {
	pattern := utils.SQLString(filepath.Join(d.dir, "*"))

	rows, err := d.sq.Select("file").
		From(fmt.Sprintf("glob('%s')", pattern)).
		RunWith(d.db).
		QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to list %s", d.dir)
	}
	defer rows.Close()

	seen := make(map[string]struct{})

	for rows.Next() {
		var file string
		if err := rows.Scan(&file); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan file name", err)
		}

		if _, ok := formatOf(file); !ok {
			continue
		}

		base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		if code, err := symbol.Normalize(base); err == nil {
			seen[code] = struct{}{}
		}
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating files", err)
	}

	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}

	sort.Strings(codes)

	return codes, nil
}

// Load reads a bar file ordered by time and validates it. Duplicate
// timestamps and non-positive prices are rejected.
func (d *DuckDBBarSource) Load(ctx context.Context, path string, r Range) ([]types.Bar, error) {
	format, ok := formatOf(path)
	if !ok {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported bar file %s", path)
	}

	d.logger.Debug("Loading bars", zap.String("path", path), zap.String("format", string(format)))

	query := d.sq.Select(
		"CAST(time AS TIMESTAMP) AS ts",
		"CAST(open AS DOUBLE)",
		"CAST(high AS DOUBLE)",
		"CAST(low AS DOUBLE)",
		"CAST(close AS DOUBLE)",
		"CAST(volume AS DOUBLE)",
	).From(reader(format, path)).OrderBy("ts ASC")

	if r.Start.IsSome() {
		query = query.Where(squirrel.GtOrEq{"CAST(time AS TIMESTAMP)": r.Start.Unwrap()})
	}

	if r.End.IsSome() {
		query = query.Where(squirrel.LtOrEq{"CAST(time AS TIMESTAMP)": r.End.Unwrap()})
	}

	rows, err := query.RunWith(d.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read %s", path)
	}
	defer rows.Close()

	var bars []types.Bar

	for rows.Next() {
		var bar types.Bar
		if err := rows.Scan(&bar.Time, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to scan bar from %s", path)
		}

		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "error iterating %s", path)
	}

	if err := types.ValidateBars(bars); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidBars, err, "invalid bars in %s", path)
	}

	return bars, nil
}

// WriteBars exports bars to path in the format given by its extension.
func (d *DuckDBBarSource) WriteBars(ctx context.Context, path string, bars []types.Bar) error {
	format, ok := formatOf(path)
	if !ok {
		return errors.Newf(errors.ErrCodeInvalidParameter, "unsupported bar file %s", path)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	_, err := d.db.ExecContext(ctx, `
		CREATE OR REPLACE TABLE export_bars (
			time TIMESTAMP,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to create export table", err)
	}

	if len(bars) > 0 {
		insert := d.sq.Insert("export_bars").Columns("time", "open", "high", "low", "close", "volume")
		for _, bar := range bars {
			insert = insert.Values(bar.Time, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
		}

		if _, err := insert.RunWith(d.db).ExecContext(ctx); err != nil {
			return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert bars", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to create directory", err)
	}

	options := "FORMAT PARQUET"
	if format == FormatCSV {
		options = "FORMAT CSV, HEADER"
	}

	// COPY has no squirrel builder
	if _, err := d.db.ExecContext(ctx, fmt.Sprintf(`COPY export_bars TO '%s' (%s)`, utils.SQLString(path), options)); err != nil {
		return errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to write %s", path)
	}

	d.logger.Info("Wrote bars", zap.String("path", path), zap.Int("bars", len(bars)))

	return nil
}

func (d *DuckDBBarSource) Close() error {
	return d.db.Close()
}

func formatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return FormatParquet, true
	case ".csv":
		return FormatCSV, true
	default:
		return "", false
	}
}

func reader(format Format, path string) string {
	if format == FormatCSV {
		return fmt.Sprintf("read_csv_auto('%s')", utils.SQLString(path))
	}

	return fmt.Sprintf("read_parquet('%s')", utils.SQLString(path))
}
