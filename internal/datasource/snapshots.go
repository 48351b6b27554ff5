package datasource

import (
	"os"

	"github.com/MGmoket/stock-assistant/internal/symbol"
	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// LoadSnapshots reads a YAML list of snapshots. The file usually carries only
// names, fundamentals and capital flow, with indicators filled in later from
// bars, but fully computed snapshots are accepted as well.
func LoadSnapshots(path string) ([]types.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to read snapshots %s", path)
	}

	return ParseSnapshots(data)
}

// ParseSnapshots decodes a snapshot list and normalizes its symbols.
func ParseSnapshots(data []byte) ([]types.Snapshot, error) {
	var snapshots []types.Snapshot
	if err := yaml.Unmarshal(data, &snapshots); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "failed to parse snapshots", err)
	}

	for i := range snapshots {
		code, err := symbol.Normalize(snapshots[i].Symbol)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidSymbol, err, "snapshot %d", i)
		}

		snapshots[i].Symbol = code
	}

	duplicates := lo.FindDuplicatesBy(snapshots, func(s types.Snapshot) string { return s.Symbol })
	if len(duplicates) > 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "duplicate snapshot for %s", duplicates[0].Symbol)
	}

	return snapshots, nil
}
