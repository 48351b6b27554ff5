package holdings

import (
	"os"

	"github.com/MGmoket/stock-assistant/internal/symbol"
	"github.com/MGmoket/stock-assistant/internal/types"
	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

type file struct {
	Holdings types.Holdings `yaml:"holdings"`
}

// Load reads the holdings ledger. A missing file is an empty ledger.
func Load(path string) (types.Holdings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return types.Holdings{}, nil
	}

	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read holdings %s", path)
	}

	return Parse(data)
}

// Parse decodes a ledger of the form
//
//	holdings:
//	  - symbol: "600519"
//	    quantity: 100
//	    avg_cost: 1650.5
//
// Symbols are normalized; every entry is validated and a symbol may appear
// only once.
func Parse(data []byte) (types.Holdings, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse holdings", err)
	}

	for i := range f.Holdings {
		code, err := symbol.Normalize(f.Holdings[i].Symbol)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidSymbol, err, "holding %d", i)
		}

		f.Holdings[i].Symbol = code

		if err := f.Holdings[i].Validate(); err != nil {
			return nil, err
		}
	}

	duplicates := lo.FindDuplicatesBy(f.Holdings, func(h types.Holding) string { return h.Symbol })
	if len(duplicates) > 0 {
		return nil, errors.Newf(errors.ErrCodeDuplicatePosition, "%s is listed more than once", duplicates[0].Symbol)
	}

	if f.Holdings == nil {
		return types.Holdings{}, nil
	}

	return f.Holdings, nil
}

// MarketValue is the cost basis of the ledger.
func MarketValue(h types.Holdings) float64 {
	return lo.SumBy(h, func(holding types.Holding) float64 {
		return float64(holding.Quantity) * holding.AvgCost
	})
}
